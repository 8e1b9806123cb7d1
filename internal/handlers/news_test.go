package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shabeb-irshed/portal/internal/handlers"
	"github.com/shabeb-irshed/portal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsList(t *testing.T) {
	svc := &MockNewsService{ListFunc: func(ctx context.Context) ([]*models.News, error) {
		return []*models.News{{ID: 2, Title: "Camp", MediaURLs: []string{}}}, nil
	}}
	handler := handlers.NewNewsHandler(svc)

	w := httptest.NewRecorder()
	handler.List(w, httptest.NewRequest("GET", "/api/news", nil))

	var resp []map[string]interface{}
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	require.Len(t, resp, 1)
	assert.Equal(t, "2", resp[0]["id"])
	assert.Equal(t, []interface{}{}, resp[0]["mediaUrls"])
}

func TestNewsCreate(t *testing.T) {
	var gotSession *models.Session
	var got *models.News
	svc := &MockNewsService{CreateFunc: func(ctx context.Context, session *models.Session, n *models.News) (*models.News, error) {
		gotSession, got = session, n
		n.ID = 17
		return n, nil
	}}
	handler := handlers.NewNewsHandler(svc)

	req := NewTestRequest(t, "POST", "/api/admin/news", handlers.CreateNewsRequest{
		Title:     "Spring camp",
		Date:      "2025-04-10",
		Category:  "events",
		MediaURLs: []string{"https://cdn.example.com/news/a.png"},
	})
	w := httptest.NewRecorder()
	handler.Create(w, WithSession(req, 3))

	var resp map[string]interface{}
	AssertJSONResponse(t, w, http.StatusCreated, &resp)
	assert.Equal(t, "17", resp["id"])
	assert.Equal(t, int64(3), gotSession.CredentialID)
	assert.Equal(t, "Spring camp", got.Title)
}

func TestNewsCreate_Validation(t *testing.T) {
	handler := handlers.NewNewsHandler(&MockNewsService{})

	tests := []struct {
		name string
		req  handlers.CreateNewsRequest
	}{
		{"missing title", handlers.CreateNewsRequest{Date: "2025-04-10"}},
		{"bad date", handlers.CreateNewsRequest{Title: "x", Date: "10/04/2025"}},
		{"bad media url", handlers.CreateNewsRequest{Title: "x", Date: "2025-04-10", MediaURLs: []string{"not a url"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.Create(w, NewTestRequest(t, "POST", "/api/admin/news", tt.req))
			AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
		})
	}
}

func TestNewsDelete(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		err    error
		status int
	}{
		{"deleted", "5", nil, http.StatusOK},
		{"missing", "6", models.ErrNotFound, http.StatusNotFound},
		{"store error", "7", errors.New("db down"), http.StatusInternalServerError},
		{"bad id", "abc", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockNewsService{DeleteFunc: func(ctx context.Context, session *models.Session, id int64) error {
				return tt.err
			}}
			handler := handlers.NewNewsHandler(svc)

			req := WithURLParam(httptest.NewRequest("DELETE", "/api/admin/news/"+tt.id, nil), "id", tt.id)
			w := httptest.NewRecorder()
			handler.Delete(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}
