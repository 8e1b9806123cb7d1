package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shabeb-irshed/portal/internal/auth"
	"github.com/shabeb-irshed/portal/internal/models"
	"github.com/shabeb-irshed/portal/internal/services"
	pkghttp "github.com/shabeb-irshed/portal/pkg/http"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithSession adds an admin session to the request context
func WithSession(req *http.Request, credentialID int64) *http.Request {
	session := &models.Session{
		Token:         "tok",
		CredentialID:  credentialID,
		ExpiresAt:     time.Now().Add(time.Hour),
		SourceAddress: "192.0.2.1",
	}
	return req.WithContext(context.WithValue(req.Context(), auth.SessionContextKey, session))
}

// WithURLParam sets a chi route parameter on the request
func WithURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"), "Content-Type should be application/json")

	if target != nil {
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), target), "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response and returns it
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) pkghttp.ErrorResponse {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
	return resp
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	LoginFunc func(ctx context.Context, sourceAddress, username, password string) (*services.LoginResult, error)
}

func (m *MockAuthService) Login(ctx context.Context, sourceAddress, username, password string) (*services.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, sourceAddress, username, password)
	}
	return &services.LoginResult{Token: "token", ExpiresAt: time.Now().Add(24 * time.Hour)}, nil
}

// MockSubmissionService implements SubmissionServiceInterface for testing
type MockSubmissionService struct {
	SubmitFunc func(ctx context.Context, sub *models.Submission) (*models.SubmissionResult, error)
}

func (m *MockSubmissionService) Submit(ctx context.Context, sub *models.Submission) (*models.SubmissionResult, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, sub)
	}
	return &models.SubmissionResult{Success: true}, nil
}

// MockChatService implements ChatServiceInterface for testing
type MockChatService struct {
	ReplyFunc func(ctx context.Context, sourceAddress, message string) (string, error)
}

func (m *MockChatService) Reply(ctx context.Context, sourceAddress, message string) (string, error) {
	if m.ReplyFunc != nil {
		return m.ReplyFunc(ctx, sourceAddress, message)
	}
	return "reply", nil
}

// MockNewsService implements NewsServiceInterface for testing
type MockNewsService struct {
	ListFunc   func(ctx context.Context) ([]*models.News, error)
	CreateFunc func(ctx context.Context, session *models.Session, n *models.News) (*models.News, error)
	DeleteFunc func(ctx context.Context, session *models.Session, id int64) error
}

func (m *MockNewsService) List(ctx context.Context) ([]*models.News, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.News{}, nil
}

func (m *MockNewsService) Create(ctx context.Context, session *models.Session, n *models.News) (*models.News, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session, n)
	}
	n.ID = 1
	return n, nil
}

func (m *MockNewsService) Delete(ctx context.Context, session *models.Session, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, session, id)
	}
	return nil
}

// MockMediaService implements MediaServiceInterface for testing
type MockMediaService struct {
	UploadFunc func(ctx context.Context, file io.ReadSeeker, size int64) (string, error)
}

func (m *MockMediaService) Upload(ctx context.Context, file io.ReadSeeker, size int64) (string, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, file, size)
	}
	return "https://cdn.example.com/news/x.png", nil
}

// MockEvaluationService implements EvaluationServiceInterface for testing
type MockEvaluationService struct {
	GetWorkshopFunc func(ctx context.Context, id string) (*models.Workshop, error)
	SubmitFunc      func(ctx context.Context, ev *models.Evaluation) error
}

func (m *MockEvaluationService) GetWorkshop(ctx context.Context, id string) (*models.Workshop, error) {
	if m.GetWorkshopFunc != nil {
		return m.GetWorkshopFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockEvaluationService) Submit(ctx context.Context, ev *models.Evaluation) error {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, ev)
	}
	return nil
}

// MockAdminService implements AdminServiceInterface for testing
type MockAdminService struct {
	ListRegistrationsFunc   func(ctx context.Context, limit, offset int) ([]*models.Registration, error)
	GetEvaluationEmailsFunc func(ctx context.Context) ([]string, error)
	SetEvaluationEmailsFunc func(ctx context.Context, session *models.Session, emails []string) ([]string, error)
}

func (m *MockAdminService) ListRegistrations(ctx context.Context, limit, offset int) ([]*models.Registration, error) {
	if m.ListRegistrationsFunc != nil {
		return m.ListRegistrationsFunc(ctx, limit, offset)
	}
	return []*models.Registration{}, nil
}

func (m *MockAdminService) GetEvaluationEmails(ctx context.Context) ([]string, error) {
	if m.GetEvaluationEmailsFunc != nil {
		return m.GetEvaluationEmailsFunc(ctx)
	}
	return []string{}, nil
}

func (m *MockAdminService) SetEvaluationEmails(ctx context.Context, session *models.Session, emails []string) ([]string, error) {
	if m.SetEvaluationEmailsFunc != nil {
		return m.SetEvaluationEmailsFunc(ctx, session, emails)
	}
	return emails, nil
}

// MockHealthChecker implements HealthChecker for testing
type MockHealthChecker struct {
	Err error
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	return m.Err
}
