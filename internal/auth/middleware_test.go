package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shabeb-irshed/portal/internal/models"
	"github.com/stretchr/testify/assert"
)

type mockValidator struct {
	ValidateSessionFunc func(ctx context.Context, token string) (*models.Session, error)
}

func (m *mockValidator) ValidateSession(ctx context.Context, token string) (*models.Session, error) {
	return m.ValidateSessionFunc(ctx, token)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		token  string
		ok     bool
	}{
		{"valid", "Bearer abc123", "abc123", true},
		{"missing", "", "", false},
		{"wrong scheme", "Basic abc123", "", false},
		{"empty token", "Bearer   ", "", false},
		{"no separator", "Bearerabc", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			token, ok := BearerToken(req)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}

func TestRequireSession(t *testing.T) {
	valid := &models.Session{Token: "good", CredentialID: 7, ExpiresAt: time.Now().Add(time.Hour)}
	validator := &mockValidator{
		ValidateSessionFunc: func(ctx context.Context, token string) (*models.Session, error) {
			switch token {
			case "good":
				return valid, nil
			case "broken":
				return nil, errors.New("connection refused")
			default:
				return nil, models.ErrUnauthorized
			}
		},
	}

	var seen *models.Session
	handler := RequireSession(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSessionFromContext(r)
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid session", "Bearer good", http.StatusOK},
		{"no header", "", http.StatusUnauthorized},
		{"unknown or expired token", "Bearer stale", http.StatusUnauthorized},
		{"store failure", "Bearer broken", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/api/admin/session", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, valid, seen)
			} else {
				assert.Nil(t, seen)
			}
		})
	}
}
