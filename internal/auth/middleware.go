package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/shabeb-irshed/portal/internal/models"
	pkghttp "github.com/shabeb-irshed/portal/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	// SessionContextKey is the key for storing the admin session in context
	SessionContextKey contextKey = "session"
)

// SessionValidator resolves a bearer token to a live session
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*models.Session, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header
func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// RequireSession rejects requests without a valid, unexpired admin session
// and injects the session into the request context.
// A store failure while validating is answered with 503 rather than 401 so
// the dashboard does not log the admin out on a transient outage.
func RequireSession(validator SessionValidator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				pkghttp.WriteUnauthorized(w, "missing or malformed bearer token")
				return
			}

			session, err := validator.ValidateSession(r.Context(), token)
			if err != nil {
				if errors.Is(err, models.ErrUnauthorized) {
					pkghttp.WriteUnauthorized(w, "session is invalid or expired")
					return
				}
				pkghttp.WriteServiceUnavailable(w, "unable to verify session")
				return
			}

			ctx := context.WithValue(r.Context(), SessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionFromContext extracts the admin session from request context
func GetSessionFromContext(r *http.Request) *models.Session {
	session, ok := r.Context().Value(SessionContextKey).(*models.Session)
	if !ok {
		return nil
	}
	return session
}
