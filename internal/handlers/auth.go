package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shabeb-irshed/portal/internal/auth"
	"github.com/shabeb-irshed/portal/internal/models"
	"github.com/shabeb-irshed/portal/internal/services"
	pkghttp "github.com/shabeb-irshed/portal/pkg/http"
)

// AuthServiceInterface defines the interface for admin login
type AuthServiceInterface interface {
	Login(ctx context.Context, sourceAddress, username, password string) (*services.LoginResult, error)
}

// AuthHandler handles admin authentication HTTP requests
type AuthHandler struct {
	service  AuthServiceInterface
	ipConfig *pkghttp.IPConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface, ipConfig *pkghttp.IPConfig) *AuthHandler {
	return &AuthHandler{
		service:  service,
		ipConfig: ipConfig,
	}
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=128"`
	Password string `json:"password" validate:"required,password"`
}

// LoginResponse is returned on a successful login
type LoginResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

// Login handles POST /api/login
// @Summary Admin login
// @Accept json
// @Param request body LoginRequest true "Login request"
// @Produce json
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	r.Body = http.MaxBytesReader(w, r.Body, 4<<10)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	// Blank usernames are rejected here; the credential match itself is exact
	trimmed := req
	trimmed.Username = strings.TrimSpace(req.Username)
	if err := ValidateRequest(trimmed); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	ipAddress := pkghttp.ExtractClientIP(r, h.ipConfig)

	result, err := h.service.Login(r.Context(), ipAddress, req.Username, req.Password)
	if err != nil {
		var lockout *models.LockoutError
		switch {
		case errors.As(err, &lockout):
			hours := services.RetryAfterHours(lockout.Remaining)
			w.Header().Set("Retry-After", ceilSeconds(lockout.Remaining))
			if lockout.JustBlocked {
				pkghttp.WriteForbidden(w, fmt.Sprintf("Too many failed attempts. This device is blocked for %d hours.", hours))
				return
			}
			pkghttp.WriteForbidden(w, fmt.Sprintf("This device is blocked for security reasons. Try again in %d hours.", hours))
		case errors.Is(err, models.ErrNotBootstrapped):
			pkghttp.WriteUnauthorized(w, "The system is not initialized. Configure the initial admin credentials.")
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "Invalid credentials")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, LoginResponse{
		Success:   true,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.UTC().Format(timeLayout),
	})
}

// Session handles GET /api/admin/session. RequireSession has already
// rejected invalid tokens, so reaching here means the session is live.
// @Summary Check the admin session
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} ErrorResponse
// @Router /api/admin/session [get]
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSessionFromContext(r)
	if session == nil {
		pkghttp.WriteUnauthorized(w, "Session is invalid or expired")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"valid":     true,
		"expiresAt": session.ExpiresAt.UTC().Format(timeLayout),
	})
}
