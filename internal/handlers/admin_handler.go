package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shabeb-irshed/portal/internal/auth"
	"github.com/shabeb-irshed/portal/internal/models"
	pkghttp "github.com/shabeb-irshed/portal/pkg/http"
)

// AdminServiceInterface defines the dashboard service contract.
type AdminServiceInterface interface {
	ListRegistrations(ctx context.Context, limit, offset int) ([]*models.Registration, error)
	GetEvaluationEmails(ctx context.Context) ([]string, error)
	SetEvaluationEmails(ctx context.Context, session *models.Session, emails []string) ([]string, error)
}

// AdminHandler handles admin dashboard HTTP requests.
type AdminHandler struct {
	service AdminServiceInterface
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service AdminServiceInterface) *AdminHandler {
	return &AdminHandler{service: service}
}

// EvaluationEmailsRequest replaces the evaluation recipient list
type EvaluationEmailsRequest struct {
	Emails []string `json:"emails" validate:"max=50,dive,max=254"`
}

// ListRegistrations handles GET /api/admin/registrations
// Accepts optional query params ?limit=N (1–500, default 500) and ?offset=N.
// @Summary List registrations, newest first
// @Security BearerAuth
// @Param limit query int false "Page size (1-500)"
// @Param offset query int false "Rows to skip"
// @Produce json
// @Success 200 {array} models.Registration
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/admin/registrations [get]
func (h *AdminHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	limit := 500
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	offset := 0
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			offset = n
		}
	}

	regs, err := h.service.ListRegistrations(r.Context(), limit, offset)
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to fetch registrations")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, regs)
}

// GetEvaluationEmails handles GET /api/admin/settings/evaluation-emails
// @Summary Get evaluation recipients
// @Security BearerAuth
// @Produce json
// @Success 200 {array} string
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/admin/settings/evaluation-emails [get]
func (h *AdminHandler) GetEvaluationEmails(w http.ResponseWriter, r *http.Request) {
	emails, err := h.service.GetEvaluationEmails(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to fetch settings")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, emails)
}

// SetEvaluationEmails handles PUT /api/admin/settings/evaluation-emails
// @Summary Replace evaluation recipients
// @Accept json
// @Security BearerAuth
// @Param request body EvaluationEmailsRequest true "Recipient list"
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/admin/settings/evaluation-emails [put]
func (h *AdminHandler) SetEvaluationEmails(w http.ResponseWriter, r *http.Request) {
	var req EvaluationEmailsRequest

	r.Body = http.MaxBytesReader(w, r.Body, 32<<10)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	saved, err := h.service.SetEvaluationEmails(r.Context(), auth.GetSessionFromContext(r), req.Emails)
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to update settings")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"emails":  saved,
	})
}
