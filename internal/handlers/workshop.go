package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shabeb-irshed/portal/internal/models"
	pkghttp "github.com/shabeb-irshed/portal/pkg/http"
)

// EvaluationServiceInterface defines the interface for workshops and their evaluations
type EvaluationServiceInterface interface {
	GetWorkshop(ctx context.Context, id string) (*models.Workshop, error)
	Submit(ctx context.Context, ev *models.Evaluation) error
}

// WorkshopHandler serves workshop definitions and accepts evaluations
type WorkshopHandler struct {
	service EvaluationServiceInterface
}

// NewWorkshopHandler creates a new WorkshopHandler
func NewWorkshopHandler(service EvaluationServiceInterface) *WorkshopHandler {
	return &WorkshopHandler{service: service}
}

// EvaluationRequest represents a submitted workshop evaluation
type EvaluationRequest struct {
	Participant   *models.Participant `json:"participant" validate:"required"`
	WorkshopTitle string              `json:"workshopTitle" validate:"max=300"`
	Responses     map[string]string   `json:"responses" validate:"required,max=100,dive,keys,max=500,endkeys,max=5000"`
	IsDynamic     bool                `json:"isDynamic"`
}

// GetWorkshop handles GET /api/workshops/{id}
// @Summary Get a workshop and its evaluation questions
// @Param id path string true "Workshop ID"
// @Produce json
// @Success 200 {object} models.Workshop
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/workshops/{id} [get]
func (h *WorkshopHandler) GetWorkshop(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		pkghttp.WriteBadRequest(w, "Missing workshop id")
		return
	}

	workshop, err := h.service.GetWorkshop(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Workshop not found")
			return
		}
		pkghttp.WriteInternalError(w, "Failed to load workshop")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, workshop)
}

// SubmitEvaluation handles POST /api/evaluations
// @Summary Submit a workshop evaluation
// @Accept json
// @Param request body EvaluationRequest true "Evaluation"
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/evaluations [post]
func (h *WorkshopHandler) SubmitEvaluation(w http.ResponseWriter, r *http.Request) {
	var req EvaluationRequest

	r.Body = http.MaxBytesReader(w, r.Body, 128<<10)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	err := h.service.Submit(r.Context(), &models.Evaluation{
		Participant:   *req.Participant,
		WorkshopTitle: strings.TrimSpace(req.WorkshopTitle),
		Responses:     req.Responses,
		IsDynamic:     req.IsDynamic,
	})
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to send the evaluation")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
