package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shabeb-irshed/portal/internal/auth"
	"github.com/shabeb-irshed/portal/internal/models"
	pkghttp "github.com/shabeb-irshed/portal/pkg/http"
)

// NewsServiceInterface defines the interface for the news feed
type NewsServiceInterface interface {
	List(ctx context.Context) ([]*models.News, error)
	Create(ctx context.Context, session *models.Session, n *models.News) (*models.News, error)
	Delete(ctx context.Context, session *models.Session, id int64) error
}

// NewsHandler handles the public feed and its admin edits
type NewsHandler struct {
	service NewsServiceInterface
}

// NewNewsHandler creates a new NewsHandler
func NewNewsHandler(service NewsServiceInterface) *NewsHandler {
	return &NewsHandler{service: service}
}

// CreateNewsRequest represents the request body for a news item
type CreateNewsRequest struct {
	Title       string   `json:"title" validate:"required,max=300"`
	Date        string   `json:"date" validate:"required,datetime=2006-01-02"`
	Category    string   `json:"category" validate:"max=100"`
	Description string   `json:"description" validate:"max=10000"`
	ImageURL    string   `json:"imageUrl" validate:"omitempty,url"`
	VideoURL    string   `json:"videoUrl" validate:"omitempty,url"`
	MediaURLs   []string `json:"mediaUrls" validate:"max=50,dive,url"`
}

// List handles GET /api/news
// @Summary List news, newest first
// @Produce json
// @Success 200 {array} models.News
// @Failure 500 {object} ErrorResponse
// @Router /api/news [get]
func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to fetch news")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, items)
}

// Create handles POST /api/admin/news
// @Summary Publish a news item
// @Accept json
// @Security BearerAuth
// @Param request body CreateNewsRequest true "News item"
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/admin/news [post]
func (h *NewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateNewsRequest

	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), auth.GetSessionFromContext(r), &models.News{
		Title:       req.Title,
		Date:        req.Date,
		Category:    strings.TrimSpace(req.Category),
		Description: req.Description,
		ImageURL:    req.ImageURL,
		VideoURL:    req.VideoURL,
		MediaURLs:   req.MediaURLs,
	})
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to add news")
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"id":      strconv.FormatInt(created.ID, 10),
	})
}

// Delete handles DELETE /api/admin/news/{id}
// @Summary Delete a news item
// @Security BearerAuth
// @Param id path int true "News ID"
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/admin/news/{id} [delete]
func (h *NewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		pkghttp.WriteBadRequest(w, "Invalid news id")
		return
	}

	if err := h.service.Delete(r.Context(), auth.GetSessionFromContext(r), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "News item not found")
			return
		}
		pkghttp.WriteInternalError(w, "Failed to delete news")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
