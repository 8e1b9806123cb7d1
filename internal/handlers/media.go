package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/shabeb-irshed/portal/internal/models"
	pkghttp "github.com/shabeb-irshed/portal/pkg/http"
)

// MediaServiceInterface defines the interface for admin media uploads
type MediaServiceInterface interface {
	Upload(ctx context.Context, file io.ReadSeeker, size int64) (string, error)
}

// MediaHandler handles POST /api/admin/media
type MediaHandler struct {
	service  MediaServiceInterface
	maxBytes int64
}

// NewMediaHandler creates a new MediaHandler. maxBytes caps the uploaded file.
func NewMediaHandler(service MediaServiceInterface, maxBytes int64) *MediaHandler {
	return &MediaHandler{service: service, maxBytes: maxBytes}
}

// Upload accepts a multipart form with a single "file" field
// @Summary Upload an image or video for a news item
// @Accept multipart/form-data
// @Security BearerAuth
// @Param file formData file true "Image or video"
// @Produce json
// @Success 201 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/admin/media [post]
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Room for the multipart envelope around the file
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+1<<20)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			pkghttp.WriteError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "File is too large")
			return
		}
		pkghttp.WriteBadRequest(w, "Invalid multipart form")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		pkghttp.WriteBadRequest(w, "Missing file field")
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		pkghttp.WriteError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "File is too large")
		return
	}

	url, err := h.service.Upload(r.Context(), file, header.Size)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Only image and video files are accepted")
		case errors.Is(err, models.ErrUpstream):
			pkghttp.WriteError(w, http.StatusBadGateway, "upstream_error", "Media storage is unavailable")
		default:
			pkghttp.WriteInternalError(w, "Failed to upload media")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, map[string]string{"url": url})
}
