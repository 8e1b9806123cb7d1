package handlers

import (
	"context"
	"net/http"
	"time"

	pkghttp "github.com/shabeb-irshed/portal/pkg/http"
)

// HealthChecker reports whether the relational store is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler handles GET /health
type HealthHandler struct {
	db HealthChecker
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db HealthChecker) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health handles GET /health
// @Summary Liveness and database reachability
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} ErrorResponse
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.HealthCheck(ctx); err != nil {
		pkghttp.WriteServiceUnavailable(w, "Database unavailable")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
