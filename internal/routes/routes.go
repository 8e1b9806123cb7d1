package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shabeb-irshed/portal/internal/auth"
	"github.com/shabeb-irshed/portal/internal/handlers"
	"github.com/shabeb-irshed/portal/internal/middleware"
)

// Handlers bundles every HTTP handler mounted by RegisterRoutes
type Handlers struct {
	Auth       *handlers.AuthHandler
	Submission *handlers.SubmissionHandler
	Chat       *handlers.ChatHandler
	News       *handlers.NewsHandler
	Media      *handlers.MediaHandler
	Workshop   *handlers.WorkshopHandler
	Admin      *handlers.AdminHandler
	Health     *handlers.HealthHandler
}

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	h Handlers,
	sessions auth.SessionValidator,
	floodGuard middleware.FloodGuardConfig,
	gatherer prometheus.Gatherer,
) {
	router.Get("/health", h.Health.Health)
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	router.Route("/api", func(r chi.Router) {
		// Public routes - the persistent guards run inside the services,
		// the flood guard only caps raw request volume per address
		r.With(middleware.RateLimitByIP(floodGuard)).Post("/login", h.Auth.Login)
		r.With(middleware.RateLimitByIP(floodGuard)).Post("/submit", h.Submission.Submit)
		r.With(middleware.RateLimitByIP(floodGuard)).Post("/chat", h.Chat.Chat)

		r.Get("/news", h.News.List)
		r.Get("/workshops/{id}", h.Workshop.GetWorkshop)
		r.Post("/evaluations", h.Workshop.SubmitEvaluation)

		// Admin routes - bearer session required
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireSession(sessions))

			r.Get("/session", h.Auth.Session)
			r.Get("/registrations", h.Admin.ListRegistrations)
			r.Get("/settings/evaluation-emails", h.Admin.GetEvaluationEmails)
			r.Put("/settings/evaluation-emails", h.Admin.SetEvaluationEmails)
			r.Post("/news", h.News.Create)
			r.Delete("/news/{id}", h.News.Delete)
			r.Post("/media", h.Media.Upload)
		})
	})
}
