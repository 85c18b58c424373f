package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/xbeat/certicredia-sub000/internal/api/handlers"
	"github.com/xbeat/certicredia-sub000/internal/api/middleware"
	"github.com/xbeat/certicredia-sub000/internal/config"
	"github.com/xbeat/certicredia-sub000/internal/pkg/logger"
	"github.com/xbeat/certicredia-sub000/internal/pkg/metrics"
)

type Handlers struct {
	Health        *handlers.HealthHandler
	Profile       *handlers.ProfileHandler
	Accreditation *handlers.AccreditationHandler
	Organization  *handlers.OrganizationHandler
	Audit         *handlers.AuditHandler
}

func New(cfg *config.Config, log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	r.Use(middleware.RateLimit(100, 200)) // 100 req/sec, burst of 200
	r.Use(metrics.Middleware)

	// Public routes
	r.Group(func(r chi.Router) {
		// Swagger documentation
		r.Get("/swagger/*", httpSwagger.WrapHandler)

		// Health checks
		r.Get("/health", h.Health.Healthz)
		r.Get("/healthz", h.Health.Healthz)
		r.Get("/readyz", h.Health.Readyz)

		// Prometheus scrape endpoint
		r.Handle("/metrics", metrics.Handler())
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret))

		// Organization directory
		r.Route("/api/v1/organizations", func(r chi.Router) {
			r.Get("/", h.Organization.List)

			r.Route("/{orgId}", func(r chi.Router) {
				r.Get("/", h.Organization.Get)
				r.Put("/", h.Organization.Upsert)
				r.Get("/audit", h.Audit.ListByOrganization)
				r.Get("/cases", h.Accreditation.ListByOrganization)

				// Compliance profile (one active per organization)
				r.Route("/profile", func(r chi.Router) {
					r.Post("/", h.Profile.Create)
					r.Get("/", h.Profile.Get)
					r.Put("/", h.Profile.Update)
					r.Delete("/", h.Profile.SoftDelete)
					r.Post("/restore", h.Profile.Restore)
					r.Delete("/purge", h.Profile.Purge)
				})
			})
		})

		// Cross-organization profile views
		r.Route("/api/v1/profiles", func(r chi.Router) {
			r.Get("/", h.Profile.List)
			r.Get("/trash", h.Profile.ListTrashed)
			r.Get("/statistics", h.Profile.Statistics)
		})

		// Accreditation case lifecycle
		r.Route("/api/v1/cases", func(r chi.Router) {
			r.Post("/", h.Accreditation.Create)
			r.Get("/{id}", h.Accreditation.Get)
			r.Post("/{id}/transition", h.Accreditation.Transition)
			r.Post("/{id}/assignments", h.Accreditation.IssueAssignment)
		})

		// Specialist assignment redemption
		r.Post("/api/v1/assignments/accept", h.Accreditation.AcceptAssignment)
	})

	return r
}
