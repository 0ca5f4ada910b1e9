package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/calvin/audit-service/internal/api/handlers"
	"github.com/calvin/audit-service/internal/auth"
	"github.com/calvin/audit-service/internal/config"
	"github.com/calvin/audit-service/internal/metrics"
	"github.com/calvin/audit-service/internal/middleware"
	"github.com/calvin/audit-service/internal/services"
)

func NewRouter(cfg config.Config, authn auth.Authenticator, svc *services.AuditService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics, middleware.RateLimit(cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	h := handlers.NewAuditLogsHandler(svc, authn)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/logs/{userId}", h.List)
		r.Post("/logs", h.Create)
	})

	return r
}
