package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Aman-CERP/motiva/internal/api/middleware"
	"github.com/Aman-CERP/motiva/internal/config"
)

// NewRouter builds the full HTTP router per SPEC_FULL.md §12: request-id
// and logging apply to every route; timeout and auth apply only to the
// routes that do real work, matching the Rust router's layer-grouping
// where observability/auth middlewares are added before the routes they
// should cover and skipped for the rest.
func NewRouter(svc *Service, cfg config.ServerConfig, logger *slog.Logger, version string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))

	r.Get("/healthz", handleHealthz())
	r.Get("/readyz", handleReadyz(svc))
	r.Get("/-/version", handleVersion(version))
	if cfg.EnableMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))
		r.Use(middleware.Auth(cfg.APIKey))

		r.Post("/match/{scope}", handleMatch(svc))
		r.Get("/entities/{id}", handleEntity(svc))
		r.Get("/catalog", handleCatalog(svc))
		r.Get("/algorithms", handleAlgorithms())
	})

	return r
}
