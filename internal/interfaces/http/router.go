// Package http assembles the API server: the chi route tree, its middleware
// chain and the net/http server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/druglike/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/druglike/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/druglike/internal/interfaces/http/handlers"
	"github.com/turtacn/druglike/internal/interfaces/http/middleware"
)

// RouterConfig aggregates all handler and middleware dependencies required
// to construct the complete HTTP route tree.
type RouterConfig struct {
	Ro5Handler       *handlers.Ro5Handler
	DepictionHandler *handlers.DepictionHandler
	HealthHandler    *handlers.HealthHandler

	Logger           logging.Logger
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
	// MetricsPath defaults to /metrics.
	MetricsPath string
	// MaxBodySize caps request bodies; zero leaves them unbounded.
	MaxBodySize int64
}

// NewRouter constructs the complete HTTP route tree from the given configuration.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogging(cfg.Logger, middleware.DefaultLoggingConfig()))
	r.Use(middleware.Metrics(cfg.Metrics))
	r.Use(chimw.Recoverer)
	r.Use(middleware.MaxBodySize(cfg.MaxBodySize))

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}

	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, cfg.MetricsCollector.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		registerRo5Routes(api, cfg.Ro5Handler)
		registerDepictionRoutes(api, cfg.DepictionHandler)
	})

	return r
}

// registerRo5Routes mounts the Rule of Five endpoints under /ro5.
func registerRo5Routes(r chi.Router, h *handlers.Ro5Handler) {
	if h == nil {
		return
	}
	r.Route("/ro5", func(rr chi.Router) {
		rr.Post("/evaluate", h.Evaluate)
		rr.Post("/batch", h.Batch)
	})
}

func registerDepictionRoutes(r chi.Router, h *handlers.DepictionHandler) {
	if h == nil {
		return
	}
	r.Post("/depictions", h.Depict)
}
