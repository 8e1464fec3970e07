// Package http assembles the chi route tree and server for the annotation
// API.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/timexnorm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/timexnorm/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/timexnorm/internal/interfaces/http/handlers"
	"github.com/turtacn/timexnorm/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.  Nil members are skipped.
type RouterConfig struct {
	TimexHandler  *handlers.TimexHandler
	HealthHandler *handlers.HealthHandler

	CORS    *middleware.CORSConfig
	Logging *middleware.LoggingConfig

	Logger           logging.Logger
	MetricsCollector prometheus.MetricsCollector
	ServiceMetrics   *prometheus.ServiceMetrics
}

// NewRouter constructs the route tree:
//
//	GET  /healthz, /readyz
//	GET  /metrics
//	POST /api/v1/normalise
//	POST /api/v1/annotate
//	GET  /api/v1/rules
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestMetrics(cfg.ServiceMetrics))
	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	if cfg.Logging != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, *cfg.Logging))
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		r.Handle("/metrics", cfg.MetricsCollector.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		registerTimexRoutes(api, cfg.TimexHandler)
	})

	return r
}

func registerTimexRoutes(r chi.Router, h *handlers.TimexHandler) {
	if h == nil {
		return
	}
	r.Post("/normalise", h.Normalise)
	r.Post("/annotate", h.Annotate)
	r.Get("/rules", h.Rules)
}

//Personal.AI order the ending
