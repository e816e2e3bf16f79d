package www

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hwstatus/engine"
)

type Handlers struct {
	engine         *engine.Engine
	requestTimeout time.Duration
}

// NewRouter builds the HTTP surface.
func NewRouter(eng *engine.Engine) http.Handler {
	h := &Handlers{
		engine:         eng,
		requestTimeout: eng.AppConfig().Web.RequestTimeout,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/hardware", h.apiListAvailability)
	r.Get("/hardware/", h.apiListAvailability)
	r.Get("/hardware.xlsx", h.exportAvailabilityXLSX)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.apiHealthCheck)
		r.Get("/diagnostics", h.apiDiagnostics)
	})

	r.Handle("/metrics", promhttp.HandlerFor(eng.Registry(), promhttp.HandlerOpts{}))

	return r
}
