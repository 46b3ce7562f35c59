// Package api exposes the appointment service over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/javiermolinar/turno/internal/appointment"
	"github.com/javiermolinar/turno/internal/metrics"
)

// Config holds router configuration.
type Config struct {
	Service        *appointment.Service
	Logger         *zap.Logger
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler
}

// NewRouter creates a chi router with all routes configured.
func NewRouter(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	h := NewHandler(cfg.Service, logger)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	if cfg.HTTPMetrics != nil {
		r.Use(instrument(cfg.HTTPMetrics))
	}

	r.Get("/health", h.Health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Get("/doctors", h.Doctors)
	r.Post("/bookAppointment", h.Book)
	r.Delete("/cancelAppointment", h.Cancel)
	r.Put("/updateAppointment", h.Update)

	r.Route("/appointments", func(r chi.Router) {
		r.Get("/doctor/{doctorName}", h.ListByDoctor)
		r.Get("/id/{id}", h.Get)
		r.Get("/{email}", h.ListByPatient)
	})

	return r
}
