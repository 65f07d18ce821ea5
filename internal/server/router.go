// Package server wires the system of record's HTTP surface together.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/HelyeFab/moshimoshi-sub017/internal/server/handlers"
	"github.com/HelyeFab/moshimoshi-sub017/internal/server/middleware"
)

// Default rate limit: generous, the sync engine batches anyway
const (
	defaultRateLimit  = 600
	defaultRateWindow = time.Minute
)

// NewRouter builds the server's router: middleware chain, mutation apply
// endpoint and liveness probe.
func NewRouter(logger *slog.Logger, storage handlers.ItemStorage, version string) http.Handler {
	applyHandler := handlers.NewApplyHandler(logger, storage)
	healthHandler := handlers.NewHealthHandler(logger, version)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.LoggingWithSkip(logger, []string{"/health"}))
	r.Use(middleware.RateLimit(defaultRateLimit, defaultRateWindow, logger))

	r.Get("/health", healthHandler.Health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/mutations", applyHandler.HandleApply)
	})

	return r
}
