package api

import (
	"eld-log-service/internal/api/handlers"
	"eld-log-service/internal/platform/clock"
	"eld-log-service/internal/platform/metrics"
	"eld-log-service/internal/ports"
	"eld-log-service/internal/services"
	"net/http"
)

// Deps are the collaborators the HTTP layer needs. Metrics and Limiter are optional.
type Deps struct {
	Provider  ports.RoutingProvider
	Repo      ports.TripRepository
	Simulator *services.Simulator
	Clock     clock.Clock
	Metrics   *metrics.Metrics
	Limiter   *RateLimiter
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	tripHandler := &handlers.TripHandler{
		Provider:  d.Provider,
		Repo:      d.Repo,
		Simulator: d.Simulator,
		Clock:     d.Clock,
		Metrics:   d.Metrics,
	}

	// Only planning reaches the routing provider, so only planning is limited.
	var plan http.Handler = http.HandlerFunc(tripHandler.Plan)
	if d.Limiter != nil {
		plan = d.Limiter.Handler(plan)
	}

	mux.Handle("POST /plan-trip", plan)
	mux.HandleFunc("GET /trips/{id}", tripHandler.Get)
	mux.HandleFunc("GET /health", handlers.Health)
	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics.Handler())
	}

	return requestIDMiddleware(loggingMiddleware(metricsMiddleware(d.Metrics, mux)))
}
