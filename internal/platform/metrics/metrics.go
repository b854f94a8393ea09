// Package metrics provides Prometheus metrics for the log service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	Registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Trip planning metrics
	TripsPlannedTotal *prometheus.CounterVec
	LogSheetsPerTrip  prometheus.Histogram

	// Routing provider metrics
	RoutingRequestDuration *prometheus.HistogramVec
}

// New creates and registers all application metrics with a new registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eld_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "eld_http_request_duration_seconds",
				Help:    "HTTP request latency distribution",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		TripsPlannedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eld_trips_planned_total",
				Help: "Trip planning attempts by outcome",
			},
			[]string{"outcome"},
		),
		LogSheetsPerTrip: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "eld_log_sheets_per_trip",
			Help:    "Number of daily log sheets produced per planned trip",
			Buckets: []float64{1, 2, 3, 4, 5, 7, 10, 14, 21, 31},
		}),
		RoutingRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "eld_routing_request_duration_seconds",
				Help:    "Latency of routing provider calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op", "outcome"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.TripsPlannedTotal,
		m.LogSheetsPerTrip,
		m.RoutingRequestDuration,
		collectors.NewGoCollector(),
	)

	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// ObserveTrip records the outcome of one plan-trip call. Safe on a nil receiver.
func (m *Metrics) ObserveTrip(outcome string, sheets int) {
	if m == nil {
		return
	}
	m.TripsPlannedTotal.WithLabelValues(outcome).Inc()
	if sheets > 0 {
		m.LogSheetsPerTrip.Observe(float64(sheets))
	}
}

// ObserveRouting records the latency of a routing provider call. Safe on a nil receiver.
func (m *Metrics) ObserveRouting(op string, seconds float64, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.RoutingRequestDuration.WithLabelValues(op, outcome).Observe(seconds)
}
