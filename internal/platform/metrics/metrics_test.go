package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m := New()

	assert.NotNil(t, m.Registry)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
	assert.NotNil(t, m.TripsPlannedTotal)
	assert.NotNil(t, m.LogSheetsPerTrip)
	assert.NotNil(t, m.RoutingRequestDuration)
}

func TestObserveTrip(t *testing.T) {
	m := New()

	m.ObserveTrip("success", 2)
	m.ObserveTrip("success", 1)
	m.ObserveTrip("geocoding_failure", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TripsPlannedTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TripsPlannedTotal.WithLabelValues("geocoding_failure")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.LogSheetsPerTrip))
}

func TestObserveRoutingOutcome(t *testing.T) {
	m := New()

	m.ObserveRouting("geocode", 0.1, nil)
	m.ObserveRouting("route_leg", 0.2, errors.New("timeout"))

	assert.Equal(t, 2, testutil.CollectAndCount(m.RoutingRequestDuration))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveTrip("success", 1)
		m.ObserveRouting("geocode", 0.1, nil)
	})
}

func TestHandlerServesRegistry(t *testing.T) {
	m := New()
	m.ObserveTrip("success", 1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "eld_trips_planned_total")
}
