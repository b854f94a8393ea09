package services

import (
	"context"
	"eld-log-service/internal/adapters/routing"
	"eld-log-service/internal/domain"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTripRepo struct {
	saved   []domain.TripRequest
	logs    [][]domain.DailyLog
	saveErr error
}

func (r *fakeTripRepo) SaveTrip(ctx context.Context, trip domain.TripRequest, logs []domain.DailyLog) (int64, error) {
	if r.saveErr != nil {
		return 0, r.saveErr
	}
	r.saved = append(r.saved, trip)
	r.logs = append(r.logs, logs)
	return int64(len(r.saved)), nil
}

func (r *fakeTripRepo) GetTrip(ctx context.Context, id int64) (*domain.TripRecord, error) {
	return nil, domain.ErrTripNotFound
}

func chicagoTrip() domain.TripRequest {
	return domain.TripRequest{
		CurrentLocation:  "Chicago, IL",
		PickupLocation:   "Indianapolis, IN",
		DropoffLocation:  "Nashville, TN",
		CurrentCycleUsed: 12,
	}
}

func chicagoLegs() []routing.MockLeg {
	return []routing.MockLeg{
		{From: "Chicago, IL", To: "Indianapolis, IN", Miles: 100, Hours: 2, Geometry: "_p~iF~ps|U"},
		{From: "Indianapolis, IN", To: "Nashville, TN", Miles: 400, Hours: 3},
	}
}

func TestCalculateRouteOrderAndTotals(t *testing.T) {
	provider := routing.NewMockRoutingProvider(chicagoLegs())

	route, err := CalculateRoute(context.Background(), chicagoTrip(), provider)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"geocode:Chicago, IL",
		"geocode:Indianapolis, IN",
		"geocode:Nashville, TN",
		"route:Chicago, IL|Indianapolis, IN",
		"route:Indianapolis, IN|Nashville, TN",
	}, provider.Calls())

	require.Len(t, route.Legs, 2)
	assert.Equal(t, "Chicago, IL", route.PickupLeg().From)
	assert.Equal(t, "Indianapolis, IN", route.PickupLeg().To)
	assert.Equal(t, "_p~iF~ps|U", route.PickupLeg().Geometry)
	assert.Equal(t, "Nashville, TN", route.DropoffLeg().To)
	assert.Equal(t, 500.0, route.TotalDistance)
	assert.Equal(t, 5.0, route.TotalDuration)
}

func TestCalculateRouteGeocodeFailureStopsEarly(t *testing.T) {
	trip := chicagoTrip()
	trip.PickupLocation = "Nowhere"
	provider := routing.NewMockRoutingProvider(chicagoLegs())

	_, err := CalculateRoute(context.Background(), trip, provider)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGeocodingFailure)
	assert.Equal(t, []string{"geocode:Chicago, IL", "geocode:Nowhere"}, provider.Calls())
}

func TestCalculateRouteClassifiesUntypedErrors(t *testing.T) {
	err := asFailure(errors.New("connection reset"), domain.ErrRoutingFailure)
	assert.ErrorIs(t, err, domain.ErrRoutingFailure)

	wrapped := asFailure(domain.ErrGeocodingFailure, domain.ErrGeocodingFailure)
	assert.Same(t, domain.ErrGeocodingFailure, wrapped)
}

func TestPlanTripPersistsLogs(t *testing.T) {
	provider := routing.NewMockRoutingProvider(chicagoLegs())
	repo := &fakeTripRepo{}
	sim := NewSimulator(DefaultHOSRules())

	trip := chicagoTrip()
	trip.CurrentLocation = "  Chicago, IL  "

	planned, err := PlanTrip(context.Background(), PlanTripRequest{Trip: trip, Now: thursday}, provider, repo, sim)
	require.NoError(t, err)

	assert.Equal(t, int64(1), planned.TripID)
	require.Len(t, planned.Logs.LogSheets, 1)
	assert.Equal(t, "2026-01-01", planned.Logs.LogSheets[0].DateString())
	assert.Equal(t, 500.0, planned.Logs.RouteDetails.TotalDistance)

	require.Len(t, repo.saved, 1)
	assert.Equal(t, "Chicago, IL", repo.saved[0].CurrentLocation)
	assert.Equal(t, planned.Logs.LogSheets, repo.logs[0])
}

func TestPlanTripFailuresPersistNothing(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.TripRequest, *routing.MockRoutingProvider)
		wantErr error
		calls   int
	}{
		{
			name:    "invalid cycle",
			mutate:  func(tr *domain.TripRequest, _ *routing.MockRoutingProvider) { tr.CurrentCycleUsed = 70.5 },
			wantErr: domain.ErrInvalidTrip,
			calls:   0,
		},
		{
			name:    "blank location",
			mutate:  func(tr *domain.TripRequest, _ *routing.MockRoutingProvider) { tr.DropoffLocation = "   " },
			wantErr: domain.ErrInvalidTrip,
			calls:   0,
		},
		{
			name:    "unknown dropoff",
			mutate:  func(tr *domain.TripRequest, _ *routing.MockRoutingProvider) { tr.DropoffLocation = "Atlantis" },
			wantErr: domain.ErrGeocodingFailure,
			calls:   3,
		},
		{
			name: "no route to dropoff",
			mutate: func(tr *domain.TripRequest, p *routing.MockRoutingProvider) {
				tr.DropoffLocation = "Honolulu, HI"
				p.AddLocation("Honolulu, HI")
			},
			wantErr: domain.ErrRoutingFailure,
			calls:   5,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			provider := routing.NewMockRoutingProvider(chicagoLegs())
			repo := &fakeTripRepo{}
			trip := chicagoTrip()
			tc.mutate(&trip, provider)

			_, err := PlanTrip(context.Background(), PlanTripRequest{Trip: trip, Now: thursday}, provider, repo, NewSimulator(DefaultHOSRules()))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Len(t, provider.Calls(), tc.calls)
			assert.Empty(t, repo.saved)
		})
	}
}

func TestPlanTripSaveError(t *testing.T) {
	provider := routing.NewMockRoutingProvider(chicagoLegs())
	repo := &fakeTripRepo{saveErr: errors.New("disk full")}

	_, err := PlanTrip(context.Background(), PlanTripRequest{Trip: chicagoTrip(), Now: thursday}, provider, repo, NewSimulator(DefaultHOSRules()))
	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")
}
