package services

import (
	"context"
	"eld-log-service/internal/domain"
	"eld-log-service/internal/platform/obs"
	"eld-log-service/internal/ports"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

type PlanTripRequest struct {
	Trip domain.TripRequest
	// Now decides the calendar day the simulation starts on.
	Now time.Time
}

type PlannedTrip struct {
	TripID int64
	Logs   *TripLogs
}

// CalculateRoute geocodes the three trip locations, then measures the pickup and
// dropoff legs, in that order. The first failure stops the calculation.
func CalculateRoute(
	ctx context.Context,
	trip domain.TripRequest,
	provider ports.RoutingProvider,
) (_ domain.RouteDetails, err error) {
	defer obs.Time(ctx, "trip.CalculateRoute")(&err)

	locations := []string{trip.CurrentLocation, trip.PickupLocation, trip.DropoffLocation}
	coords := make([]domain.Coordinates, 0, len(locations))
	for _, loc := range locations {
		c, err := provider.Geocode(ctx, loc)
		if err != nil {
			return domain.RouteDetails{}, fmt.Errorf("calculate route: geocode %q: %w", loc, asFailure(err, domain.ErrGeocodingFailure))
		}
		coords = append(coords, c)
	}

	legs := make([]domain.RouteLeg, 0, 2)
	for i := 0; i < 2; i++ {
		m, err := provider.RouteLeg(ctx, coords[i], coords[i+1])
		if err != nil {
			return domain.RouteDetails{}, fmt.Errorf(
				"calculate route: %q -> %q: %w",
				locations[i], locations[i+1], asFailure(err, domain.ErrRoutingFailure),
			)
		}
		legs = append(legs, domain.RouteLeg{
			From:     locations[i],
			To:       locations[i+1],
			Distance: m.DistanceMiles,
			Duration: m.DurationHours,
			Geometry: m.Geometry,
		})
	}

	return domain.NewRouteDetails(legs[0], legs[1]), nil
}

// asFailure makes sure a collaborator error is classified as kind.
func asFailure(err, kind error) error {
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// PlanTrip validates the trip, computes its route, simulates the daily logs and
// persists the trip with its logs. Nothing is stored unless every step succeeds.
func PlanTrip(
	ctx context.Context,
	req PlanTripRequest,
	provider ports.RoutingProvider,
	repo ports.TripRepository,
	sim *Simulator,
) (*PlannedTrip, error) {
	trip := req.Trip.Normalize()
	if err := trip.Validate(); err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	route, err := CalculateRoute(ctx, trip, provider)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	logs, err := sim.Generate(route, trip.CurrentCycleUsed, req.Now)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	slog.InfoContext(ctx, "log sheets generated",
		"req_id", obs.RequestID(ctx),
		"total_miles", route.TotalDistance,
		"total_hours", route.TotalDuration,
		"fuel_stops", sim.FuelStops(route.TotalDistance),
		"sheets", len(logs.LogSheets),
	)

	id, err := repo.SaveTrip(ctx, trip, logs.LogSheets)
	if err != nil {
		return nil, fmt.Errorf("plan trip: save trip: %w", err)
	}

	return &PlannedTrip{TripID: id, Logs: logs}, nil
}
