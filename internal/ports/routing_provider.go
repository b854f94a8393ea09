package ports

import (
	"context"
	"eld-log-service/internal/domain"
)

// Resolves a free-text location to coordinates.
type Geocoder interface {
	// Return coordinates for address, or an error wrapping domain.ErrGeocodingFailure.
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}

// Measures a drivable route between two coordinates.
type RouteLegProvider interface {
	// Return distance, duration and geometry, or an error wrapping domain.ErrRoutingFailure.
	RouteLeg(ctx context.Context, from, to domain.Coordinates) (domain.LegMetrics, error)
}

// Contract for the external routing collaborator used to build RouteDetails.
type RoutingProvider interface {
	Geocoder
	RouteLegProvider
}
