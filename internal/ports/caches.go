package ports

import (
	"context"
	"eld-log-service/internal/domain"
)

// Persistent address -> coordinates cache. Keys are normalized by the caller.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}

// Persistent cache of measured legs keyed by profile and endpoint coordinates.
type RouteLegCache interface {
	Get(ctx context.Context, profile string, from, to domain.Coordinates) (domain.LegMetrics, bool, error)
	Put(ctx context.Context, profile string, from, to domain.Coordinates, leg domain.LegMetrics) error
}
