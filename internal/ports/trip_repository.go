package ports

import (
	"context"
	"eld-log-service/internal/domain"
)

// Port: a boundary for storing trips and their daily logs.
type TripRepository interface {
	// Store the trip and one row per daily log atomically; return the new trip id.
	SaveTrip(ctx context.Context, trip domain.TripRequest, logs []domain.DailyLog) (int64, error)
	// Return a stored trip, or an error wrapping domain.ErrTripNotFound.
	GetTrip(ctx context.Context, id int64) (*domain.TripRecord, error)
}
