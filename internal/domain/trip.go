package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxLocationLength = 255
	MaxCycleUsedHours = 70
)

// TripRequest is the input of one log-generation run.
type TripRequest struct {
	CurrentLocation  string
	PickupLocation   string
	DropoffLocation  string
	CurrentCycleUsed float64
}

// Normalize trims surrounding whitespace from the three locations.
func (t TripRequest) Normalize() TripRequest {
	t.CurrentLocation = strings.TrimSpace(t.CurrentLocation)
	t.PickupLocation = strings.TrimSpace(t.PickupLocation)
	t.DropoffLocation = strings.TrimSpace(t.DropoffLocation)
	return t
}

// Validate rejects empty or oversized locations and cycle hours outside [0, 70].
// Errors wrap ErrInvalidTrip.
func (t TripRequest) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"current_location", t.CurrentLocation},
		{"pickup_location", t.PickupLocation},
		{"dropoff_location", t.DropoffLocation},
	}
	for _, f := range fields {
		v := strings.TrimSpace(f.value)
		if v == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidTrip, f.name)
		}
		if utf8.RuneCountInString(v) > MaxLocationLength {
			return fmt.Errorf("%w: %s must be at most %d characters", ErrInvalidTrip, f.name, MaxLocationLength)
		}
	}

	if t.CurrentCycleUsed < 0 || t.CurrentCycleUsed > MaxCycleUsedHours {
		return fmt.Errorf("%w: current_cycle_used must be between 0 and %d", ErrInvalidTrip, MaxCycleUsedHours)
	}

	return nil
}

// StoredLogSheet is a persisted daily log; LogData is kept exactly as it was produced.
type StoredLogSheet struct {
	Date    string
	LogData json.RawMessage
}

// TripRecord is a persisted trip with its log sheets ordered by date.
type TripRecord struct {
	ID        int64
	Request   TripRequest
	CreatedAt time.Time
	LogSheets []StoredLogSheet
}
