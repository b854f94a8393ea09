package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTripRequestValidate(t *testing.T) {
	valid := TripRequest{
		CurrentLocation:  "Dallas, TX",
		PickupLocation:   "Houston, TX",
		DropoffLocation:  "Austin, TX",
		CurrentCycleUsed: 0,
	}

	tests := []struct {
		name    string
		mutate  func(*TripRequest)
		wantErr bool
	}{
		{"valid", func(*TripRequest) {}, false},
		{"full cycle", func(tr *TripRequest) { tr.CurrentCycleUsed = 70 }, false},
		{"negative cycle", func(tr *TripRequest) { tr.CurrentCycleUsed = -0.5 }, true},
		{"cycle over limit", func(tr *TripRequest) { tr.CurrentCycleUsed = 70.01 }, true},
		{"empty pickup", func(tr *TripRequest) { tr.PickupLocation = "" }, true},
		{"blank current", func(tr *TripRequest) { tr.CurrentLocation = " \t " }, true},
		{"long dropoff", func(tr *TripRequest) { tr.DropoffLocation = strings.Repeat("x", 256) }, true},
		{"max length dropoff", func(tr *TripRequest) { tr.DropoffLocation = strings.Repeat("x", 255) }, false},
		{"multibyte within limit", func(tr *TripRequest) { tr.PickupLocation = strings.Repeat("東", 100) }, false},
		{"multibyte max length", func(tr *TripRequest) { tr.PickupLocation = strings.Repeat("東", 255) }, false},
		{"multibyte over limit", func(tr *TripRequest) { tr.PickupLocation = strings.Repeat("東", 256) }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := valid
			tc.mutate(&tr)

			err := tr.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTrip)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTripRequestNormalize(t *testing.T) {
	tr := TripRequest{CurrentLocation: "  Dallas ", PickupLocation: "\tHouston", DropoffLocation: "Austin\n"}.Normalize()

	assert.Equal(t, "Dallas", tr.CurrentLocation)
	assert.Equal(t, "Houston", tr.PickupLocation)
	assert.Equal(t, "Austin", tr.DropoffLocation)
}

func TestNewRouteDetails(t *testing.T) {
	r := NewRouteDetails(
		RouteLeg{From: "A", To: "B", Distance: 120.5, Duration: 2.25},
		RouteLeg{From: "B", To: "C", Distance: 80, Duration: 1.5},
	)

	assert.Len(t, r.Legs, 2)
	assert.Equal(t, "A", r.PickupLeg().From)
	assert.Equal(t, "C", r.DropoffLeg().To)
	assert.InDelta(t, 200.5, r.TotalDistance, 1e-9)
	assert.InDelta(t, 3.75, r.TotalDuration, 1e-9)
}

func TestCoordinatesKey(t *testing.T) {
	c := Coordinates{Lon: -96.8, Lat: 32.7767}

	assert.Equal(t, "-96.800000,32.776700", c.Key())
	assert.Equal(t, []float64{-96.8, 32.7767}, c.CoordsToList())
}
