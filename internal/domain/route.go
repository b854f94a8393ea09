package domain

// RouteLeg is one point-to-point segment of a trip as measured by the routing provider.
// Geometry is the provider's encoded polyline and is passed through untouched.
type RouteLeg struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
	Geometry string  `json:"geometry"`
}

// LegMetrics is what a routing provider measures between two coordinates.
type LegMetrics struct {
	DistanceMiles float64
	DurationHours float64
	Geometry      string
}

// RouteDetails is the two-leg route of a trip: current -> pickup, pickup -> dropoff.
type RouteDetails struct {
	Legs          []RouteLeg `json:"legs"`
	TotalDistance float64    `json:"total_distance"`
	TotalDuration float64    `json:"total_duration"`
}

// NewRouteDetails keeps the legs in order and sums their distance and duration.
func NewRouteDetails(pickup, dropoff RouteLeg) RouteDetails {
	return RouteDetails{
		Legs:          []RouteLeg{pickup, dropoff},
		TotalDistance: pickup.Distance + dropoff.Distance,
		TotalDuration: pickup.Duration + dropoff.Duration,
	}
}

// PickupLeg is the leg from the current location to the pickup.
func (r RouteDetails) PickupLeg() RouteLeg { return r.Legs[0] }

// DropoffLeg is the leg from the pickup to the dropoff.
func (r RouteDetails) DropoffLeg() RouteLeg { return r.Legs[1] }
