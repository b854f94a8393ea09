package domain

import "errors"

var (
	// ErrGeocodingFailure means a location could not be resolved to coordinates.
	ErrGeocodingFailure = errors.New("failed to geocode location")
	// ErrRoutingFailure means a route leg could not be computed.
	ErrRoutingFailure = errors.New("failed to calculate route")

	ErrInvalidTrip  = errors.New("invalid trip")
	ErrTripNotFound = errors.New("trip not found")
)
