package routing

import (
	"bytes"
	"context"
	"eld-log-service/internal/domain"
	"eld-log-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/twpayne/go-polyline"
)

type directionsRequest struct {
	Coordinates  [][]float64 `json:"coordinates"`
	Instructions bool        `json:"instructions"`
	Geometry     bool        `json:"geometry"`
}

type directionsResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"summary"`
		Geometry string `json:"geometry"`
	} `json:"routes"`
}

type routeSummary struct {
	distanceMeters  float64
	durationSeconds float64
	geometry        string
	points          int
}

// fetchDirections retrieves the first route between two coordinates from the
// OpenRouteService directions endpoint for the configured profile.
func (o *ORSProvider) fetchDirections(ctx context.Context, from, to domain.Coordinates) (_ routeSummary, err error) {
	defer obs.Time(ctx, "ors.directions")(&err)

	endpoint := fmt.Sprintf("%s/v2/directions/%s", o.baseURL, o.profile)

	payload, err := json.Marshal(directionsRequest{
		Coordinates:  [][]float64{from.CoordsToList(), to.CoordsToList()},
		Instructions: true,
		Geometry:     true,
	})
	if err != nil {
		return routeSummary{}, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return routeSummary{}, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return routeSummary{}, fmt.Errorf("decode directions response: %w", err)
	}

	if len(dr.Routes) == 0 {
		return routeSummary{}, errors.New("directions returned no routes")
	}
	route := dr.Routes[0]

	if route.Summary.Distance < 0 || route.Summary.Duration < 0 {
		return routeSummary{}, fmt.Errorf(
			"directions returned negative metrics: distance=%v duration=%v",
			route.Summary.Distance, route.Summary.Duration,
		)
	}

	// The geometry is passed through as-is; decoding only rejects corrupt payloads.
	points := 0
	if route.Geometry != "" {
		coords, _, err := polyline.DecodeCoords([]byte(route.Geometry))
		if err != nil {
			return routeSummary{}, fmt.Errorf("decode route geometry: %w", err)
		}
		points = len(coords)
	}

	return routeSummary{
		distanceMeters:  route.Summary.Distance,
		durationSeconds: route.Summary.Duration,
		geometry:        route.Geometry,
		points:          points,
	}, nil
}
