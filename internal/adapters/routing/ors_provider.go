package routing

import (
	"context"
	"eld-log-service/internal/domain"
	"eld-log-service/internal/platform/metrics"
	"eld-log-service/internal/ports"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	metersPerMile  = 1609.34
	secondsPerHour = 3600
)

type ORSConfig struct {
	APIKey  string
	BaseURL string
	Profile string
	// Timeout bounds each geocode or directions call, retries included.
	Timeout time.Duration
}

// ORSProvider implements RoutingProvider using OpenRouteService.
//
// It coordinates:
//   - Address normalization
//   - Persistent geocode and route-leg caching (both optional)
//   - De-duplication of concurrent geocodes of the same address
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use.
type ORSProvider struct {
	session      *http.Client
	apiKey       string
	baseURL      string
	profile      string
	timeout      time.Duration
	geocodeCache ports.GeocodeCache
	legCache     ports.RouteLegCache
	metrics      *metrics.Metrics
	inflight     singleflight.Group
}

func NewORSProvider(
	cfg ORSConfig,
	geocodeCache ports.GeocodeCache,
	legCache ports.RouteLegCache,
	m *metrics.Metrics,
) (*ORSProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openrouteservice.org"
	}
	profile := cfg.Profile
	if profile == "" {
		profile = "driving-hgv"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &ORSProvider{
		session:      &http.Client{Timeout: timeout},
		apiKey:       cfg.APIKey,
		baseURL:      baseURL,
		profile:      profile,
		timeout:      timeout,
		geocodeCache: geocodeCache,
		legCache:     legCache,
		metrics:      m,
	}, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func (o *ORSProvider) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Geocode resolves a free-text address to coordinates.
// Every failure, including an empty result, wraps domain.ErrGeocodingFailure.
func (o *ORSProvider) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	start := time.Now()
	defer func() { o.metrics.ObserveRouting("geocode", time.Since(start).Seconds(), err) }()

	norm := o.normalize(address)
	if norm == "" {
		return domain.Coordinates{}, fmt.Errorf("ors geocode: %w: address must be non-empty", domain.ErrGeocodingFailure)
	}

	// Check persistent geocode cache before issuing external API calls.
	if o.geocodeCache != nil {
		hits, err := o.geocodeCache.GetMany(ctx, []string{norm})
		if err != nil {
			slog.WarnContext(ctx, "geocode cache read failed", "address", norm, "err", err)
		} else if c, ok := hits[norm]; ok {
			return c, nil
		}
	}

	// The shared call outlives any one caller; each caller stops waiting on its own ctx.
	ch := o.inflight.DoChan(norm, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.timeout)
		defer cancel()
		return o.fetchGeocode(callCtx, norm)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return domain.Coordinates{}, fmt.Errorf("ors geocode %q: %w: %w", norm, domain.ErrGeocodingFailure, ctx.Err())
	}
	if res.Err != nil {
		return domain.Coordinates{}, fmt.Errorf("ors geocode %q: %w: %w", norm, domain.ErrGeocodingFailure, res.Err)
	}
	coords := res.Val.(domain.Coordinates)

	if o.geocodeCache != nil {
		if err := o.geocodeCache.PutMany(ctx, map[string]domain.Coordinates{norm: coords}); err != nil {
			slog.WarnContext(ctx, "geocode cache write failed", "address", norm, "err", err)
		}
	}

	return coords, nil
}

// RouteLeg measures the drivable route between two coordinates.
// Every failure, including an empty route, wraps domain.ErrRoutingFailure.
func (o *ORSProvider) RouteLeg(ctx context.Context, from, to domain.Coordinates) (_ domain.LegMetrics, err error) {
	start := time.Now()
	defer func() { o.metrics.ObserveRouting("route_leg", time.Since(start).Seconds(), err) }()

	if o.legCache != nil {
		leg, ok, err := o.legCache.Get(ctx, o.profile, from, to)
		if err != nil {
			slog.WarnContext(ctx, "route cache read failed", "from", from.Key(), "to", to.Key(), "err", err)
		} else if ok {
			return leg, nil
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	summary, err := o.fetchDirections(callCtx, from, to)
	if err != nil {
		return domain.LegMetrics{}, fmt.Errorf(
			"ors route %s -> %s: %w: %w",
			from.Key(), to.Key(), domain.ErrRoutingFailure, err,
		)
	}

	leg := domain.LegMetrics{
		DistanceMiles: round2(summary.distanceMeters / metersPerMile),
		DurationHours: round2(summary.durationSeconds / secondsPerHour),
		Geometry:      summary.geometry,
	}

	slog.DebugContext(ctx, "route leg measured",
		"from", from.Key(), "to", to.Key(),
		"miles", leg.DistanceMiles, "hours", leg.DurationHours, "points", summary.points)

	if o.legCache != nil {
		if err := o.legCache.Put(ctx, o.profile, from, to, leg); err != nil {
			slog.WarnContext(ctx, "route cache write failed", "err", err)
		}
	}

	return leg, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
