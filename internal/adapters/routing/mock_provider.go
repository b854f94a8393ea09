package routing

import (
	"context"
	"eld-log-service/internal/domain"
	"fmt"
	"sync"
)

type MockLeg struct {
	From, To string
	Miles    float64
	Hours    float64
	Geometry string
}

// MockRoutingProvider resolves addresses and legs from fixed tables. Locations are
// given synthetic coordinates in table order, so legs are keyed by address.
type MockRoutingProvider struct {
	mu       sync.Mutex
	coords   map[string]domain.Coordinates
	byCoords map[domain.Coordinates]string
	legs     map[string]domain.LegMetrics
	calls    []string
}

func NewMockRoutingProvider(legs []MockLeg) *MockRoutingProvider {
	p := &MockRoutingProvider{
		coords:   make(map[string]domain.Coordinates),
		byCoords: make(map[domain.Coordinates]string),
		legs:     make(map[string]domain.LegMetrics, len(legs)),
	}
	for _, l := range legs {
		p.addLocation(l.From)
		p.addLocation(l.To)
		p.legs[l.From+"|"+l.To] = domain.LegMetrics{
			DistanceMiles: l.Miles,
			DurationHours: l.Hours,
			Geometry:      l.Geometry,
		}
	}
	return p
}

func (p *MockRoutingProvider) addLocation(addr string) {
	if _, ok := p.coords[addr]; ok {
		return
	}
	c := domain.Coordinates{Lon: float64(len(p.coords) + 1), Lat: float64(len(p.coords) + 1)}
	p.coords[addr] = c
	p.byCoords[c] = addr
}

// AddLocation makes addr geocodable without giving it any legs.
func (p *MockRoutingProvider) AddLocation(addr string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.addLocation(addr)
}

// Calls returns the operations performed, in order ("geocode:<addr>", "route:<from>|<to>").
func (p *MockRoutingProvider) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func (p *MockRoutingProvider) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "geocode:"+address)

	c, ok := p.coords[address]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("mock geocode %q: %w", address, domain.ErrGeocodingFailure)
	}
	return c, nil
}

func (p *MockRoutingProvider) RouteLeg(ctx context.Context, from, to domain.Coordinates) (domain.LegMetrics, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := p.byCoords[from] + "|" + p.byCoords[to]
	p.calls = append(p.calls, "route:"+key)

	leg, ok := p.legs[key]
	if !ok {
		return domain.LegMetrics{}, fmt.Errorf("mock route %q: %w", key, domain.ErrRoutingFailure)
	}
	return leg, nil
}
