package distance

import (
	"context"
	"delivery-pricing-service/internal/domain"
	"delivery-pricing-service/internal/ports"
	"fmt"
	"sync"
)

type MockPair struct {
	From, To string
	Meters   int
	Seconds  int
}

// MockDistanceProvider serves fixed pairs keyed "from|to" and counts calls.
// It also geocodes any address listed in Coords.
type MockDistanceProvider struct {
	m      map[string]ports.DistanceResult
	Coords map[string]domain.Coordinates
	Err    error

	mu    sync.Mutex
	calls int
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[string]ports.DistanceResult, len(pairs))
	for _, p := range pairs {
		m[p.From+"|"+p.To] = ports.DistanceResult{DistanceMeters: p.Meters, DurationSeconds: p.Seconds}
	}
	return &MockDistanceProvider{m: m, Coords: map[string]domain.Coordinates{}}
}

func (p *MockDistanceProvider) GetDistance(ctx context.Context, origin, destination string) (ports.DistanceResult, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return ports.DistanceResult{}, err
	}
	if p.Err != nil {
		return ports.DistanceResult{}, p.Err
	}

	r, ok := p.m[origin+"|"+destination]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("missing pair %q -> %q", origin, destination)
	}

	return r, nil
}

func (p *MockDistanceProvider) Geocode(_ context.Context, address string) (domain.Coordinates, error) {
	c, ok := p.Coords[address]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("no coordinates for %q", address)
	}
	return c, nil
}

func (p *MockDistanceProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
