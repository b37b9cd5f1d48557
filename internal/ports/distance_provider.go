package ports

import (
	"context"
	"delivery-pricing-service/internal/domain"
)

// Distance and travel duration between two locations.
// Estimated is set when the value comes from a heuristic rather than a routing engine.
type DistanceResult struct {
	DistanceMeters  int  `json:"distance_meters"`
	DurationSeconds int  `json:"duration_seconds"`
	Estimated       bool `json:"estimated"`
}

// Contract for retrieving travel distance and duration between locations.
type DistanceProvider interface {
	// Return travel distance and estimated duration between two addresses.
	GetDistance(ctx context.Context, origin string, destination string) (DistanceResult, error)
}

// Optional capability of a DistanceProvider that can resolve addresses to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}
