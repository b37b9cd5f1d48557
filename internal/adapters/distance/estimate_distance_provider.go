package distance

import (
	"context"
	"delivery-pricing-service/internal/ports"
	"errors"
	"strings"
)

// Seconds of travel assumed per estimated kilometer.
const estimateSecondsPerKm = 180

type estimateRule struct {
	keywords []string
	km       int
}

// First rule whose keyword appears in both addresses wins.
var estimateRules = []estimateRule{
	{keywords: []string{"quận 1"}, km: 2},
	{keywords: []string{"tp."}, km: 8},
	{keywords: []string{"hà nội"}, km: 12},
	{keywords: []string{"hcm", "hồ chí minh"}, km: 15},
}

const estimateDefaultKm = 25

// EstimateDistanceProvider guesses a distance from address keywords when no
// routing engine is reachable. Results are flagged Estimated.
type EstimateDistanceProvider struct{}

func NewEstimateDistanceProvider() *EstimateDistanceProvider {
	return &EstimateDistanceProvider{}
}

func (EstimateDistanceProvider) GetDistance(
	_ context.Context,
	origin string,
	destination string,
) (ports.DistanceResult, error) {
	o := strings.ToLower(normalize(origin))
	d := strings.ToLower(normalize(destination))
	if o == "" || d == "" {
		return ports.DistanceResult{}, errors.New("estimate distance: origin and destination must be non-empty")
	}

	km := estimateDefaultKm
	for _, r := range estimateRules {
		if containsAny(o, r.keywords) && containsAny(d, r.keywords) {
			km = r.km
			break
		}
	}

	return ports.DistanceResult{
		DistanceMeters:  km * 1000,
		DurationSeconds: km * estimateSecondsPerKm,
		Estimated:       true,
	}, nil
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
