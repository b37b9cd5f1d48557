package distance

import (
	"context"
	"delivery-pricing-service/internal/domain"
	"delivery-pricing-service/internal/platform/obs"
	"delivery-pricing-service/internal/ports"
	"errors"
	"fmt"
	"log"
)

// FallbackDistanceProvider asks Primary first and Secondary when Primary fails.
// Context cancellation is never masked by the fallback.
type FallbackDistanceProvider struct {
	Primary   ports.DistanceProvider
	Secondary ports.DistanceProvider
}

func NewFallbackDistanceProvider(primary, secondary ports.DistanceProvider) *FallbackDistanceProvider {
	return &FallbackDistanceProvider{Primary: primary, Secondary: secondary}
}

func (f *FallbackDistanceProvider) GetDistance(
	ctx context.Context,
	origin string,
	destination string,
) (ports.DistanceResult, error) {
	if f.Primary == nil {
		return f.Secondary.GetDistance(ctx, origin, destination)
	}

	r, err := f.Primary.GetDistance(ctx, origin, destination)
	if err == nil {
		return r, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || f.Secondary == nil {
		return ports.DistanceResult{}, err
	}

	log.Printf("req_id=%s distance fallback origin=%q destination=%q err=%v",
		obs.RequestID(ctx), origin, destination, err)

	r, ferr := f.Secondary.GetDistance(ctx, origin, destination)
	if ferr != nil {
		return ports.DistanceResult{}, fmt.Errorf("fallback distance: primary: %v: secondary: %w", err, ferr)
	}
	return r, nil
}

// Geocode forwards to Primary when it can geocode.
func (f *FallbackDistanceProvider) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	g, ok := f.Primary.(ports.Geocoder)
	if !ok {
		return domain.Coordinates{}, errors.New("geocode: primary provider cannot geocode")
	}
	return g.Geocode(ctx, address)
}
