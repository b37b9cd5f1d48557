package services

import (
	"context"
	"delivery-pricing-service/internal/domain"
	"delivery-pricing-service/internal/ports"
	"errors"
	"fmt"
	"strings"
)

// PricingSource supplies the pricing config in force right now.
type PricingSource interface {
	Pricing() domain.PricingConfig
}

// RouteQuote is a price for a pickup/destination pair together with the
// routing data it was derived from.
type RouteQuote struct {
	domain.PriceQuote
	PickupAddress      string
	DestinationAddress string
	DurationSeconds    int
	Estimated          bool
}

// QuoteService prices distances with whatever config the source holds at call time.
type QuoteService struct {
	pricing  PricingSource
	provider ports.DistanceProvider
}

// provider may be nil, in which case only QuoteDistance works.
func NewQuoteService(pricing PricingSource, provider ports.DistanceProvider) *QuoteService {
	return &QuoteService{pricing: pricing, provider: provider}
}

func (q *QuoteService) Pricing() domain.PricingConfig {
	return q.pricing.Pricing()
}

func (q *QuoteService) QuoteDistance(distanceKm float64) (domain.PriceQuote, error) {
	return domain.NewPriceQuote(distanceKm, q.pricing.Pricing())
}

// QuoteRoute resolves the travel distance between two addresses and prices it.
func (q *QuoteService) QuoteRoute(ctx context.Context, pickup, destination string) (RouteQuote, error) {
	pickup = strings.TrimSpace(pickup)
	destination = strings.TrimSpace(destination)
	if pickup == "" {
		return RouteQuote{}, domain.ValidationError{Field: "pickup_address", Msg: "is required"}
	}
	if destination == "" {
		return RouteQuote{}, domain.ValidationError{Field: "destination_address", Msg: "is required"}
	}
	if q.provider == nil {
		return RouteQuote{}, errors.New("quote route: no distance provider configured")
	}

	r, err := q.provider.GetDistance(ctx, pickup, destination)
	if err != nil {
		return RouteQuote{}, fmt.Errorf("quote route: %w", err)
	}

	pq, err := q.QuoteDistance(domain.MetersToKm(r.DistanceMeters))
	if err != nil {
		return RouteQuote{}, fmt.Errorf("quote route: %w", err)
	}

	return RouteQuote{
		PriceQuote:         pq,
		PickupAddress:      pickup,
		DestinationAddress: destination,
		DurationSeconds:    r.DurationSeconds,
		Estimated:          r.Estimated,
	}, nil
}
