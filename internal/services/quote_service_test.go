package services

import (
	"context"
	"delivery-pricing-service/internal/adapters/distance"
	"delivery-pricing-service/internal/domain"
	"testing"
)

func TestQuoteDistanceUsesLatestPricing(t *testing.T) {
	src := &staticPricing{cfg: domain.DefaultSettings().Pricing()}
	q := NewQuoteService(src, nil)

	got, err := q.QuoteDistance(2.5)
	if err != nil {
		t.Fatalf("QuoteDistance: %v", err)
	}
	if got.PriceAmount != 19750 {
		t.Fatalf("price = %v, want 19750", got.PriceAmount)
	}

	cfg := src.Pricing()
	cfg.UseFormula = false
	src.set(cfg)

	got, err = q.QuoteDistance(2.5)
	if err != nil {
		t.Fatalf("QuoteDistance: %v", err)
	}
	if got.PriceAmount != 25000 {
		t.Fatalf("price after update = %v, want flat 25000", got.PriceAmount)
	}
}

func TestQuoteRoute(t *testing.T) {
	provider := distance.NewMockDistanceProvider([]distance.MockPair{
		{From: "Quận 1", To: "Quận 3", Meters: 5000, Seconds: 900},
	})
	q := NewQuoteService(&staticPricing{cfg: domain.DefaultSettings().Pricing()}, provider)

	rq, err := q.QuoteRoute(context.Background(), " Quận 1 ", "Quận 3")
	if err != nil {
		t.Fatalf("QuoteRoute: %v", err)
	}
	if rq.DistanceKm != 5 || rq.PriceAmount != 28500 || rq.DurationSeconds != 900 {
		t.Fatalf("unexpected quote: %+v", rq)
	}
}

func TestQuoteRouteValidation(t *testing.T) {
	q := NewQuoteService(&staticPricing{cfg: domain.DefaultSettings().Pricing()}, nil)

	if _, err := q.QuoteRoute(context.Background(), "", "Quận 3"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := q.QuoteRoute(context.Background(), "Quận 1", "Quận 3"); err == nil {
		t.Fatal("expected error without provider")
	}
}

func TestQuoteDistanceInvalid(t *testing.T) {
	q := NewQuoteService(&staticPricing{cfg: domain.DefaultSettings().Pricing()}, nil)

	if _, err := q.QuoteDistance(-1); !domain.IsInvalidInput(err) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}

	bad := &staticPricing{cfg: domain.PricingConfig{DistanceThresholdKm: 0, UseFormula: true}}
	if _, err := NewQuoteService(bad, nil).QuoteDistance(1); !domain.IsConfiguration(err) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}
