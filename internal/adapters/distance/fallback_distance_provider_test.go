package distance

import (
	"context"
	"delivery-pricing-service/internal/domain"
	"errors"
	"testing"
)

func TestFallbackUsesPrimary(t *testing.T) {
	primary := NewMockDistanceProvider([]MockPair{{From: "a", To: "b", Meters: 1200, Seconds: 240}})
	f := NewFallbackDistanceProvider(primary, NewEstimateDistanceProvider())

	r, err := f.GetDistance(context.Background(), "a", "b")
	if err != nil {
		t.Fatalf("GetDistance: %v", err)
	}
	if r.DistanceMeters != 1200 || r.Estimated {
		t.Fatalf("unexpected result: %+v", r)
	}
}

func TestFallbackUsesSecondaryOnError(t *testing.T) {
	primary := NewMockDistanceProvider(nil)
	primary.Err = errors.New("upstream down")
	f := NewFallbackDistanceProvider(primary, NewEstimateDistanceProvider())

	r, err := f.GetDistance(context.Background(), "Đà Nẵng", "Cần Thơ")
	if err != nil {
		t.Fatalf("GetDistance: %v", err)
	}
	if !r.Estimated || r.DistanceMeters != 25000 {
		t.Fatalf("expected estimate, got %+v", r)
	}
}

func TestFallbackDoesNotMaskCancellation(t *testing.T) {
	f := NewFallbackDistanceProvider(NewMockDistanceProvider(nil), NewEstimateDistanceProvider())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.GetDistance(ctx, "a", "b"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFallbackGeocodeForwards(t *testing.T) {
	primary := NewMockDistanceProvider(nil)
	primary.Coords["Quận 1"] = primaryCoords
	f := NewFallbackDistanceProvider(primary, NewEstimateDistanceProvider())

	c, err := f.Geocode(context.Background(), "Quận 1")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if c != primaryCoords {
		t.Fatalf("Geocode = %+v, want %+v", c, primaryCoords)
	}

	f = NewFallbackDistanceProvider(NewEstimateDistanceProvider(), nil)
	if _, err := f.Geocode(context.Background(), "Quận 1"); err == nil {
		t.Fatal("expected error when primary cannot geocode")
	}
}

var primaryCoords = domain.Coordinates{Lon: 106.703, Lat: 10.774}
