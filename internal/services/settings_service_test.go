package services

import (
	"context"
	"delivery-pricing-service/internal/domain"
	"errors"
	"testing"
	"time"
)

func TestNewSettingsServiceStoresDefaults(t *testing.T) {
	repo := &memSettingsRepo{}

	svc, err := NewSettingsService(context.Background(), repo)
	if err != nil {
		t.Fatalf("NewSettingsService: %v", err)
	}
	if svc.Current() != domain.DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", svc.Current())
	}
	if repo.saves != 1 {
		t.Fatalf("expected defaults to be persisted once, saves=%d", repo.saves)
	}
}

func TestNewSettingsServiceRejectsInvalidStored(t *testing.T) {
	bad := domain.DefaultSettings()
	bad.RatePerKmUnderThreshold = -1
	repo := &memSettingsRepo{s: &bad}

	_, err := NewSettingsService(context.Background(), repo)
	if !domain.IsConfiguration(err) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if repo.saves != 0 {
		t.Fatal("invalid settings must not be overwritten")
	}
}

func TestSettingsServiceUpdateBroadcasts(t *testing.T) {
	svc, err := NewSettingsService(context.Background(), &memSettingsRepo{})
	if err != nil {
		t.Fatalf("NewSettingsService: %v", err)
	}

	ch, cancel := svc.Subscribe()
	defer cancel()

	next := domain.DefaultSettings()
	next.BaseFee = 12000
	if _, err := svc.Update(context.Background(), next); err != nil {
		t.Fatalf("Update: %v", err)
	}

	select {
	case got := <-ch:
		if got.BaseFee != 12000 {
			t.Fatalf("broadcast BaseFee = %v, want 12000", got.BaseFee)
		}
	case <-time.After(time.Second):
		t.Fatal("no broadcast received")
	}

	if svc.Pricing().BaseFee != 12000 {
		t.Fatalf("Pricing not updated: %+v", svc.Pricing())
	}
}

func TestSettingsServiceSlowSubscriberGetsLatest(t *testing.T) {
	svc, err := NewSettingsService(context.Background(), &memSettingsRepo{})
	if err != nil {
		t.Fatalf("NewSettingsService: %v", err)
	}

	ch, cancel := svc.Subscribe()
	defer cancel()

	for _, fee := range []float64{11000, 12000, 13000} {
		s := domain.DefaultSettings()
		s.BaseFee = fee
		if _, err := svc.Update(context.Background(), s); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}

	got := <-ch
	if got.BaseFee != 13000 {
		t.Fatalf("expected latest value 13000, got %v", got.BaseFee)
	}
}

func TestSettingsServiceUpdateRejectsInvalid(t *testing.T) {
	repo := &memSettingsRepo{}
	svc, err := NewSettingsService(context.Background(), repo)
	if err != nil {
		t.Fatalf("NewSettingsService: %v", err)
	}

	bad := domain.DefaultSettings()
	bad.DistanceThresholdKm = 0
	if _, err := svc.Update(context.Background(), bad); !domain.IsConfiguration(err) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if svc.Current() != domain.DefaultSettings() {
		t.Fatal("rejected update must not change current settings")
	}
}

func TestSettingsServiceUpdateSaveFailure(t *testing.T) {
	repo := &memSettingsRepo{}
	svc, err := NewSettingsService(context.Background(), repo)
	if err != nil {
		t.Fatalf("NewSettingsService: %v", err)
	}
	repo.saveErr = errBoom

	next := domain.DefaultSettings()
	next.BaseFee = 99000
	if _, err := svc.Update(context.Background(), next); !errors.Is(err, errBoom) {
		t.Fatalf("expected save error, got %v", err)
	}
	if svc.Pricing().BaseFee != domain.DefaultSettings().BaseFee {
		t.Fatal("failed save must not change current settings")
	}
}

func TestSettingsServiceReset(t *testing.T) {
	custom := domain.DefaultSettings()
	custom.CompanyName = "Giao Nhanh"
	svc, err := NewSettingsService(context.Background(), &memSettingsRepo{s: &custom})
	if err != nil {
		t.Fatalf("NewSettingsService: %v", err)
	}

	got, err := svc.Reset(context.Background())
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if got != domain.DefaultSettings() || svc.Current() != domain.DefaultSettings() {
		t.Fatalf("Reset did not restore defaults: %+v", got)
	}
}

func TestSettingsServiceCancelClosesChannel(t *testing.T) {
	svc, err := NewSettingsService(context.Background(), &memSettingsRepo{})
	if err != nil {
		t.Fatalf("NewSettingsService: %v", err)
	}

	ch, cancel := svc.Subscribe()
	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel")
	}
	if _, err := svc.Update(context.Background(), domain.DefaultSettings()); err != nil {
		t.Fatalf("Update after cancel: %v", err)
	}
}
