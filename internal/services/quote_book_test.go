package services

import (
	"context"
	"delivery-pricing-service/internal/domain"
	"testing"
	"time"
)

func openTestQuote(t *testing.T, b *QuoteBook, km float64) Quote {
	t.Helper()
	q, err := b.Open(RouteQuote{PriceQuote: domain.PriceQuote{DistanceKm: km}, PickupAddress: "A", DestinationAddress: "B"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return q
}

func TestQuoteBookOpenGetClose(t *testing.T) {
	b := NewQuoteBook(&staticPricing{cfg: domain.DefaultSettings().Pricing()})

	q := openTestQuote(t, b, 2.5)
	if q.ID == "" || q.PriceAmount != 19750 {
		t.Fatalf("unexpected quote: %+v", q)
	}

	got, err := b.Get(q.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.PriceAmount != 19750 || got.PickupAddress != "A" {
		t.Fatalf("unexpected quote: %+v", got)
	}

	if err := b.Close(q.ID); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := b.Get(q.ID); !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError after Close, got %v", err)
	}
	if err := b.Close(q.ID); !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError closing twice, got %v", err)
	}
}

func TestQuoteBookGetNeverStale(t *testing.T) {
	src := &staticPricing{cfg: domain.DefaultSettings().Pricing()}
	b := NewQuoteBook(src)
	q := openTestQuote(t, b, 5)

	cfg := src.Pricing()
	cfg.RatePerKmOverThreshold = 5000
	src.set(cfg)

	got, err := b.Get(q.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.PriceAmount != 33000 {
		t.Fatalf("price = %v, want 33000 under the new config", got.PriceAmount)
	}
}

func TestQuoteBookReprice(t *testing.T) {
	src := &staticPricing{cfg: domain.DefaultSettings().Pricing()}
	b := NewQuoteBook(src)
	q1 := openTestQuote(t, b, 1)
	q2 := openTestQuote(t, b, 5)

	cfg := src.Pricing()
	cfg.UseFormula = false
	cfg.FlatFee = 30000

	n, err := b.Reprice(cfg)
	if err != nil {
		t.Fatalf("Reprice: %v", err)
	}
	if n != 2 {
		t.Fatalf("repriced %d quotes, want 2", n)
	}

	src.set(cfg)
	for _, id := range []string{q1.ID, q2.ID} {
		q, err := b.Get(id)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if q.PriceAmount != 30000 {
			t.Fatalf("quote %s price = %v, want 30000", id, q.PriceAmount)
		}
	}

	bad := cfg
	bad.DistanceThresholdKm = -1
	if _, err := b.Reprice(bad); !domain.IsConfiguration(err) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestQuoteBookWatch(t *testing.T) {
	svc, err := NewSettingsService(context.Background(), &memSettingsRepo{})
	if err != nil {
		t.Fatalf("NewSettingsService: %v", err)
	}

	b := NewQuoteBook(svc)
	q := openTestQuote(t, b, 2)

	updates, cancelSub := svc.Subscribe()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Watch(ctx, updates)
		close(done)
	}()

	next := svc.Current()
	next.BaseFee = 20000
	if _, err := svc.Update(context.Background(), next); err != nil {
		t.Fatalf("Update: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		b.mu.Lock()
		price := b.quotes[q.ID].PriceAmount
		b.mu.Unlock()
		if price == 28000 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("quote not repriced by watcher, price=%v", price)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	cancelSub()
	<-done
}

func TestQuoteBookExpiry(t *testing.T) {
	b := NewQuoteBook(&staticPricing{cfg: domain.DefaultSettings().Pricing()})
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	q := openTestQuote(t, b, 1)

	now = now.Add(DefaultQuoteMaxAge + time.Minute)
	if _, err := b.Get(q.ID); !domain.IsNotFound(err) {
		t.Fatalf("expected expired quote to be gone, got %v", err)
	}

	openTestQuote(t, b, 1)
	if b.Len() != 1 {
		t.Fatalf("expected expired quote pruned on Open, Len=%d", b.Len())
	}
}

// lockAwarePricing counts config reads made while the book lock is free.
type lockAwarePricing struct {
	cfg      domain.PricingConfig
	book     *QuoteBook
	unlocked int
}

func (p *lockAwarePricing) Pricing() domain.PricingConfig {
	if p.book != nil && p.book.mu.TryLock() {
		p.book.mu.Unlock()
		p.unlocked++
	}
	return p.cfg
}

func TestQuoteBookReadsConfigUnderLock(t *testing.T) {
	src := &lockAwarePricing{cfg: domain.DefaultSettings().Pricing()}
	b := NewQuoteBook(src)
	src.book = b

	q := openTestQuote(t, b, 2.5)
	if _, err := b.Get(q.ID); err != nil {
		t.Fatalf("Get: %v", err)
	}

	if src.unlocked != 0 {
		t.Fatalf("config read %d times outside the book lock; a concurrent Reprice could be undone", src.unlocked)
	}
}

func TestQuoteBookGetKeepsNewerReprice(t *testing.T) {
	src := &staticPricing{cfg: domain.DefaultSettings().Pricing()}
	b := NewQuoteBook(src)
	q := openTestQuote(t, b, 5)

	newer := src.Pricing()
	newer.BaseFee = 12000
	src.set(newer)
	if _, err := b.Reprice(newer); err != nil {
		t.Fatalf("Reprice: %v", err)
	}

	got, err := b.Get(q.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.PriceAmount != 30500 {
		t.Fatalf("price = %v, want 30500 under the newer config", got.PriceAmount)
	}
}
