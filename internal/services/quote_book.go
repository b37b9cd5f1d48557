package services

import (
	"context"
	"delivery-pricing-service/internal/domain"
	"delivery-pricing-service/internal/platform/obs"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultQuoteMaxAge = 30 * time.Minute

// Quote is an open price shown to a dispatcher.
type Quote struct {
	ID                 string
	PickupAddress      string
	DestinationAddress string
	DurationSeconds    int
	Estimated          bool
	domain.PriceQuote
	CreatedAt time.Time
	PricedAt  time.Time

	pricing domain.PricingConfig
}

// QuoteBook holds open quotes. A quote is never returned priced under a config
// other than the one the source holds at read time: Watch reprices eagerly on
// settings updates and Get reprices lazily if it sees a newer config first.
type QuoteBook struct {
	MaxAge time.Duration

	source PricingSource

	mu     sync.Mutex
	quotes map[string]*Quote
	now    func() time.Time
}

func NewQuoteBook(source PricingSource) *QuoteBook {
	return &QuoteBook{
		MaxAge: DefaultQuoteMaxAge,
		source: source,
		quotes: make(map[string]*Quote),
		now:    time.Now,
	}
}

// Open prices rq under the current config and stores it.
func (b *QuoteBook) Open(rq RouteQuote) (Quote, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cfg := b.source.Pricing()
	price, err := domain.ComputePrice(rq.DistanceKm, cfg)
	if err != nil {
		return Quote{}, err
	}

	b.pruneLocked()

	now := b.now()
	q := &Quote{
		ID:                 uuid.NewString(),
		PickupAddress:      rq.PickupAddress,
		DestinationAddress: rq.DestinationAddress,
		DurationSeconds:    rq.DurationSeconds,
		Estimated:          rq.Estimated,
		PriceQuote:         domain.PriceQuote{DistanceKm: rq.DistanceKm, PriceAmount: price},
		CreatedAt:          now,
		PricedAt:           now,
		pricing:            cfg,
	}
	b.quotes[q.ID] = q
	return *q, nil
}

// Get returns quote id priced under the source's current config. The config is
// read under the book lock so a concurrent Reprice cannot be rolled back.
func (b *QuoteBook) Get(id string) (Quote, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cfg := b.source.Pricing()

	q, ok := b.quotes[id]
	if !ok || b.expired(q) {
		return Quote{}, domain.NotFoundError{Resource: "quote", ID: id}
	}

	if q.pricing != cfg {
		if err := b.repriceLocked(q, cfg, b.now()); err != nil {
			return Quote{}, err
		}
	}
	return *q, nil
}

func (b *QuoteBook) Close(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.quotes[id]; !ok {
		return domain.NotFoundError{Resource: "quote", ID: id}
	}
	delete(b.quotes, id)
	return nil
}

func (b *QuoteBook) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.quotes)
}

// Reprice recomputes every open quote under cfg. An invalid cfg leaves the
// book untouched.
func (b *QuoteBook) Reprice(cfg domain.PricingConfig) (int, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.pruneLocked()

	now := b.now()
	for id, q := range b.quotes {
		if err := b.repriceLocked(q, cfg, now); err != nil {
			return 0, fmt.Errorf("reprice quote %s: %w", id, err)
		}
	}
	return len(b.quotes), nil
}

// Watch reprices the book on every settings update until ctx is done or updates closes.
func (b *QuoteBook) Watch(ctx context.Context, updates <-chan domain.Settings) {
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-updates:
			if !ok {
				return
			}
			n, err := b.Reprice(s.Pricing())
			if err != nil {
				log.Printf("req_id=%s quote reprice failed: %v", obs.RequestID(ctx), err)
				continue
			}
			log.Printf("req_id=%s quotes repriced count=%d", obs.RequestID(ctx), n)
		}
	}
}

func (b *QuoteBook) repriceLocked(q *Quote, cfg domain.PricingConfig, now time.Time) error {
	p, err := domain.ComputePrice(q.DistanceKm, cfg)
	if err != nil {
		return err
	}
	q.PriceAmount = p
	q.PricedAt = now
	q.pricing = cfg
	return nil
}

func (b *QuoteBook) expired(q *Quote) bool {
	return b.MaxAge > 0 && b.now().Sub(q.CreatedAt) > b.MaxAge
}

func (b *QuoteBook) pruneLocked() {
	for id, q := range b.quotes {
		if b.expired(q) {
			delete(b.quotes, id)
		}
	}
}
