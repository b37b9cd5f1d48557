package services

import (
	"context"
	"delivery-pricing-service/internal/domain"
	"delivery-pricing-service/internal/ports"
	"errors"
	"sort"
	"sync"
	"time"
)

type memSettingsRepo struct {
	mu      sync.Mutex
	s       *domain.Settings
	saves   int
	saveErr error
}

func (r *memSettingsRepo) Load(context.Context) (domain.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.s == nil {
		return domain.Settings{}, ports.ErrSettingsNotFound
	}
	return *r.s, nil
}

func (r *memSettingsRepo) Save(_ context.Context, s domain.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.s = &s
	r.saves++
	return nil
}

type staticPricing struct {
	mu  sync.Mutex
	cfg domain.PricingConfig
}

func (p *staticPricing) Pricing() domain.PricingConfig {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg
}

func (p *staticPricing) set(cfg domain.PricingConfig) {
	p.mu.Lock()
	p.cfg = cfg
	p.mu.Unlock()
}

type fakeBackend struct {
	mu        sync.Mutex
	created   []*domain.Order
	receipt   ports.OrderReceipt
	createErr error
	listing   ports.OrderListing
}

func (b *fakeBackend) CreateOrder(_ context.Context, o *domain.Order) (ports.OrderReceipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.createErr != nil {
		return ports.OrderReceipt{}, b.createErr
	}
	cp := *o
	b.created = append(b.created, &cp)
	return b.receipt, nil
}

func (b *fakeBackend) ListOrders(context.Context) (ports.OrderListing, error) {
	return b.listing, nil
}

type memOrderRepo struct {
	mu      sync.Mutex
	orders  map[string]*domain.Order
	saveErr error
	report  domain.DailyReport
	day     time.Time
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: map[string]*domain.Order{}}
}

func (r *memOrderRepo) SaveOrder(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *memOrderRepo) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "order", ID: id}
	}
	cp := *o
	return &cp, nil
}

func (r *memOrderRepo) ListOrders(_ context.Context, limit int) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memOrderRepo) DailyReport(_ context.Context, day time.Time) (domain.DailyReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.day = day
	return r.report, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, msg string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	return n.err
}

var errBoom = errors.New("boom")
