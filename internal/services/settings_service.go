package services

import (
	"context"
	"delivery-pricing-service/internal/domain"
	"delivery-pricing-service/internal/platform/obs"
	"delivery-pricing-service/internal/ports"
	"errors"
	"fmt"
	"log"
	"sync"
)

// SettingsService owns the live settings record. It is the only writer and
// broadcasts every accepted change to subscribers.
type SettingsService struct {
	repo ports.SettingsRepository

	// writeMu serializes Update so persisted, in-memory and broadcast order agree.
	writeMu sync.Mutex

	mu      sync.RWMutex
	current domain.Settings
	subs    map[int]chan domain.Settings
	nextID  int
}

// NewSettingsService loads the persisted settings once.
// Nothing persisted yet: the defaults are stored and used.
// Persisted but invalid: an error carrying the ConfigurationError or ValidationError.
func NewSettingsService(ctx context.Context, repo ports.SettingsRepository) (*SettingsService, error) {
	if repo == nil {
		return nil, errors.New("settings service: repository is nil")
	}

	s, err := repo.Load(ctx)
	switch {
	case errors.Is(err, ports.ErrSettingsNotFound):
		s = domain.DefaultSettings()
		log.Printf("req_id=%s settings not found, storing defaults", obs.RequestID(ctx))
		if err := repo.Save(ctx, s); err != nil {
			return nil, fmt.Errorf("settings service: store defaults: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("settings service: load: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("settings service: stored settings are invalid: %w", err)
	}

	return &SettingsService{
		repo:    repo,
		current: s,
		subs:    make(map[int]chan domain.Settings),
	}, nil
}

func (s *SettingsService) Current() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Pricing returns the pricing config of the current settings.
func (s *SettingsService) Pricing() domain.PricingConfig {
	return s.Current().Pricing()
}

// Update validates, persists and then publishes next.
func (s *SettingsService) Update(ctx context.Context, next domain.Settings) (_ domain.Settings, err error) {
	defer obs.Time(ctx, "settings.Update")(&err)

	if err := next.Validate(); err != nil {
		return domain.Settings{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.repo.Save(ctx, next); err != nil {
		return domain.Settings{}, fmt.Errorf("update settings: %w", err)
	}

	s.mu.Lock()
	s.current = next
	for _, ch := range s.subs {
		publish(ch, next)
	}
	s.mu.Unlock()

	return next, nil
}

// Reset restores DefaultSettings.
func (s *SettingsService) Reset(ctx context.Context) (domain.Settings, error) {
	return s.Update(ctx, domain.DefaultSettings())
}

// Subscribe returns a channel that always holds the latest published settings.
// Slow readers skip intermediate values. cancel closes the channel.
func (s *SettingsService) Subscribe() (<-chan domain.Settings, func()) {
	ch := make(chan domain.Settings, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			close(ch)
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

// publish replaces any unread value so the channel never blocks the writer.
func publish(ch chan domain.Settings, v domain.Settings) {
	select {
	case <-ch:
	default:
	}
	ch <- v
}
