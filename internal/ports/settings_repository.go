package ports

import (
	"context"
	"delivery-pricing-service/internal/domain"
	"errors"
)

// ErrSettingsNotFound is returned by Load when nothing has been persisted yet.
var ErrSettingsNotFound = errors.New("settings not found")

// Port: where the admin settings record is persisted.
type SettingsRepository interface {
	Load(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, s domain.Settings) error
}
