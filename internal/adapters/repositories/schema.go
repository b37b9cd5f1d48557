package repositories

import (
	"context"
	"database/sql"
	"delivery-pricing-service/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Initialize the Postgres database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createSettingsQuery := `
	CREATE TABLE IF NOT EXISTS settings (
		id SMALLINT PRIMARY KEY CHECK (id = 1),
		data JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createOrdersQuery := `
	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		trip_id TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		sender_name TEXT NOT NULL,
		sender_phone TEXT NOT NULL,
		recipient_name TEXT NOT NULL,
		recipient_phone TEXT NOT NULL,
		pickup_address TEXT NOT NULL,
		pickup_lon DOUBLE PRECISION,
		pickup_lat DOUBLE PRECISION,
		destination_address TEXT NOT NULL,
		destination_lon DOUBLE PRECISION,
		destination_lat DOUBLE PRECISION,
		distance_km DOUBLE PRECISION NOT NULL,
		distance_estimated BOOLEAN NOT NULL DEFAULT false,
		shipping_fee DOUBLE PRECISION NOT NULL,
		cod_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		driver_id TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ
	);
	`

	createOrdersIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_orders_created_at
	ON orders(created_at);
	`

	createDistanceCacheQuery := `
	CREATE TABLE IF NOT EXISTS distance_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        distance_meters INTEGER NOT NULL,
        duration_seconds INTEGER NOT NULL,
        PRIMARY KEY (origin, destination)
    );
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        lon DOUBLE PRECISION NOT NULL,
        lat DOUBLE PRECISION NOT NULL
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_distance_cache_destination_origin
    ON distance_cache(destination, origin);
	`

	statements := []string{
		createSettingsQuery,
		createOrdersQuery,
		createOrdersIndexQuery,
		createDistanceCacheQuery,
		createGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// ReadSettingsFile parses a settings document, filling absent keys from the defaults.
// An empty path yields the defaults.
func ReadSettingsFile(path string) (domain.Settings, error) {
	if path == "" {
		return domain.DefaultSettings(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("seed settings: read %q: %w", path, err)
	}

	s, err := decodeSettings(b)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("seed settings: %w", err)
	}
	return s, nil
}

// SeedSettings stores s only when no settings row exists yet, unless overwrite is set.
func SeedSettings(ctx context.Context, db *sql.DB, s domain.Settings, overwrite bool) (bool, error) {
	if err := s.Validate(); err != nil {
		return false, fmt.Errorf("seed settings: %w", err)
	}

	repo := NewSQLSettingsRepository(db)
	if !overwrite {
		_, err := repo.Load(ctx)
		switch {
		case err == nil:
			return false, nil
		case !isNotFound(err):
			return false, fmt.Errorf("seed settings: %w", err)
		}
	}

	if err := repo.Save(ctx, s); err != nil {
		return false, fmt.Errorf("seed settings: %w", err)
	}
	return true, nil
}

func decodeSettings(b []byte) (domain.Settings, error) {
	s := domain.DefaultSettings()
	if err := json.Unmarshal(b, &s); err != nil {
		return domain.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}
