package repositories

import (
	"context"
	"database/sql"
	"delivery-pricing-service/internal/domain"
	"delivery-pricing-service/internal/platform/obs"
	"delivery-pricing-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

func isNotFound(err error) bool {
	return errors.Is(err, ports.ErrSettingsNotFound)
}

// SQLSettingsRepository keeps the settings record as one JSONB row.
type SQLSettingsRepository struct{ DB *sql.DB }

func NewSQLSettingsRepository(db *sql.DB) *SQLSettingsRepository {
	return &SQLSettingsRepository{DB: db}
}

func (r *SQLSettingsRepository) Load(ctx context.Context) (_ domain.Settings, err error) {
	defer obs.Time(ctx, "settings.sql.Load")(&err)

	if r.DB == nil {
		return domain.Settings{}, errors.New("sql settings repository: DB is nil")
	}

	var data []byte
	err = r.DB.QueryRowContext(ctx, `SELECT data FROM settings WHERE id = 1;`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Settings{}, ports.ErrSettingsNotFound
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: query settings table: %w", err)
	}

	s, err := decodeSettings(data)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return s, nil
}

func (r *SQLSettingsRepository) Save(ctx context.Context, s domain.Settings) (err error) {
	defer obs.Time(ctx, "settings.sql.Save")(&err)

	if r.DB == nil {
		return errors.New("sql settings repository: DB is nil")
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("save settings: encode: %w", err)
	}

	query := `
	INSERT INTO settings (id, data, updated_at)
	VALUES (1, $1, now())
	ON CONFLICT (id) DO UPDATE
	SET data = EXCLUDED.data,
		updated_at = EXCLUDED.updated_at;
	`
	if _, err := r.DB.ExecContext(ctx, query, data); err != nil {
		return fmt.Errorf("save settings: upsert: %w", err)
	}
	return nil
}

// JSONSettingsRepository keeps the settings record in a local JSON file.
type JSONSettingsRepository struct {
	Path string

	mu sync.Mutex
}

func NewJSONSettingsRepository(path string) *JSONSettingsRepository {
	return &JSONSettingsRepository{Path: path}
}

func (r *JSONSettingsRepository) Load(ctx context.Context) (_ domain.Settings, err error) {
	defer obs.Time(ctx, "settings.file.Load")(&err)

	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := os.ReadFile(r.Path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.Settings{}, ports.ErrSettingsNotFound
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: read %q: %w", r.Path, err)
	}

	s, err := decodeSettings(b)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings %q: %w", r.Path, err)
	}
	return s, nil
}

// Save writes to a temp file in the same directory and renames it over Path.
func (r *JSONSettingsRepository) Save(ctx context.Context, s domain.Settings) (err error) {
	defer obs.Time(ctx, "settings.file.Save")(&err)

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("save settings: encode: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Dir(r.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("save settings: mkdir %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("save settings: create temp: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("save settings: write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save settings: close temp: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.Path); err != nil {
		return fmt.Errorf("save settings: rename: %w", err)
	}
	return nil
}
