package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string

	SettingsBackend string // "postgres" or "file"
	SettingsPath    string

	GoongAPIKey  string
	GoongBaseURL string

	DistanceCache    string // "postgres", "redis" or "none"
	RedisAddr        string
	DistanceCacheTTL time.Duration

	OrderAPIBaseURL string
	OrderAPIToken   string

	TelegramToken  string
	TelegramChatID int64

	CORSAllowedOrigins []string

	// Day boundaries for reports and invoice timestamps.
	Location *time.Location
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load config: read .env: %w", err)
	}

	cfg := Config{
		Port:            Get("PORT", "8080"),
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SettingsBackend: strings.ToLower(Get("SETTINGS_BACKEND", "postgres")),
		SettingsPath:    Get("SETTINGS_PATH", "data/settings.json"),
		GoongAPIKey:     strings.TrimSpace(os.Getenv("GOONG_API_KEY")),
		GoongBaseURL:    Get("GOONG_BASE_URL", "https://rsapi.goong.io"),
		DistanceCache:   strings.ToLower(Get("DISTANCE_CACHE", "postgres")),
		RedisAddr:       Get("REDIS_ADDR", "localhost:6379"),
		OrderAPIBaseURL: Get("ORDER_API_BASE_URL", "http://localhost:8000"),
		OrderAPIToken:   strings.TrimSpace(os.Getenv("ORDER_API_TOKEN")),
		TelegramToken:   strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
	}

	ttl, err := time.ParseDuration(Get("DISTANCE_CACHE_TTL", "168h"))
	if err != nil {
		return Config{}, fmt.Errorf("load config: DISTANCE_CACHE_TTL: %w", err)
	}
	cfg.DistanceCacheTTL = ttl

	if v := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("load config: TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = id
	}

	loc, err := time.LoadLocation(Get("BUSINESS_TZ", "Asia/Ho_Chi_Minh"))
	if err != nil {
		return Config{}, fmt.Errorf("load config: BUSINESS_TZ: %w", err)
	}
	cfg.Location = loc

	for _, o := range strings.Split(Get("CORS_ALLOWED_ORIGINS", "http://localhost:3000"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch c.SettingsBackend {
	case "postgres", "file":
	default:
		return fmt.Errorf("SETTINGS_BACKEND must be postgres or file, got %q", c.SettingsBackend)
	}

	switch c.DistanceCache {
	case "postgres", "redis", "none":
	default:
		return fmt.Errorf("DISTANCE_CACHE must be postgres, redis or none, got %q", c.DistanceCache)
	}

	// The order ledger lives in Postgres regardless of the settings backend.
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	return nil
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
