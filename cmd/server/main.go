package main

import (
	"context"
	"database/sql"
	"delivery-pricing-service/internal/adapters/cache"
	"delivery-pricing-service/internal/adapters/distance"
	"delivery-pricing-service/internal/adapters/notify"
	"delivery-pricing-service/internal/adapters/orderapi"
	"delivery-pricing-service/internal/adapters/repositories"
	"delivery-pricing-service/internal/api"
	"delivery-pricing-service/internal/config"
	"delivery-pricing-service/internal/platform/db"
	"delivery-pricing-service/internal/ports"
	"delivery-pricing-service/internal/services"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, Goong, order backend, Telegram)
// behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

	settingsRepo := newSettingsRepository(cfg, conn)
	settings, err := services.NewSettingsService(ctx, settingsRepo)
	if err != nil {
		log.Fatal(err)
	}

	distanceCache, closeCache, err := newDistanceCache(ctx, cfg, conn)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()

	provider, geocoder, err := newDistanceProvider(cfg, conn, distanceCache)
	if err != nil {
		log.Fatal(err)
	}

	backend, err := orderapi.NewClient(cfg.OrderAPIBaseURL, cfg.OrderAPIToken)
	if err != nil {
		log.Fatal(err)
	}

	notifier, err := newNotifier(cfg)
	if err != nil {
		log.Fatal(err)
	}

	quotes := services.NewQuoteService(settings, provider)
	orderRepo := repositories.NewSQLOrderRepository(conn)
	orders, err := services.NewOrderService(services.OrderServiceDeps{
		Quotes:   quotes,
		Geocoder: geocoder,
		Backend:  backend,
		Repo:     orderRepo,
		Notifier: notifier,
	})
	if err != nil {
		log.Fatal(err)
	}

	book := services.NewQuoteBook(settings)
	updates, unsubscribe := settings.Subscribe()
	defer unsubscribe()
	go book.Watch(ctx, updates)

	router := api.NewRouter(api.Deps{
		Settings:           settings,
		Quotes:             quotes,
		Book:               book,
		Orders:             orders,
		Reports:            services.NewReportService(orderRepo, cfg.Location),
		Invoices:           services.NewInvoiceService(orders, settings, cfg.Location),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// Timeouts leave room for a cold-cache Goong lookup plus the order backend call.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening addr=:%s", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	case <-ctx.Done():
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}

func newSettingsRepository(cfg config.Config, conn *sql.DB) ports.SettingsRepository {
	if cfg.SettingsBackend == "file" {
		return repositories.NewJSONSettingsRepository(cfg.SettingsPath)
	}
	return repositories.NewSQLSettingsRepository(conn)
}

// newDistanceCache returns nil when caching is disabled. The returned close func is never nil.
func newDistanceCache(ctx context.Context, cfg config.Config, conn *sql.DB) (ports.DistanceCache, func(), error) {
	switch cfg.DistanceCache {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, func() {}, fmt.Errorf("distance cache: ping redis %s: %w", cfg.RedisAddr, err)
		}
		return cache.NewRedisDistanceCache(client, cfg.DistanceCacheTTL), func() { _ = client.Close() }, nil
	case "postgres":
		return cache.NewSQLDistanceCache(conn), func() {}, nil
	default:
		return nil, func() {}, nil
	}
}

// newDistanceProvider prefers Goong with the keyword estimator behind it.
// Without an API key only the estimator is available and addresses are not geocoded.
func newDistanceProvider(
	cfg config.Config,
	conn *sql.DB,
	distanceCache ports.DistanceCache,
) (ports.DistanceProvider, ports.Geocoder, error) {
	estimate := distance.NewEstimateDistanceProvider()
	if cfg.GoongAPIKey == "" {
		log.Println("GOONG_API_KEY not set; distances will be estimated")
		return estimate, nil, nil
	}

	var geocodeCache ports.GeocodeCache
	if cfg.DistanceCache != "none" {
		geocodeCache = cache.NewSQLGeocodeCache(conn)
	}

	goong, err := distance.NewGoongDistanceProvider(cfg.GoongAPIKey, cfg.GoongBaseURL, distanceCache, geocodeCache)
	if err != nil {
		return nil, nil, err
	}

	fallback := distance.NewFallbackDistanceProvider(goong, estimate)
	return fallback, fallback, nil
}

func newNotifier(cfg config.Config) (ports.Notifier, error) {
	if cfg.TelegramToken == "" || cfg.TelegramChatID == 0 {
		return notify.LogNotifier{}, nil
	}
	return notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
}
