package main

import (
	"context"
	"delivery-pricing-service/internal/adapters/repositories"
	"delivery-pricing-service/internal/config"
	"delivery-pricing-service/internal/platform/db"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// dbtool prepares a Postgres database: creates the schema and seeds the
// settings record, optionally from a JSON file.
func main() {
	settingsPath := flag.String("settings", "", "path to a settings JSON document (defaults when empty)")
	overwrite := flag.Bool("overwrite", false, "replace an existing settings record")
	schemaOnly := flag.Bool("schema-only", false, "create tables without seeding settings")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	if *schemaOnly {
		return
	}

	path := *settingsPath
	if path == "" {
		path = config.Get("SETTINGS_SEED_PATH", "")
	}

	s, err := repositories.ReadSettingsFile(path)
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}

	log.Println("Seeding settings...")
	seeded, err := repositories.SeedSettings(ctx, conn, s, *overwrite)
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	if seeded {
		log.Println("Seeding complete.")
	} else {
		log.Println("Settings already present; use -overwrite to replace them.")
	}
}
