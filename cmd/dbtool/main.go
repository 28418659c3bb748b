// Command dbtool prepares the Postgres geocode cache: it creates the schema
// and preloads known address locations from a JSON seed file.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/hofff/geo/internal/adapters/cache"
	"github.com/hofff/geo/internal/config"
	"github.com/hofff/geo/internal/platform/db"
	"github.com/hofff/geo/internal/platform/logging"
	"github.com/rs/zerolog"
)

func main() {
	config.LoadDotEnv()

	logger, err := logging.New(config.Get("LOG_LEVEL", "info"), config.Get("LOG_FORMAT", "console"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if databaseURL == "" {
		logger.Fatal().Msg("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/geocode.json")
	if err := initAndSeed(ctx, conn, seedPath, logger); err != nil {
		logger.Error().Err(err).Msg("dbtool failed")
		conn.Close()
		os.Exit(1)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string, logger zerolog.Logger) error {
	logger.Info().Msg("initializing database schema")
	if err := cache.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	logger.Info().Msg("schema ready")

	logger.Info().Str("path", seedPath).Msg("seeding geocode cache")
	n, err := cache.SeedFromJSON(ctx, conn, seedPath)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	logger.Info().Int("entries", n).Msg("seeding complete")

	return nil
}
