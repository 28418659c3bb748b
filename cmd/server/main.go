package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hofff/geo/internal/adapters/cache"
	"github.com/hofff/geo/internal/adapters/geocoding"
	"github.com/hofff/geo/internal/api"
	"github.com/hofff/geo/internal/config"
	"github.com/hofff/geo/internal/geodesy"
	"github.com/hofff/geo/internal/platform/db"
	"github.com/hofff/geo/internal/platform/logging"
	"github.com/hofff/geo/internal/ports"
	"github.com/hofff/geo/internal/services"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// main is the application composition root.
// It wires the geodesic models and the optional geocoder stack behind ports and starts the HTTP server.
func main() {
	dotenv := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if !dotenv {
		logger.Debug().Msg("no .env file found (using environment variables)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	models := geodesy.NewModels(
		cfg.EarthRadius,
		cfg.Ellipsoid,
		geodesy.WithTolerance(cfg.VincentyTolerance),
		geodesy.WithMaxIterations(cfg.VincentyMaxIterations),
	)

	geocoder, cleanup, err := buildGeocoder(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	router := api.NewRouter(api.Deps{Models: models, Geocoder: geocoder, Logger: logger})

	// Timeouts allow for a cold geocode cache on route requests (external API latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("geocoder", cfg.Geocoder).
			Str("geocode_cache", cfg.GeocodeCache).
			Str("ellipsoid", cfg.Ellipsoid.String()).
			Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("run: listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("run: shutdown: %w", err)
	}
	return nil
}

// buildGeocoder returns nil when geocoding is disabled. The cleanup func is
// always safe to call.
func buildGeocoder(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (ports.Geocoder, func(), error) {
	noop := func() {}

	var upstream ports.Geocoder
	switch cfg.Geocoder {
	case config.GeocoderGoogle:
		g, err := geocoding.NewGoogleGeocoder(cfg.GoogleAPIKey, geocoding.WithLogger(logger))
		if err != nil {
			return nil, noop, fmt.Errorf("buildGeocoder: %w", err)
		}
		upstream = g
	case config.GeocoderORS:
		g, err := geocoding.NewORSGeocoder(cfg.ORSAPIKey, geocoding.WithLogger(logger))
		if err != nil {
			return nil, noop, fmt.Errorf("buildGeocoder: %w", err)
		}
		upstream = g
	default:
		return nil, noop, nil
	}

	switch cfg.GeocodeCache {
	case config.CacheRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("buildGeocoder: ping redis %q: %w", cfg.RedisAddr, err)
		}
		c := cache.NewRedisGeocodeCache(client, cfg.GeocodeCacheTTL)
		cleanup := func() { _ = client.Close() }
		return services.NewCachingGeocoder(upstream, c, config.CacheRedis, logger), cleanup, nil

	case config.CachePostgres:
		conn, err := openCacheDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("buildGeocoder: %w", err)
		}
		c := cache.NewSQLGeocodeCache(conn)
		cleanup := func() { _ = conn.Close() }
		return services.NewCachingGeocoder(upstream, c, config.CachePostgres, logger), cleanup, nil
	}

	return upstream, noop, nil
}

func openCacheDB(ctx context.Context, databaseURL string) (*sql.DB, error) {
	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := cache.InitSchema(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}
