// Package config reads service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hofff/geo/internal/geodesy"
	"github.com/joho/godotenv"
)

// Geocoder providers.
const (
	GeocoderNone   = "none"
	GeocoderGoogle = "google"
	GeocoderORS    = "ors"
)

// Geocode cache backends.
const (
	CacheNone     = "none"
	CacheRedis    = "redis"
	CachePostgres = "postgres"
)

type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	EarthRadius           float64
	Ellipsoid             geodesy.Ellipsoid
	VincentyTolerance     float64
	VincentyMaxIterations int

	Geocoder     string
	GoogleAPIKey string
	ORSAPIKey    string

	GeocodeCache    string
	RedisAddr       string
	GeocodeCacheTTL time.Duration
	DatabaseURL     string
	SeedPath        string
}

// LoadDotEnv loads .env into the process environment without overriding
// variables that are already set. It reports whether a file was found.
func LoadDotEnv(filenames ...string) bool {
	return godotenv.Load(filenames...) == nil
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	p := &parser{}

	invF := p.float("ELLIPSOID_INV_F", geodesy.InverseFlattening)

	cfg := Config{
		Port:      Get("PORT", "8080"),
		LogLevel:  Get("LOG_LEVEL", "info"),
		LogFormat: Get("LOG_FORMAT", "json"),

		EarthRadius: p.float("EARTH_RADIUS_M", geodesy.EarthRadius),
		Ellipsoid: geodesy.Ellipsoid{
			A: p.float("ELLIPSOID_A", geodesy.WGS84A),
			B: p.float("ELLIPSOID_B", geodesy.WGS84B),
			F: 1 / invF,
		},
		VincentyTolerance:     p.float("VINCENTY_TOLERANCE", geodesy.DefaultTolerance),
		VincentyMaxIterations: p.int("VINCENTY_MAX_ITERATIONS", geodesy.DefaultMaxIterations),

		Geocoder:     strings.ToLower(Get("GEOCODER", GeocoderNone)),
		GoogleAPIKey: Get("GOOGLE_API_KEY", ""),
		ORSAPIKey:    Get("ORS_API_KEY", ""),

		GeocodeCache:    strings.ToLower(Get("GEOCODE_CACHE", CacheNone)),
		RedisAddr:       Get("REDIS_ADDR", "localhost:6379"),
		GeocodeCacheTTL: p.duration("GEOCODE_CACHE_TTL", 30*24*time.Hour),
		DatabaseURL:     Get("DATABASE_URL", ""),
		SeedPath:        Get("SEED_PATH", "data/seeds/geocode.json"),
	}

	errs := p.errs
	if invF <= 0 {
		errs = append(errs, fmt.Sprintf("ELLIPSOID_INV_F must be positive, got %v", invF))
	}
	errs = append(errs, cfg.problems()...)

	if len(errs) > 0 {
		return nil, fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if errs := c.problems(); len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func (c *Config) problems() []string {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Sprintf("PORT must be 1-65535, got %q", c.Port))
	}
	if c.EarthRadius <= 0 {
		errs = append(errs, fmt.Sprintf("EARTH_RADIUS_M must be positive, got %v", c.EarthRadius))
	}
	if c.Ellipsoid.A <= 0 || c.Ellipsoid.B <= 0 || c.Ellipsoid.B > c.Ellipsoid.A {
		errs = append(errs, fmt.Sprintf("ellipsoid needs 0 < ELLIPSOID_B <= ELLIPSOID_A, got a=%v b=%v", c.Ellipsoid.A, c.Ellipsoid.B))
	}
	if c.VincentyTolerance < 0 {
		errs = append(errs, "VINCENTY_TOLERANCE must not be negative")
	}
	if c.VincentyMaxIterations < 1 {
		errs = append(errs, "VINCENTY_MAX_ITERATIONS must be at least 1")
	}

	switch c.Geocoder {
	case GeocoderNone:
	case GeocoderGoogle:
		if c.GoogleAPIKey == "" {
			errs = append(errs, "GOOGLE_API_KEY is required when GEOCODER=google")
		}
	case GeocoderORS:
		if c.ORSAPIKey == "" {
			errs = append(errs, "ORS_API_KEY is required when GEOCODER=ors")
		}
	default:
		errs = append(errs, fmt.Sprintf("GEOCODER must be one of none, google, ors, got %q", c.Geocoder))
	}

	switch c.GeocodeCache {
	case CacheNone:
	case CacheRedis:
		if c.RedisAddr == "" {
			errs = append(errs, "REDIS_ADDR is required when GEOCODE_CACHE=redis")
		}
	case CachePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, "DATABASE_URL is required when GEOCODE_CACHE=postgres")
		}
	default:
		errs = append(errs, fmt.Sprintf("GEOCODE_CACHE must be one of none, redis, postgres, got %q", c.GeocodeCache))
	}
	if c.GeocodeCacheTTL < 0 {
		errs = append(errs, "GEOCODE_CACHE_TTL must not be negative")
	}

	return errs
}

// parser collects conversion problems instead of stopping at the first one.
type parser struct {
	errs []string
}

func (p *parser) float(key string, fallback float64) float64 {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Sprintf("%s must be a number, got %q", key, raw))
		return fallback
	}
	return v
}

func (p *parser) int(key string, fallback int) int {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Sprintf("%s must be an integer, got %q", key, raw))
		return fallback
	}
	return v
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Sprintf("%s must be a duration like 24h, got %q", key, raw))
		return fallback
	}
	return v
}
