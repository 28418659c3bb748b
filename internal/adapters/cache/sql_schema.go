package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hofff/geo/internal/domain"
)

// Initialize the Postgres schema used by SQLGeocodeCache.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lat DOUBLE PRECISION NOT NULL CHECK (lat BETWEEN -90 AND 90),
		lng DOUBLE PRECISION NOT NULL CHECK (lng BETWEEN -180 AND 180),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_geocode_cache_updated_at
	ON geocode_cache(updated_at);
	`

	statements := []string{
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

// GeocodeSeed is one warm-up entry of a seed file.
type GeocodeSeed struct {
	Address  string         `json:"address"`
	Location *domain.LatLng `json:"location"`
}

// LoadSeeds reads a JSON array of GeocodeSeed. Addresses are whitespace-collapsed.
func LoadSeeds(path string) (map[string]domain.LatLng, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load seeds: read %q: %w", path, err)
	}

	var seeds []GeocodeSeed
	if err := json.Unmarshal(b, &seeds); err != nil {
		return nil, fmt.Errorf("load seeds: decode %q: %w", path, err)
	}

	out := make(map[string]domain.LatLng, len(seeds))
	for i, s := range seeds {
		addr := strings.Join(strings.Fields(s.Address), " ")
		if addr == "" {
			return nil, fmt.Errorf("load seeds: entry #%d: empty address", i+1)
		}
		if s.Location == nil {
			return nil, fmt.Errorf("load seeds: entry #%d (%q): location is required", i+1, addr)
		}
		out[addr] = *s.Location
	}
	return out, nil
}

// SeedFromJSON warms the SQL geocode cache from a seed file.
func SeedFromJSON(ctx context.Context, db *sql.DB, path string) (int, error) {
	seeds, err := LoadSeeds(path)
	if err != nil {
		return 0, fmt.Errorf("seed from json: %w", err)
	}

	if err := NewSQLGeocodeCache(db).PutMany(ctx, seeds); err != nil {
		return 0, fmt.Errorf("seed from json: %w", err)
	}
	return len(seeds), nil
}
