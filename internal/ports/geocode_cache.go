package ports

import (
	"context"

	"github.com/hofff/geo/internal/domain"
)

// Port: persistent address -> location cache in front of a Geocoder.
type GeocodeCache interface {
	// Return cached locations for the addresses that have one. Misses are absent from the map.
	GetMany(ctx context.Context, addresses []string) (map[string]domain.LatLng, error)
	// Store address -> location mappings, replacing existing entries.
	PutMany(ctx context.Context, entries map[string]domain.LatLng) error
}
