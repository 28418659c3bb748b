package services

import (
	"context"
	"iter"
	"strings"
	"sync/atomic"

	"github.com/hofff/geo/internal/domain"
	"github.com/hofff/geo/internal/platform/metrics"
	"github.com/hofff/geo/internal/platform/obs"
	"github.com/hofff/geo/internal/ports"
	"github.com/rs/zerolog"
)

// CachingGeocoder answers plain address lookups from a GeocodeCache and falls
// back to the wrapped Geocoder on a miss, storing its top result.
//
// Queries carrying a language, region or bounds hint bypass the cache: the
// hints change the ranking and the cache keeps a single location per address.
type CachingGeocoder struct {
	next    ports.Geocoder
	cache   ports.GeocodeCache
	backend string
	logger  zerolog.Logger
}

// NewCachingGeocoder decorates next. backend labels the cache hit/miss metrics.
func NewCachingGeocoder(next ports.Geocoder, cache ports.GeocodeCache, backend string, logger zerolog.Logger) *CachingGeocoder {
	return &CachingGeocoder{
		next:    next,
		cache:   cache,
		backend: backend,
		logger:  logger.With().Str("component", "caching-geocoder").Str("backend", backend).Logger(),
	}
}

func cacheKey(address string) string {
	return strings.Join(strings.Fields(address), " ")
}

func cacheable(q ports.GeocodeQuery) bool {
	return q.Language == "" && q.Region == "" && q.Bounds == nil
}

func (c *CachingGeocoder) Geocode(ctx context.Context, q ports.GeocodeQuery) iter.Seq2[ports.GeocodeResult, error] {
	if !cacheable(q) {
		return c.next.Geocode(ctx, q)
	}

	var used atomic.Bool
	key := cacheKey(q.Address)

	return func(yield func(ports.GeocodeResult, error) bool) {
		if used.Swap(true) {
			return
		}

		if p, ok := c.lookup(ctx, key); ok {
			metrics.CacheHits.WithLabelValues(c.backend).Inc()
			yield(ports.GeocodeResult{FormattedAddress: key, Location: p}, nil)
			return
		}
		metrics.CacheMisses.WithLabelValues(c.backend).Inc()

		first := true
		for r, err := range c.next.Geocode(ctx, q) {
			if err != nil {
				yield(ports.GeocodeResult{}, err)
				return
			}
			if first {
				first = false
				c.store(ctx, key, r.Location)
			}
			if !yield(r, nil) {
				return
			}
		}
	}
}

// Cache failures degrade to a miss.
func (c *CachingGeocoder) lookup(ctx context.Context, key string) (domain.LatLng, bool) {
	if key == "" {
		return domain.LatLng{}, false
	}

	hits, err := c.cache.GetMany(ctx, []string{key})
	if err != nil {
		c.logger.Warn().Str("req_id", obs.RequestID(ctx)).Err(err).Msg("geocode cache lookup failed")
		return domain.LatLng{}, false
	}

	p, ok := hits[key]
	return p, ok
}

func (c *CachingGeocoder) store(ctx context.Context, key string, p domain.LatLng) {
	if err := c.cache.PutMany(ctx, map[string]domain.LatLng{key: p}); err != nil {
		c.logger.Warn().Str("req_id", obs.RequestID(ctx)).Err(err).Msg("geocode cache write failed")
	}
}
