package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hofff/geo/internal/domain"
	"github.com/hofff/geo/internal/platform/obs"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "geo:geocode:"

// RedisGeocodeCache stores address -> location entries as "lat,lng" strings
// under geo:geocode:<address>. A zero TTL keeps entries forever.
type RedisGeocodeCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisGeocodeCache(client redis.UniversalClient, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{client: client, ttl: ttl}
}

func redisKey(address string) string {
	return redisKeyPrefix + address
}

func (c *RedisGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.LatLng, err error) {
	defer obs.Time(ctx, "geocode.cache.redis.GetMany")(&err)

	if c.client == nil {
		return nil, errors.New("geocode cache: redis client is nil")
	}

	uniq := uniqueAddresses(addresses)
	if len(uniq) == 0 {
		return map[string]domain.LatLng{}, nil
	}

	keys := make([]string, len(uniq))
	for i, a := range uniq {
		keys[i] = redisKey(a)
	}

	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: mget: %w", err)
	}

	out := make(map[string]domain.LatLng, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}

		p, err := domain.ParseLatLng(s)
		if err != nil {
			return nil, fmt.Errorf("get geocode cache: address %q: %w", uniq[i], err)
		}
		out[uniq[i]] = p
	}

	return out, nil
}

func (c *RedisGeocodeCache) PutMany(ctx context.Context, entries map[string]domain.LatLng) (err error) {
	defer obs.Time(ctx, "geocode.cache.redis.PutMany")(&err)

	if c.client == nil {
		return errors.New("geocode cache: redis client is nil")
	}

	if len(entries) == 0 {
		return nil
	}

	for addr := range entries {
		if strings.TrimSpace(addr) == "" {
			return fmt.Errorf("insert geocode cache: empty address key")
		}
	}

	_, err = c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for addr, p := range entries {
			pipe.Set(ctx, redisKey(addr), p.String(), c.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert geocode cache: pipeline: %w", err)
	}

	return nil
}
