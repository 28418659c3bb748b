package services

import (
	"context"
	"errors"
	"iter"
	"sync"
	"sync/atomic"

	"github.com/hofff/geo/internal/domain"
	"github.com/hofff/geo/internal/ports"
)

type fakeGeocoder struct {
	results map[string][]ports.GeocodeResult
	errs    map[string]error
	calls   atomic.Int32
}

func newFakeGeocoder() *fakeGeocoder {
	return &fakeGeocoder{
		results: map[string][]ports.GeocodeResult{},
		errs:    map[string]error{},
	}
}

func (f *fakeGeocoder) add(address string, points ...domain.LatLng) {
	for _, p := range points {
		f.results[address] = append(f.results[address], ports.GeocodeResult{FormattedAddress: address, Location: p})
	}
}

func (f *fakeGeocoder) Geocode(ctx context.Context, q ports.GeocodeQuery) iter.Seq2[ports.GeocodeResult, error] {
	return func(yield func(ports.GeocodeResult, error) bool) {
		f.calls.Add(1)
		if err := f.errs[q.Address]; err != nil {
			yield(ports.GeocodeResult{}, err)
			return
		}
		for _, r := range f.results[q.Address] {
			if !yield(r, nil) {
				return
			}
		}
	}
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]domain.LatLng
	getErr  error
	putErr  error
	puts    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]domain.LatLng{}}
}

func (c *fakeCache) GetMany(ctx context.Context, addresses []string) (map[string]domain.LatLng, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	out := map[string]domain.LatLng{}
	for _, a := range addresses {
		if p, ok := c.entries[a]; ok {
			out[a] = p
		}
	}
	return out, nil
}

func (c *fakeCache) PutMany(ctx context.Context, entries map[string]domain.LatLng) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	if c.putErr != nil {
		return c.putErr
	}
	for k, v := range entries {
		c.entries[k] = v
	}
	return nil
}

var errUpstream = errors.New("upstream down")

func ptr(p domain.LatLng) *domain.LatLng { return &p }
