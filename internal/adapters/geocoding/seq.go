package geocoding

import (
	"iter"
	"sync/atomic"

	"github.com/hofff/geo/internal/ports"
)

// lazySeq defers fetch until the first pull and yields its results in order.
// A fetch error is yielded once. The sequence can be consumed only once.
func lazySeq(fetch func() ([]ports.GeocodeResult, error)) iter.Seq2[ports.GeocodeResult, error] {
	var used atomic.Bool

	return func(yield func(ports.GeocodeResult, error) bool) {
		if used.Swap(true) {
			return
		}

		results, err := fetch()
		if err != nil {
			yield(ports.GeocodeResult{}, err)
			return
		}

		for _, r := range results {
			if !yield(r, nil) {
				return
			}
		}
	}
}
