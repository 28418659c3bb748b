package ports

import (
	"context"
	"iter"

	"github.com/hofff/geo/internal/domain"
)

// GeocodeQuery describes a forward geocoding lookup. Language, Region and
// Bounds are optional hints; providers may ignore the ones they cannot express.
type GeocodeQuery struct {
	Address  string
	Language string
	Region   string
	Bounds   *domain.LatLngBounds
}

// GeocodeResult is one candidate location for an address.
type GeocodeResult struct {
	FormattedAddress string
	Location         domain.LatLng
	Bounds           *domain.LatLngBounds
	Viewport         *domain.LatLngBounds
	PlaceID          string
	PartialMatch     bool
}

// Port: resolves addresses to ranked candidate locations.
type Geocoder interface {
	// Geocode returns a lazy sequence in rank order. The request is issued on
	// the first pull; a failure is yielded once as the error element. The
	// sequence is single-use: ranging over it again yields nothing.
	Geocode(ctx context.Context, q GeocodeQuery) iter.Seq2[GeocodeResult, error]
}
