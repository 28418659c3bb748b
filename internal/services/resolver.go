package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hofff/geo/internal/domain"
	"github.com/hofff/geo/internal/platform/obs"
	"github.com/hofff/geo/internal/ports"
)

var (
	ErrNoResults         = errors.New("no results")
	ErrEmptyPlace        = errors.New("place needs a location or an address")
	ErrGeocoderDisabled  = errors.New("address lookup is not configured")
	ErrGeocodeFailed     = errors.New("address lookup failed")
	ErrNonFiniteDistance = errors.New("distance is not a finite number")
)

// Place is a point given either directly or as an address to geocode.
// A set Location wins over Address.
type Place struct {
	Location *domain.LatLng
	Address  string
}

func (p Place) String() string {
	if p.Location != nil {
		return p.Location.String()
	}
	return strings.TrimSpace(p.Address)
}

// Resolver turns places into coordinates. A nil geocoder only accepts places
// with a Location.
type Resolver struct {
	geocoder ports.Geocoder
}

func NewResolver(g ports.Geocoder) *Resolver {
	return &Resolver{geocoder: g}
}

// Locate returns the place's coordinates, geocoding the address when needed.
// The top-ranked geocoding result is used.
func (r *Resolver) Locate(ctx context.Context, p Place) (_ domain.LatLng, err error) {
	if p.Location != nil {
		return *p.Location, nil
	}

	address := strings.TrimSpace(p.Address)
	if address == "" {
		return domain.LatLng{}, fmt.Errorf("locate: %w", ErrEmptyPlace)
	}
	if r == nil || r.geocoder == nil {
		return domain.LatLng{}, fmt.Errorf("locate %q: %w", address, ErrGeocoderDisabled)
	}

	defer obs.Time(ctx, "resolver.Locate")(&err)

	for res, err := range r.geocoder.Geocode(ctx, ports.GeocodeQuery{Address: address}) {
		if err != nil {
			return domain.LatLng{}, fmt.Errorf("locate %q: %w", address, WrapGeocodeError(err))
		}
		return res.Location, nil
	}

	return domain.LatLng{}, fmt.Errorf("locate %q: %w", address, ErrNoResults)
}

// WrapGeocodeError marks err as a geocoder failure for callers that consume
// a Geocoder directly.
func WrapGeocodeError(err error) error {
	if err == nil || errors.Is(err, ErrGeocodeFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrGeocodeFailed, err)
}
