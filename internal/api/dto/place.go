package dto

import (
	"fmt"
	"strings"

	"github.com/hofff/geo/internal/domain"
	"github.com/hofff/geo/internal/services"
)

// Place is either a coordinate pair or an address. Coordinates win when both are given.
type Place struct {
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
	Address string   `json:"address,omitempty"`
}

func (p Place) ToService() (services.Place, error) {
	switch {
	case p.Lat != nil && p.Lng != nil:
		loc, err := domain.NewLatLng(*p.Lat, *p.Lng)
		if err != nil {
			return services.Place{}, err
		}
		return services.Place{Location: &loc, Address: p.Address}, nil
	case p.Lat != nil || p.Lng != nil:
		return services.Place{}, fmt.Errorf("lat and lng must be given together: %w", domain.ErrInvalidCoordinate)
	case strings.TrimSpace(p.Address) == "":
		return services.Place{}, services.ErrEmptyPlace
	}
	return services.Place{Address: p.Address}, nil
}
