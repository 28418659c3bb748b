package dto

import "github.com/hofff/geo/internal/domain"

type GeocodeResult struct {
	FormattedAddress string               `json:"formatted_address"`
	Location         domain.LatLng        `json:"location"`
	Bounds           *domain.LatLngBounds `json:"bounds,omitempty"`
	Viewport         *domain.LatLngBounds `json:"viewport,omitempty"`
	PlaceID          string               `json:"place_id,omitempty"`
	PartialMatch     bool                 `json:"partial_match"`
}

type GeocodeResponse struct {
	Results []GeocodeResult `json:"results"`
}
