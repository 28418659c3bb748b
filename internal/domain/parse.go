package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseLatLng parses the "lat,lng" form produced by LatLng.String.
func ParseLatLng(s string) (LatLng, error) {
	latS, lngS, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return LatLng{}, fmt.Errorf("parse latlng %q: want \"lat,lng\": %w", s, ErrInvalidCoordinate)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(latS), 64)
	if err != nil {
		return LatLng{}, fmt.Errorf("parse latlng %q: latitude: %w", s, ErrInvalidCoordinate)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngS), 64)
	if err != nil {
		return LatLng{}, fmt.Errorf("parse latlng %q: longitude: %w", s, ErrInvalidCoordinate)
	}

	return NewLatLng(lat, lng)
}

// ParseLatLngBounds parses the "swLat,swLng|neLat,neLng" form produced by LatLngBounds.String.
func ParseLatLngBounds(s string) (LatLngBounds, error) {
	swS, neS, ok := strings.Cut(s, "|")
	if !ok {
		return LatLngBounds{}, fmt.Errorf("parse bounds %q: want \"sw|ne\": %w", s, ErrInvalidCoordinate)
	}

	sw, err := ParseLatLng(swS)
	if err != nil {
		return LatLngBounds{}, fmt.Errorf("parse bounds: southwest: %w", err)
	}
	ne, err := ParseLatLng(neS)
	if err != nil {
		return LatLngBounds{}, fmt.Errorf("parse bounds: northeast: %w", err)
	}

	return NewLatLngBounds(sw, ne), nil
}
