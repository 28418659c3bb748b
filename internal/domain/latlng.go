package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrInvalidCoordinate is returned when a latitude or longitude is not a finite number.
var ErrInvalidCoordinate = errors.New("coordinates must be finite numbers")

// Immutable geographic point in degrees.
// The radian values are derived once at construction and cached.
type LatLng struct {
	lat    float64
	lng    float64
	latRad float64
	lngRad float64
}

// NewLatLng validates both values and returns the point as given (no normalization).
func NewLatLng(lat, lng float64) (LatLng, error) {
	if !isFinite(lat) || !isFinite(lng) {
		return LatLng{}, fmt.Errorf("new latlng (%v, %v): %w", lat, lng, ErrInvalidCoordinate)
	}

	return LatLng{
		lat:    lat,
		lng:    lng,
		latRad: lat * math.Pi / 180,
		lngRad: lng * math.Pi / 180,
	}, nil
}

// MustLatLng is NewLatLng for values known to be valid. It panics otherwise.
func MustLatLng(lat, lng float64) LatLng {
	p, err := NewLatLng(lat, lng)
	if err != nil {
		panic(err)
	}
	return p
}

// NewNormalizedLatLng clamps the latitude and wraps the longitude before construction.
func NewNormalizedLatLng(lat, lng float64) (LatLng, error) {
	if !isFinite(lat) || !isFinite(lng) {
		return LatLng{}, fmt.Errorf("new normalized latlng (%v, %v): %w", lat, lng, ErrInvalidCoordinate)
	}
	return NewLatLng(NormalizeLatitude(lat), NormalizeLongitude(lng))
}

func (p LatLng) Lat() float64        { return p.lat }
func (p LatLng) Lng() float64        { return p.lng }
func (p LatLng) LatRadians() float64 { return p.latRad }
func (p LatLng) LngRadians() float64 { return p.lngRad }

// Normalize returns a clamped/wrapped copy of p.
func (p LatLng) Normalize() LatLng {
	n, _ := NewNormalizedLatLng(p.lat, p.lng)
	return n
}

func (p LatLng) Equal(o LatLng) bool {
	return p.lat == o.lat && p.lng == o.lng
}

// String renders "lat,lng", the form geocoding services accept.
func (p LatLng) String() string {
	return strconv.FormatFloat(p.lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.lng, 'f', -1, 64)
}

type latLngJSON struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

func (p LatLng) MarshalJSON() ([]byte, error) {
	return json.Marshal(latLngJSON{Lat: &p.lat, Lng: &p.lng})
}

func (p *LatLng) UnmarshalJSON(b []byte) error {
	var raw latLngJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("decode latlng: %w", err)
	}
	if raw.Lat == nil || raw.Lng == nil {
		return fmt.Errorf("decode latlng: lat and lng are required: %w", ErrInvalidCoordinate)
	}

	v, err := NewLatLng(*raw.Lat, *raw.Lng)
	if err != nil {
		return fmt.Errorf("decode latlng: %w", err)
	}
	*p = v
	return nil
}

// NormalizeLatitude clamps lat into [-90, 90].
func NormalizeLatitude(lat float64) float64 {
	return math.Min(90, math.Max(-90, lat))
}

// NormalizeLatitudeByFolding folds lat into [-90, 90] by reflecting across the poles,
// so 100 becomes 80 and 200 becomes -20.
func NormalizeLatitudeByFolding(lat float64) float64 {
	lat = math.Mod(lat, 360)

	switch {
	case lat > 270:
		return lat - 360
	case lat > 90:
		return 180 - lat
	case lat < -270:
		return lat + 360
	case lat < -90:
		return -180 - lat
	}
	return lat
}

// NormalizeLongitude wraps lng into (-180, 180]. Both -180 and 180 map to 180.
func NormalizeLongitude(lng float64) float64 {
	lng = math.Mod(lng, 360)

	switch {
	case math.Abs(lng) == 180:
		return 180
	case lng > 180:
		return lng - 360
	case lng < -180:
		return lng + 360
	}
	return lng
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
