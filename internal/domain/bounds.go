package domain

import (
	"encoding/json"
	"fmt"
)

// Axis-aligned box given by its southwest and northeast corners.
// Corner order is not checked: an inverted box is representable on purpose.
type LatLngBounds struct {
	sw LatLng
	ne LatLng
}

func NewLatLngBounds(sw, ne LatLng) LatLngBounds {
	return LatLngBounds{sw: sw, ne: ne}
}

func (b LatLngBounds) SouthWest() LatLng { return b.sw }
func (b LatLngBounds) NorthEast() LatLng { return b.ne }

// String renders "swLat,swLng|neLat,neLng".
func (b LatLngBounds) String() string {
	return b.sw.String() + "|" + b.ne.String()
}

type boundsJSON struct {
	SouthWest *LatLng `json:"southwest"`
	NorthEast *LatLng `json:"northeast"`
}

func (b LatLngBounds) MarshalJSON() ([]byte, error) {
	return json.Marshal(boundsJSON{SouthWest: &b.sw, NorthEast: &b.ne})
}

func (b *LatLngBounds) UnmarshalJSON(data []byte) error {
	var raw boundsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode bounds: %w", err)
	}
	if raw.SouthWest == nil || raw.NorthEast == nil {
		return fmt.Errorf("decode bounds: southwest and northeast are required: %w", ErrInvalidCoordinate)
	}

	*b = NewLatLngBounds(*raw.SouthWest, *raw.NorthEast)
	return nil
}
