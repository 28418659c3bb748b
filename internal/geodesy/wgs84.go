package geodesy

import "fmt"

// WGS84 reference values.
const (
	EarthRadius       = 6371000.0 // mean radius, meters
	WGS84A            = 6378137.0
	WGS84B            = 6356752.314245
	InverseFlattening = 298.257223563
)

// Ellipsoid is a reference ellipsoid: semi-major axis A and semi-minor axis B
// in meters, flattening F.
type Ellipsoid struct {
	A float64
	B float64
	F float64
}

var WGS84 = Ellipsoid{A: WGS84A, B: WGS84B, F: 1 / InverseFlattening}

func (e Ellipsoid) String() string {
	return fmt.Sprintf("a=%v, b=%v, f=%v", e.A, e.B, e.F)
}

func NewWGS84Haversine() Haversine { return NewHaversine(EarthRadius) }

func NewWGS84Rhumb() Rhumb { return NewRhumb(EarthRadius) }

func NewWGS84Vincenty(opts ...VincentyOption) Vincenty { return NewVincenty(WGS84, opts...) }
