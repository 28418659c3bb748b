// Package geodesy computes distances, bearings and destination points on a
// sphere (great-circle and rhumb line) and on an ellipsoid (Vincenty inverse).
//
// Angles at the package boundary are degrees, distances are meters. All
// calculators are immutable values and safe for concurrent use.
package geodesy

import (
	"errors"
	"math"

	"github.com/hofff/geo/internal/domain"
)

// ErrIntermediateBearing is returned for a bearing fraction other than 0 (initial) or 1 (final).
var ErrIntermediateBearing = errors.New("intermediate bearing not implemented")

// Bearing fractions understood by Calculator.Bearing.
const (
	InitialBearing = 0.0
	FinalBearing   = 1.0
)

// Calculator is the capability shared by every geodesic model.
type Calculator interface {
	// Distance in meters between two points.
	Distance(from, to domain.LatLng) (float64, error)
	// Bearing in degrees [0, 360). x selects the initial (0) or final (1) bearing.
	Bearing(from, to domain.LatLng, x float64) (float64, error)
}

// Navigator is a Calculator that also solves the direct problem.
type Navigator interface {
	Calculator
	// Destination reached from a point after travelling distance meters on bearing degrees.
	Destination(from domain.LatLng, bearing, distance float64) (domain.LatLng, error)
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }
func toDegrees(rad float64) float64 { return rad * 180 / math.Pi }

// wrap360 maps a bearing in degrees into [0, 360).
func wrap360(deg float64) float64 {
	deg = math.Mod(deg+360, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// pointFromRadians builds a point, wrapping the longitude into (-180, 180].
func pointFromRadians(lat, lng float64) (domain.LatLng, error) {
	return domain.NewLatLng(toDegrees(lat), domain.NormalizeLongitude(toDegrees(lng)))
}
