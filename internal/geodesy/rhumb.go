package geodesy

import (
	"fmt"
	"math"

	"github.com/hofff/geo/internal/domain"
)

// Below this stretched-latitude difference a course is treated as due east/west.
// The ratio dLat/dPhi is 0/0 there and cos(lat) is its limit.
const eastWestEpsilon = 1e-12

// Rhumb implements loxodrome (constant bearing) formulas on a sphere.
// Latitudes are stretched with the Mercator projection, which diverges at the
// poles: exact pole latitudes produce meaningless results.
type Rhumb struct {
	radius float64
}

func NewRhumb(radius float64) Rhumb {
	return Rhumb{radius: radius}
}

func (r Rhumb) Radius() float64 { return r.radius }

func (r Rhumb) Distance(from, to domain.LatLng) (float64, error) {
	fromLat := from.LatRadians()
	toLat := to.LatRadians()
	dLat := toLat - fromLat

	dLng := math.Abs(to.LngRadians() - from.LngRadians())
	if dLng > math.Pi {
		dLng = 2*math.Pi - dLng
	}

	q := stretchRatio(fromLat, dLat, DeltaPhi(fromLat, toLat))

	return math.Sqrt(dLat*dLat+q*q*dLng*dLng) * r.radius, nil
}

// Bearing is constant along a rhumb line, so x is ignored.
func (r Rhumb) Bearing(from, to domain.LatLng, x float64) (float64, error) {
	dLng := shortestLngDelta(to.LngRadians() - from.LngRadians())
	dPhi := DeltaPhi(from.LatRadians(), to.LatRadians())

	return wrap360(toDegrees(math.Atan2(dLng, dPhi))), nil
}

func (r Rhumb) Destination(from domain.LatLng, bearing, distance float64) (domain.LatLng, error) {
	fromLat := from.LatRadians()
	delta := distance / r.radius
	theta := toRadians(bearing)

	dLat := delta * math.Cos(theta)
	toLat := fromLat + dLat

	// The stretch is taken before any pole reflection. Mercator diverges at the
	// pole, so the stretched latitude is capped just short of it; the longitude
	// of a course carried past a pole is finite but has no geometric meaning.
	q := stretchRatio(fromLat, dLat, DeltaPhi(fromLat, clampBelowPole(toLat)))
	toLng := from.LngRadians() + delta*math.Sin(theta)/q

	if math.Abs(toLat) > math.Pi/2 {
		if toLat > 0 {
			toLat = math.Pi - toLat
		} else {
			toLat = -math.Pi - toLat
		}
	}

	p, err := pointFromRadians(toLat, toLng)
	if err != nil {
		return domain.LatLng{}, fmt.Errorf("rhumb destination from %s: %w", from, err)
	}
	return p, nil
}

// Center is the midpoint of the rhumb line from the southwest to the northeast corner.
func (r Rhumb) Center(bounds domain.LatLngBounds) (domain.LatLng, error) {
	sw := bounds.SouthWest()
	ne := bounds.NorthEast()

	bearing, err := r.Bearing(sw, ne, InitialBearing)
	if err != nil {
		return domain.LatLng{}, fmt.Errorf("rhumb center: %w", err)
	}
	distance, err := r.Distance(sw, ne)
	if err != nil {
		return domain.LatLng{}, fmt.Errorf("rhumb center: %w", err)
	}

	return r.Destination(sw, bearing, distance/2)
}

// BoundsOfCircle returns the square circumscribing a circle of radius meters.
// The corners lie radius*sqrt(2) away on bearings 225 and 45, so the box is
// not a tight bound. A radius <= 0 yields a box collapsed onto center.
func (r Rhumb) BoundsOfCircle(center domain.LatLng, radius float64) (domain.LatLngBounds, error) {
	if radius <= 0 {
		return domain.NewLatLngBounds(center, center), nil
	}

	radius = math.Sqrt(2 * radius * radius)

	sw, err := r.Destination(center, 225, radius)
	if err != nil {
		return domain.LatLngBounds{}, fmt.Errorf("rhumb bounds of circle: southwest: %w", err)
	}
	ne, err := r.Destination(center, 45, radius)
	if err != nil {
		return domain.LatLngBounds{}, fmt.Errorf("rhumb bounds of circle: northeast: %w", err)
	}

	return domain.NewLatLngBounds(sw, ne), nil
}

// DeltaPhi is the difference of the Mercator stretched latitudes, in radians.
func DeltaPhi(fromLat, toLat float64) float64 {
	return math.Log(math.Tan(toLat/2+math.Pi/4) / math.Tan(fromLat/2+math.Pi/4))
}

func stretchRatio(fromLat, dLat, dPhi float64) float64 {
	if math.Abs(dPhi) > eastWestEpsilon {
		return dLat / dPhi
	}
	return math.Cos(fromLat)
}

const poleMargin = 1e-9

func clampBelowPole(lat float64) float64 {
	return math.Max(-math.Pi/2+poleMargin, math.Min(math.Pi/2-poleMargin, lat))
}

func shortestLngDelta(dLng float64) float64 {
	switch {
	case dLng > math.Pi:
		return dLng - 2*math.Pi
	case dLng < -math.Pi:
		return dLng + 2*math.Pi
	}
	return dLng
}
