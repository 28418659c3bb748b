package geodesy

import (
	"fmt"
	"math"

	"github.com/hofff/geo/internal/domain"
)

// Haversine implements great-circle formulas on a sphere of the given radius.
type Haversine struct {
	radius float64
}

func NewHaversine(radius float64) Haversine {
	return Haversine{radius: radius}
}

func (h Haversine) Radius() float64 { return h.radius }

func (h Haversine) Distance(from, to domain.LatLng) (float64, error) {
	fromLat := from.LatRadians()
	toLat := to.LatRadians()

	sinDLat := math.Sin((toLat - fromLat) / 2)
	sinDLng := math.Sin((to.LngRadians() - from.LngRadians()) / 2)

	a := sinDLat*sinDLat + math.Cos(fromLat)*math.Cos(toLat)*sinDLng*sinDLng
	// Rounding can push a just past 1 for antipodal points.
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return c * h.radius, nil
}

// Bearing returns the initial bearing for x == 0 and the final bearing for x == 1.
// The final bearing is the reverse initial bearing turned by 180 degrees.
func (h Haversine) Bearing(from, to domain.LatLng, x float64) (float64, error) {
	switch x {
	case InitialBearing:
		return h.initialBearing(from, to), nil
	case FinalBearing:
		return math.Mod(h.initialBearing(to, from)+180, 360), nil
	}
	return 0, fmt.Errorf("haversine bearing x=%v: %w", x, ErrIntermediateBearing)
}

func (h Haversine) initialBearing(from, to domain.LatLng) float64 {
	fromLat := from.LatRadians()
	toLat := to.LatRadians()
	dLng := to.LngRadians() - from.LngRadians()

	y := math.Sin(dLng) * math.Cos(toLat)
	x := math.Cos(fromLat)*math.Sin(toLat) - math.Sin(fromLat)*math.Cos(toLat)*math.Cos(dLng)

	return wrap360(toDegrees(math.Atan2(y, x)))
}

func (h Haversine) Destination(from domain.LatLng, bearing, distance float64) (domain.LatLng, error) {
	fromLat := from.LatRadians()
	delta := distance / h.radius
	theta := toRadians(bearing)

	toLat := math.Asin(math.Sin(fromLat)*math.Cos(delta) + math.Cos(fromLat)*math.Sin(delta)*math.Cos(theta))

	y := math.Sin(theta) * math.Sin(delta) * math.Cos(fromLat)
	x := math.Cos(delta) - math.Sin(fromLat)*math.Sin(toLat)
	toLng := from.LngRadians() + math.Atan2(y, x)

	p, err := pointFromRadians(toLat, toLng)
	if err != nil {
		return domain.LatLng{}, fmt.Errorf("haversine destination from %s: %w", from, err)
	}
	return p, nil
}
