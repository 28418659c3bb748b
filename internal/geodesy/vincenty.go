package geodesy

import (
	"fmt"
	"math"

	"github.com/hofff/geo/internal/domain"
)

// Vincenty solves the inverse geodesic problem on an ellipsoid with
// Vincenty's iterative formulae. It has no Destination: the direct problem is
// not implemented.
type Vincenty struct {
	cfg solverConfig
}

type VincentyOption func(*solverConfig)

// WithTolerance sets the lambda convergence threshold in radians.
func WithTolerance(e float64) VincentyOption {
	return func(c *solverConfig) { c.tolerance = e }
}

// WithMaxIterations caps the number of solver steps.
func WithMaxIterations(n int) VincentyOption {
	return func(c *solverConfig) { c.maxIterations = n }
}

func NewVincenty(e Ellipsoid, opts ...VincentyOption) Vincenty {
	cfg := solverConfig{
		ellipsoid:     e,
		tolerance:     DefaultTolerance,
		maxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxIterations < 1 {
		cfg.maxIterations = 1
	}
	return Vincenty{cfg: cfg}
}

func (v Vincenty) Ellipsoid() Ellipsoid { return v.cfg.ellipsoid }
func (v Vincenty) Tolerance() float64   { return v.cfg.tolerance }
func (v Vincenty) MaxIterations() int   { return v.cfg.maxIterations }

// Solution holds everything one solver run yields.
type Solution struct {
	Distance       float64
	InitialBearing float64
	FinalBearing   float64
	Iterations     int
	Degenerate     bool
}

// Inverse runs the solver once and evaluates distance and both bearings.
// Degenerate input gives a zero Solution with Degenerate set.
func (v Vincenty) Inverse(from, to domain.LatLng) (Solution, error) {
	s, degenerate, err := solveVincenty(v.cfg, from, to)
	if err != nil {
		return Solution{}, err
	}
	if degenerate {
		return Solution{Iterations: s.n, Degenerate: true}, nil
	}

	return Solution{
		Distance:       v.distance(s),
		InitialBearing: initialAzimuth(s),
		FinalBearing:   finalAzimuth(s),
		Iterations:     s.n,
	}, nil
}

// Distance returns 0 for coincident or meridional antipodal points.
func (v Vincenty) Distance(from, to domain.LatLng) (float64, error) {
	s, degenerate, err := solveVincenty(v.cfg, from, to)
	if err != nil {
		return 0, fmt.Errorf("vincenty distance: %w", err)
	}
	if degenerate {
		return 0, nil
	}
	return v.distance(s), nil
}

// Bearing returns the azimuth at from (x == 0) or the azimuth at to (x == 1).
func (v Vincenty) Bearing(from, to domain.LatLng, x float64) (float64, error) {
	if x != InitialBearing && x != FinalBearing {
		return 0, fmt.Errorf("vincenty bearing x=%v: %w", x, ErrIntermediateBearing)
	}

	s, degenerate, err := solveVincenty(v.cfg, from, to)
	if err != nil {
		return 0, fmt.Errorf("vincenty bearing: %w", err)
	}
	if degenerate {
		return 0, nil
	}

	if x == InitialBearing {
		return initialAzimuth(s), nil
	}
	return finalAzimuth(s), nil
}

func (v Vincenty) distance(s vincentyState) float64 {
	a := v.cfg.ellipsoid.A
	b := v.cfg.ellipsoid.B

	uSq := s.cosSqAlpha * (a*a - b*b) / (b * b)
	bigA := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	bigB := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))

	c2 := s.cos2SigmaM * s.cos2SigmaM
	deltaSigma := bigB * s.sinSigma * (s.cos2SigmaM + bigB/4*(s.cosSigma*(-1+2*c2)-
		bigB/6*s.cos2SigmaM*(-3+4*s.sinSigma*s.sinSigma)*(-3+4*c2)))

	return b * bigA * (s.sigma - deltaSigma)
}

func initialAzimuth(s vincentyState) float64 {
	y := s.cosU2 * s.sinLambda
	x := s.cosU1*s.sinU2 - s.sinU1*s.cosU2*s.cosLambda
	return wrap360(toDegrees(math.Atan2(y, x)))
}

func finalAzimuth(s vincentyState) float64 {
	y := s.cosU1 * s.sinLambda
	x := -s.sinU1*s.cosU2 + s.cosU1*s.sinU2*s.cosLambda
	return wrap360(toDegrees(math.Atan2(y, x)))
}
