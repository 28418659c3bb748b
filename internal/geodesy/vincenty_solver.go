package geodesy

import (
	"errors"
	"fmt"
	"math"

	"github.com/hofff/geo/internal/domain"
)

const (
	DefaultTolerance     = 1e-12
	DefaultMaxIterations = 100

	// sin(sigma) at or below this is rounding noise around zero: the points are
	// coincident or antipodal along a meridian and lambda is undefined.
	degenerateSinSigma = 1e-15
)

// ErrNoConvergence is matched (errors.Is) by every *ConvergenceError.
var ErrNoConvergence = errors.New("vincenty iteration failed to converge")

// ConvergenceError reports a Vincenty inverse that hit its iteration cap.
// It only happens for nearly antipodal points.
type ConvergenceError struct {
	From          domain.LatLng
	To            domain.LatLng
	Ellipsoid     Ellipsoid
	Tolerance     float64
	MaxIterations int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf(
		"vincenty iteration failed to converge for points %q and %q (%s, e=%v, n=%d)",
		e.From, e.To, e.Ellipsoid, e.Tolerance, e.MaxIterations,
	)
}

func (e *ConvergenceError) Is(target error) bool {
	return target == ErrNoConvergence
}

type stepResult int

const (
	stepContinue stepResult = iota
	stepConverged
	stepDegenerate
	stepFailed
)

func (r stepResult) String() string {
	switch r {
	case stepContinue:
		return "continue"
	case stepConverged:
		return "converged"
	case stepDegenerate:
		return "degenerate"
	case stepFailed:
		return "failed"
	}
	return fmt.Sprintf("stepResult(%d)", int(r))
}

// vincentyState is the iteration state on the auxiliary sphere. The reduced
// latitude terms and deltaLng are fixed; the rest is rewritten by every step.
type vincentyState struct {
	n int     // steps taken
	e float64 // |lambda - previous lambda|

	deltaLng float64
	lambda   float64

	sinU1, cosU1 float64
	sinU2, cosU2 float64

	sinLambda, cosLambda float64

	sinSigma   float64
	cosSigma   float64
	sigma      float64
	cosSqAlpha float64
	cos2SigmaM float64
}

type solverConfig struct {
	ellipsoid     Ellipsoid
	tolerance     float64
	maxIterations int
}

func newVincentyState(f float64, from, to domain.LatLng) vincentyState {
	u1 := math.Atan((1 - f) * math.Tan(from.LatRadians()))
	u2 := math.Atan((1 - f) * math.Tan(to.LatRadians()))
	deltaLng := to.LngRadians() - from.LngRadians()

	return vincentyState{
		e:        math.Inf(1),
		deltaLng: deltaLng,
		lambda:   deltaLng,
		sinU1:    math.Sin(u1),
		cosU1:    math.Cos(u1),
		sinU2:    math.Sin(u2),
		cosU2:    math.Cos(u2),
	}
}

// step performs one fixed-point update of lambda and classifies the outcome.
func step(s vincentyState, cfg solverConfig) (vincentyState, stepResult) {
	f := cfg.ellipsoid.F
	s.n++

	s.sinLambda = math.Sin(s.lambda)
	s.cosLambda = math.Cos(s.lambda)

	y := s.cosU2 * s.sinLambda
	x := s.cosU1*s.sinU2 - s.sinU1*s.cosU2*s.cosLambda
	s.sinSigma = math.Sqrt(y*y + x*x)

	if s.sinSigma <= degenerateSinSigma {
		return s, stepDegenerate
	}

	s.cosSigma = s.sinU1*s.sinU2 + s.cosU1*s.cosU2*s.cosLambda
	s.sigma = math.Atan2(s.sinSigma, s.cosSigma)

	sinAlpha := s.cosU1 * s.cosU2 * s.sinLambda / s.sinSigma
	s.cosSqAlpha = 1 - sinAlpha*sinAlpha

	var lambda float64
	if s.cosSqAlpha == 0 {
		// equatorial line
		s.cos2SigmaM = 0
		lambda = s.deltaLng + f*sinAlpha*s.sigma
	} else {
		s.cos2SigmaM = s.cosSigma - 2*s.sinU1*s.sinU2/s.cosSqAlpha
		c := f / 16 * s.cosSqAlpha * (4 + f*(4-3*s.cosSqAlpha))
		d := s.cos2SigmaM + c*s.cosSigma*(-1+2*s.cos2SigmaM*s.cos2SigmaM)
		lambda = s.deltaLng + (1-c)*f*sinAlpha*(s.sigma+c*s.sinSigma*d)
	}

	s.e = math.Abs(lambda - s.lambda)
	s.lambda = lambda

	if s.e < cfg.tolerance {
		return s, stepConverged
	}
	if s.n >= cfg.maxIterations {
		return s, stepFailed
	}
	return s, stepContinue
}

// solveVincenty iterates until convergence. degenerate reports coincident or
// meridional antipodal points, for which the returned state carries no solution.
func solveVincenty(cfg solverConfig, from, to domain.LatLng) (s vincentyState, degenerate bool, err error) {
	s = newVincentyState(cfg.ellipsoid.F, from, to)

	for {
		var res stepResult
		s, res = step(s, cfg)

		switch res {
		case stepConverged:
			return s, false, nil
		case stepDegenerate:
			return s, true, nil
		case stepFailed:
			return s, false, &ConvergenceError{
				From:          from,
				To:            to,
				Ellipsoid:     cfg.ellipsoid,
				Tolerance:     cfg.tolerance,
				MaxIterations: cfg.maxIterations,
			}
		}
	}
}
