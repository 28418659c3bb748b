package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/hofff/geo/internal/domain"
	"github.com/hofff/geo/internal/geodesy"
	"github.com/hofff/geo/internal/platform/metrics"
	"github.com/hofff/geo/internal/platform/obs"
)

type MeasureRequest struct {
	From Place
	To   Place
}

// Measurement is the inverse geodesic problem solved between two places.
type Measurement struct {
	From           domain.LatLng
	To             domain.LatLng
	DistanceMeters float64
	InitialBearing float64
	FinalBearing   float64
}

// Measure resolves both places and computes distance plus initial and final bearing.
func Measure(
	ctx context.Context,
	req MeasureRequest,
	resolver *Resolver,
	calc geodesy.Calculator,
) (_ *Measurement, err error) {
	defer obs.Time(ctx, "services.Measure")(&err)

	from, err := resolver.Locate(ctx, req.From)
	if err != nil {
		return nil, fmt.Errorf("measure: from: %w", err)
	}
	to, err := resolver.Locate(ctx, req.To)
	if err != nil {
		return nil, fmt.Errorf("measure: to: %w", err)
	}

	m := &Measurement{From: from, To: to}

	// Vincenty yields all three values from one solver run.
	if v, ok := calc.(geodesy.Vincenty); ok {
		sol, err := v.Inverse(from, to)
		recordVincenty(sol, err)
		if err != nil {
			return nil, fmt.Errorf("measure: %w", err)
		}
		m.DistanceMeters = sol.Distance
		m.InitialBearing = sol.InitialBearing
		m.FinalBearing = sol.FinalBearing
		return m, nil
	}

	if m.DistanceMeters, err = calc.Distance(from, to); err != nil {
		return nil, fmt.Errorf("measure: distance: %w", err)
	}
	if m.InitialBearing, err = calc.Bearing(from, to, geodesy.InitialBearing); err != nil {
		return nil, fmt.Errorf("measure: initial bearing: %w", err)
	}
	if m.FinalBearing, err = calc.Bearing(from, to, geodesy.FinalBearing); err != nil {
		return nil, fmt.Errorf("measure: final bearing: %w", err)
	}

	return m, nil
}

func recordVincenty(sol geodesy.Solution, err error) {
	outcome := "converged"
	switch {
	case errors.Is(err, geodesy.ErrNoConvergence):
		outcome = "failed"
	case err != nil:
		outcome = "error"
	case sol.Degenerate:
		outcome = "degenerate"
	}
	metrics.VincentyOutcomes.WithLabelValues(outcome).Inc()
}
