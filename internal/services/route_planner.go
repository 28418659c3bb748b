package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/hofff/geo/internal/domain"
	"github.com/hofff/geo/internal/geodesy"
	"github.com/hofff/geo/internal/platform/obs"
)

// Plan a route through every stop using a greedy nearest-neighbor algorithm.
//
// The algorithm minimizes the distance of the next leg at each step under the
// given geodesic model. It does not attempt global route optimization.
// The design prioritizes determinism and simplicity over optimality.
func PlanRoute(
	ctx context.Context,
	start domain.Stop,
	stops []domain.Stop,
	calc geodesy.Calculator,
	returnToStart bool,
) (_ *domain.RoutePlan, err error) {
	defer obs.Time(ctx, "services.PlanRoute")(&err)

	if strings.TrimSpace(start.Label) == "" {
		return nil, errors.New("plan route: start label must be non-empty")
	}

	remaining := make(map[string]domain.Stop, len(stops))
	for _, s := range stops {
		if strings.TrimSpace(s.Label) == "" {
			return nil, errors.New("plan route: stop label must be non-empty")
		}
		if _, dup := remaining[s.Label]; dup || s.Label == start.Label {
			return nil, fmt.Errorf("plan route: duplicate stop label %q", s.Label)
		}
		remaining[s.Label] = s
	}

	plan := &domain.RoutePlan{
		Start:          start,
		Legs:           []domain.RouteLeg{},
		ReturnsToStart: returnToStart && len(stops) > 0,
	}

	current := start
	for len(remaining) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("plan route: %w", err)
		}

		var best domain.Stop
		minDistance := math.Inf(1)

		// Select next stop by minimum leg distance (greedy step).
		for label, s := range remaining {
			d, err := calc.Distance(current.Location, s.Location)
			if err != nil {
				return nil, fmt.Errorf("plan route: distance from %q to %q: %w", current.Label, label, err)
			}
			if math.IsNaN(d) || math.IsInf(d, 0) {
				return nil, fmt.Errorf("plan route: distance from %q to %q: %w", current.Label, label, ErrNonFiniteDistance)
			}
			// Tie-breaker ensures deterministic ordering when distances are equal.
			if d < minDistance || (d == minDistance && (best.Label == "" || label < best.Label)) {
				minDistance = d
				best = s
			}
		}

		if best.Label == "" {
			return nil, fmt.Errorf("plan route: no reachable stop from %q", current.Label)
		}

		leg, err := newLeg(current, best, minDistance, calc)
		if err != nil {
			return nil, fmt.Errorf("plan route: %w", err)
		}
		plan.Legs = append(plan.Legs, leg)
		plan.TotalDistanceMeters += leg.DistanceMeters

		delete(remaining, best.Label)
		current = best
	}

	// Optionally closes the loop back to the start.
	if plan.ReturnsToStart {
		d, err := calc.Distance(current.Location, start.Location)
		if err != nil {
			return nil, fmt.Errorf("plan route: return leg from %q: %w", current.Label, err)
		}
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return nil, fmt.Errorf("plan route: return leg from %q: %w", current.Label, ErrNonFiniteDistance)
		}
		leg, err := newLeg(current, start, d, calc)
		if err != nil {
			return nil, fmt.Errorf("plan route: return leg: %w", err)
		}
		plan.Legs = append(plan.Legs, leg)
		plan.TotalDistanceMeters += leg.DistanceMeters
	}

	return plan, nil
}

func newLeg(from, to domain.Stop, distance float64, calc geodesy.Calculator) (domain.RouteLeg, error) {
	bearing, err := calc.Bearing(from.Location, to.Location, geodesy.InitialBearing)
	if err != nil {
		return domain.RouteLeg{}, fmt.Errorf("bearing from %q to %q: %w", from.Label, to.Label, err)
	}
	return domain.RouteLeg{From: from, To: to, DistanceMeters: distance, Bearing: bearing}, nil
}

// NamedPlace is a route stop before its address has been resolved.
type NamedPlace struct {
	Label string
	Place Place
}

type RouteRequest struct {
	Start         NamedPlace
	Stops         []NamedPlace
	ReturnToStart bool
}

type resolvedStop struct {
	index int
	stop  domain.Stop
	err   error
}

// maxConcurrentLookups bounds parallel geocoder calls per request.
const maxConcurrentLookups = 5

// PlanRouteForPlaces resolves the start and all stops concurrently, then plans the route.
func PlanRouteForPlaces(
	ctx context.Context,
	req RouteRequest,
	resolver *Resolver,
	calc geodesy.Calculator,
) (*domain.RoutePlan, error) {
	places := append([]NamedPlace{req.Start}, req.Stops...)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, maxConcurrentLookups)
	resultsCh := make(chan resolvedStop, len(places))
	var wg sync.WaitGroup

	for i, p := range places {
		wg.Add(1)
		go func() {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			label := strings.TrimSpace(p.Label)
			if label == "" {
				label = p.Place.String()
			}

			loc, err := resolver.Locate(ctx, p.Place)
			if err != nil {
				resultsCh <- resolvedStop{index: i, err: fmt.Errorf("plan route: stop %q: %w", label, err)}
				cancel()
				return
			}
			resultsCh <- resolvedStop{index: i, stop: domain.Stop{Label: label, Location: loc}}
		}()
	}

	wg.Wait()
	close(resultsCh)

	resolved := make([]domain.Stop, len(places))
	var firstErr error
	for res := range resultsCh {
		if res.err != nil {
			// Report the error that caused the cancellation, not the ones it triggered.
			if firstErr == nil || errors.Is(firstErr, context.Canceled) {
				firstErr = res.err
			}
			continue
		}
		resolved[res.index] = res.stop
	}
	if firstErr != nil {
		return nil, firstErr
	}

	return PlanRoute(ctx, resolved[0], resolved[1:], calc, req.ReturnToStart)
}
