package domain

// Stop is a named location a route has to visit.
type Stop struct {
	Label    string
	Location LatLng
}

// Represents one leg of a planned route: travel from one stop to the next.
type RouteLeg struct {
	From           Stop
	To             Stop
	DistanceMeters float64
	// Initial bearing in degrees [0, 360) at From.
	Bearing float64
}

// Represents a route visiting every stop once, ordered by a routing heuristic.
// It is immutable planning data and contains no side effects.
type RoutePlan struct {
	Start               Stop
	Legs                []RouteLeg
	ReturnsToStart      bool
	TotalDistanceMeters float64
}

// Order lists the stop labels in visiting order. The start and the closing
// leg back to it are not included.
func (p *RoutePlan) Order() []string {
	legs := p.Legs
	if p.ReturnsToStart && len(legs) > 0 {
		legs = legs[:len(legs)-1]
	}

	out := make([]string, 0, len(legs))
	for _, l := range legs {
		out = append(out, l.To.Label)
	}
	return out
}
