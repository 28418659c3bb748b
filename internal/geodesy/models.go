package geodesy

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUnknownModel = errors.New("unknown geodesic model")

// Model names accepted by Models.
const (
	ModelHaversine = "haversine"
	ModelRhumb     = "rhumb"
	ModelVincenty  = "vincenty"
)

// Models resolves a model name to its configured calculator.
type Models struct {
	haversine Haversine
	rhumb     Rhumb
	vincenty  Vincenty
}

// NewModels configures the spherical models with radius and Vincenty with e.
func NewModels(radius float64, e Ellipsoid, opts ...VincentyOption) Models {
	return Models{
		haversine: NewHaversine(radius),
		rhumb:     NewRhumb(radius),
		vincenty:  NewVincenty(e, opts...),
	}
}

func (m Models) Haversine() Haversine { return m.haversine }
func (m Models) Rhumb() Rhumb         { return m.rhumb }
func (m Models) Vincenty() Vincenty   { return m.vincenty }

// Calculator looks a model up by name. An empty name selects haversine.
func (m Models) Calculator(name string) (Calculator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ModelHaversine:
		return m.haversine, nil
	case ModelRhumb:
		return m.rhumb, nil
	case ModelVincenty:
		return m.vincenty, nil
	}
	return nil, fmt.Errorf("model %q (want one of %s): %w", name, strings.Join(Names(), ", "), ErrUnknownModel)
}

// Navigator looks up a model that can solve the direct problem.
func (m Models) Navigator(name string) (Navigator, error) {
	c, err := m.Calculator(name)
	if err != nil {
		return nil, err
	}
	n, ok := c.(Navigator)
	if !ok {
		return nil, fmt.Errorf("model %q has no destination operation: %w", name, ErrUnknownModel)
	}
	return n, nil
}

func Names() []string {
	names := []string{ModelHaversine, ModelRhumb, ModelVincenty}
	sort.Strings(names)
	return names
}
