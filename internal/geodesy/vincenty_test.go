package geodesy

import (
	"errors"
	"testing"

	"github.com/hofff/geo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/geodesic"
)

func TestVincentyFlindersPeakToBuninyong(t *testing.T) {
	v := NewWGS84Vincenty()

	d, err := v.Distance(flinders, buninyong)
	require.NoError(t, err)
	assert.InDelta(t, 54972.271, d, 1e-3)

	initial, err := v.Bearing(flinders, buninyong, InitialBearing)
	require.NoError(t, err)
	assert.InDelta(t, 306.86816, initial, 1e-5)

	final, err := v.Bearing(flinders, buninyong, FinalBearing)
	require.NoError(t, err)
	assert.InDelta(t, 307.17363, final, 1e-5)
}

func TestVincentyMatchesKarney(t *testing.T) {
	v := NewWGS84Vincenty()
	pairs := [][2]domain.LatLng{
		{flinders, buninyong},
		{london, paris},
		{jfk, narita},
		{sydney, london},
		{narita, sydney},
	}

	for _, p := range pairs {
		var s12, azi1, azi2 float64
		geodesic.WGS84.Inverse(p[0].Lat(), p[0].Lng(), p[1].Lat(), p[1].Lng(), &s12, &azi1, &azi2)

		sol, err := v.Inverse(p[0], p[1])
		require.NoError(t, err, "%s -> %s", p[0], p[1])

		assert.InDelta(t, s12, sol.Distance, 0.01, "distance %s -> %s", p[0], p[1])
		assert.InDelta(t, wrap360(azi1), sol.InitialBearing, 1e-5, "initial %s -> %s", p[0], p[1])
		assert.InDelta(t, wrap360(azi2), sol.FinalBearing, 1e-5, "final %s -> %s", p[0], p[1])
	}
}

func TestVincentyAlongEquator(t *testing.T) {
	v := NewWGS84Vincenty()
	from := domain.MustLatLng(0, 0)
	to := domain.MustLatLng(0, 10)

	sol, err := v.Inverse(from, to)
	require.NoError(t, err)

	assert.False(t, sol.Degenerate)
	assert.InDelta(t, WGS84A*toRadians(10), sol.Distance, 0.01)
	assert.InDelta(t, 90, sol.InitialBearing, 1e-9)
	assert.InDelta(t, 90, sol.FinalBearing, 1e-9)
}

func TestVincentyDegenerateAntipodes(t *testing.T) {
	v := NewWGS84Vincenty()
	pairs := [][2]domain.LatLng{
		{domain.MustLatLng(90, 0), domain.MustLatLng(-90, 0)},
		{domain.MustLatLng(0, 0), domain.MustLatLng(0, 180)},
		{domain.MustLatLng(30, 0), domain.MustLatLng(-30, 180)},
	}

	for _, p := range pairs {
		d, err := v.Distance(p[0], p[1])
		require.NoError(t, err)
		assert.Zero(t, d, "%s -> %s", p[0], p[1])

		for _, x := range []float64{InitialBearing, FinalBearing} {
			b, err := v.Bearing(p[0], p[1], x)
			require.NoError(t, err)
			assert.Zero(t, b)
		}

		sol, err := v.Inverse(p[0], p[1])
		require.NoError(t, err)
		assert.True(t, sol.Degenerate)
		assert.Equal(t, 1, sol.Iterations)
	}
}

func TestVincentyIntermediateBearingNotImplemented(t *testing.T) {
	v := NewWGS84Vincenty()

	_, err := v.Bearing(flinders, buninyong, 0.5)
	require.ErrorIs(t, err, ErrIntermediateBearing)
}

func TestVincentyNoConvergence(t *testing.T) {
	tests := []struct {
		name string
		opts []VincentyOption
		cap  int
	}{
		{"single step", []VincentyOption{WithMaxIterations(1)}, 1},
		{"two steps", []VincentyOption{WithMaxIterations(2)}, 2},
		{"unreachable tolerance", []VincentyOption{WithTolerance(0)}, DefaultMaxIterations},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewWGS84Vincenty(tt.opts...)

			_, err := v.Distance(flinders, buninyong)
			require.ErrorIs(t, err, ErrNoConvergence)
			assert.Contains(t, err.Error(), "-37.95103342,144.42486789")
			assert.Contains(t, err.Error(), "-37.65282338,143.92649552")

			var ce *ConvergenceError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.cap, ce.MaxIterations)
			assert.Equal(t, WGS84, ce.Ellipsoid)
			assert.True(t, ce.From.Equal(flinders))
			assert.True(t, ce.To.Equal(buninyong))

			_, err = v.Bearing(flinders, buninyong, InitialBearing)
			require.ErrorIs(t, err, ErrNoConvergence)

			_, err = v.Inverse(flinders, buninyong)
			require.ErrorIs(t, err, ErrNoConvergence)
		})
	}
}

func TestVincentyNoConvergenceNearAntipodal(t *testing.T) {
	v := NewWGS84Vincenty()

	tests := []struct {
		from, to domain.LatLng
		want     []string
	}{
		{domain.MustLatLng(0, 0), domain.MustLatLng(0.5, 179.7), []string{`"0,0"`, `"0.5,179.7"`}},
		{domain.MustLatLng(-30, 0), domain.MustLatLng(29.9, 179.8), []string{`"-30,0"`, `"29.9,179.8"`}},
	}

	for _, tt := range tests {
		t.Run(tt.to.String(), func(t *testing.T) {
			_, err := v.Distance(tt.from, tt.to)
			require.ErrorIs(t, err, ErrNoConvergence)
			for _, w := range tt.want {
				assert.Contains(t, err.Error(), w)
			}

			var ce *ConvergenceError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, DefaultMaxIterations, ce.MaxIterations)
		})
	}
}

func TestVincentyIterationsAreIndependent(t *testing.T) {
	v := NewWGS84Vincenty()

	first, err := v.Inverse(flinders, buninyong)
	require.NoError(t, err)
	second, err := v.Inverse(flinders, buninyong)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Greater(t, first.Iterations, 1)
	assert.Less(t, first.Iterations, DefaultMaxIterations)
}

func TestNewVincentyOptions(t *testing.T) {
	v := NewWGS84Vincenty()
	assert.Equal(t, DefaultTolerance, v.Tolerance())
	assert.Equal(t, DefaultMaxIterations, v.MaxIterations())
	assert.Equal(t, WGS84, v.Ellipsoid())

	v = NewVincenty(Ellipsoid{A: 1, B: 1, F: 0}, WithTolerance(1e-9), WithMaxIterations(0))
	assert.Equal(t, 1e-9, v.Tolerance())
	assert.Equal(t, 1, v.MaxIterations())
}

func TestConvergenceErrorMessage(t *testing.T) {
	err := &ConvergenceError{
		From:          domain.MustLatLng(1, 2),
		To:            domain.MustLatLng(3, 4),
		Ellipsoid:     Ellipsoid{A: 10, B: 9, F: 0.1},
		Tolerance:     1e-12,
		MaxIterations: 100,
	}

	assert.Equal(t,
		`vincenty iteration failed to converge for points "1,2" and "3,4" (a=10, b=9, f=0.1, e=1e-12, n=100)`,
		err.Error(),
	)
	assert.ErrorIs(t, err, ErrNoConvergence)
}
