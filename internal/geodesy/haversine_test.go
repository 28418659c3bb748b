package geodesy

import (
	"math"
	"testing"

	"github.com/golang/geo/s2"
	"github.com/hofff/geo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineDistanceLondonParis(t *testing.T) {
	h := NewHaversine(6371000)

	d, err := h.Distance(london, paris)
	require.NoError(t, err)

	assert.InEpsilon(t, 343556, d, 0.005)
}

func TestHaversineDistanceMatchesS2(t *testing.T) {
	h := NewWGS84Haversine()
	pairs := [][2]domain.LatLng{{london, paris}, {jfk, narita}, {sydney, london}, {flinders, buninyong}}

	for _, p := range pairs {
		want := s2.LatLngFromDegrees(p[0].Lat(), p[0].Lng()).
			Distance(s2.LatLngFromDegrees(p[1].Lat(), p[1].Lng())).Radians() * EarthRadius

		got, err := h.Distance(p[0], p[1])
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-3, "%s -> %s", p[0], p[1])
	}
}

func TestHaversineDistanceAntipodalIsFinite(t *testing.T) {
	h := NewWGS84Haversine()
	halfCircumference := math.Pi * EarthRadius

	d, err := h.Distance(domain.MustLatLng(-86.78, 10), domain.MustLatLng(86.78, -170))
	require.NoError(t, err)
	assert.InDelta(t, halfCircumference, d, 1)

	for lat := -89.9; lat <= 89.9; lat += 0.37 {
		for lng := 0.0; lng < 180; lng += 1.13 {
			from := domain.MustLatLng(lat, lng)
			to := domain.MustLatLng(-lat, lng-180)

			d, err := h.Distance(from, to)
			require.NoError(t, err)
			if math.IsNaN(d) || math.IsInf(d, 0) {
				t.Fatalf("Distance(%s, %s) = %v, want finite", from, to, d)
			}
			assert.InDelta(t, halfCircumference, d, 1, "%s -> %s", from, to)
		}
	}
}

func TestHaversineDistanceIsSymmetric(t *testing.T) {
	h := NewWGS84Haversine()

	ab, err := h.Distance(jfk, narita)
	require.NoError(t, err)
	ba, err := h.Distance(narita, jfk)
	require.NoError(t, err)

	assert.InDelta(t, ab, ba, 1e-6)
}

func TestHaversineBearing(t *testing.T) {
	h := NewWGS84Haversine()

	tests := []struct {
		name     string
		from, to domain.LatLng
		x        float64
		want     float64
		delta    float64
	}{
		{"due north", domain.MustLatLng(0, 0), domain.MustLatLng(10, 0), InitialBearing, 0, 1e-9},
		{"due east on equator", domain.MustLatLng(0, 0), domain.MustLatLng(0, 10), InitialBearing, 90, 1e-9},
		{"due south", domain.MustLatLng(10, 0), domain.MustLatLng(0, 0), InitialBearing, 180, 1e-9},
		{"due west on equator", domain.MustLatLng(0, 10), domain.MustLatLng(0, 0), InitialBearing, 270, 1e-9},
		{"final on equator", domain.MustLatLng(0, 0), domain.MustLatLng(0, 10), FinalBearing, 90, 1e-9},
		{"london to paris", london, paris, InitialBearing, 148.1, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := h.Bearing(tt.from, tt.to, tt.x)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, b, tt.delta)
		})
	}
}

func TestHaversineFinalBearingIsReverseInitialTurned(t *testing.T) {
	h := NewWGS84Haversine()

	final, err := h.Bearing(jfk, narita, FinalBearing)
	require.NoError(t, err)
	reverse, err := h.Bearing(narita, jfk, InitialBearing)
	require.NoError(t, err)

	want := reverse + 180
	if want >= 360 {
		want -= 360
	}
	assert.InDelta(t, want, final, 1e-9)
}

func TestHaversineIntermediateBearingNotImplemented(t *testing.T) {
	h := NewWGS84Haversine()

	for _, x := range []float64{0.5, 0.25, -1, 2} {
		b, err := h.Bearing(london, paris, x)
		require.ErrorIs(t, err, ErrIntermediateBearing, "x=%v", x)
		assert.Zero(t, b)
	}
}

func TestHaversineDestination(t *testing.T) {
	h := NewWGS84Haversine()

	quarter := EarthRadius * 3.141592653589793 / 2
	p, err := h.Destination(domain.MustLatLng(0, 0), 90, quarter)
	require.NoError(t, err)
	assert.InDelta(t, 0, p.Lat(), 1e-9)
	assert.InDelta(t, 90, p.Lng(), 1e-9)
}

func TestHaversineDestinationRoundTrip(t *testing.T) {
	h := NewWGS84Haversine()

	bearing, err := h.Bearing(london, paris, InitialBearing)
	require.NoError(t, err)
	distance, err := h.Distance(london, paris)
	require.NoError(t, err)

	p, err := h.Destination(london, bearing, distance)
	require.NoError(t, err)
	assert.InDelta(t, paris.Lat(), p.Lat(), 1e-6)
	assert.InDelta(t, paris.Lng(), p.Lng(), 1e-6)
}

func TestHaversineDestinationWrapsLongitude(t *testing.T) {
	h := NewWGS84Haversine()

	twentyDegrees := EarthRadius * toRadians(20)
	p, err := h.Destination(domain.MustLatLng(0, 170), 90, twentyDegrees)
	require.NoError(t, err)

	assert.InDelta(t, 0, p.Lat(), 1e-9)
	assert.InDelta(t, -170, p.Lng(), 1e-9)
}
