package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"iter"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hofff/geo/internal/domain"
	"github.com/hofff/geo/internal/geodesy"
	"github.com/hofff/geo/internal/ports"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder map[string][]ports.GeocodeResult

var errStubDown = errors.New("stub geocoder down")

func (s stubGeocoder) Geocode(ctx context.Context, q ports.GeocodeQuery) iter.Seq2[ports.GeocodeResult, error] {
	return func(yield func(ports.GeocodeResult, error) bool) {
		if q.Address == "down" {
			yield(ports.GeocodeResult{}, errStubDown)
			return
		}
		for _, r := range s[q.Address] {
			if !yield(r, nil) {
				return
			}
		}
	}
}

func testGeocoder() stubGeocoder {
	return stubGeocoder{
		"Buninyong": {{FormattedAddress: "Buninyong VIC, Australia", Location: domain.MustLatLng(-37.65282338, 143.92649552), PlaceID: "b"}},
		"Alpha":     {{FormattedAddress: "Alpha", Location: domain.MustLatLng(0, 1)}},
		"Beta":      {{FormattedAddress: "Beta", Location: domain.MustLatLng(0, 2)}},
	}
}

func newTestRouter(geocoder ports.Geocoder, opts ...geodesy.VincentyOption) http.Handler {
	return NewRouter(Deps{
		Models:   geodesy.NewModels(geodesy.EarthRadius, geodesy.WGS84, opts...),
		Geocoder: geocoder,
		Logger:   zerolog.Nop(),
	})
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, bytes.NewReader([]byte(body))))

	var out map[string]any
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func TestHealth(t *testing.T) {
	h := newTestRouter(nil)

	rec, body := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, []any{"haversine", "rhumb", "vincenty"}, body["models"])
	assert.Equal(t, false, body["geocoder"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec, _ = do(t, h, http.MethodPost, "/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestRequestIDIsPropagated(t *testing.T) {
	h := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
}

func TestDistanceVincenty(t *testing.T) {
	h := newTestRouter(testGeocoder())

	rec, body := do(t, h, http.MethodPost, "/v1/distance", `{
		"from": {"lat": -37.95103342, "lng": 144.42486789},
		"to": {"address": "Buninyong"},
		"model": "vincenty"
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "vincenty", body["model"])
	assert.InDelta(t, 54972.271, body["distance_meters"], 1e-3)
	assert.InDelta(t, 306.86816, body["initial_bearing"], 1e-5)
	assert.InDelta(t, 307.17363, body["final_bearing"], 1e-5)
	assert.Equal(t, map[string]any{"lat": -37.65282338, "lng": 143.92649552}, body["to"])
}

func TestDistanceDefaultsToHaversine(t *testing.T) {
	h := newTestRouter(nil)

	rec, body := do(t, h, http.MethodPost, "/v1/distance", `{
		"from": {"lat": 51.5007, "lng": -0.1246},
		"to": {"lat": 48.8566, "lng": 2.3522}
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "haversine", body["model"])
	assert.InEpsilon(t, 343556, body["distance_meters"], 0.005)
}

func TestDistanceErrors(t *testing.T) {
	tests := []struct {
		name   string
		router http.Handler
		body   string
		status int
	}{
		{"unknown model", newTestRouter(nil), `{"from": {"lat": 0, "lng": 0}, "to": {"lat": 1, "lng": 1}, "model": "andoyer"}`, http.StatusBadRequest},
		{"half a coordinate", newTestRouter(nil), `{"from": {"lat": 0}, "to": {"lat": 1, "lng": 1}}`, http.StatusBadRequest},
		{"empty place", newTestRouter(nil), `{"from": {}, "to": {"lat": 1, "lng": 1}}`, http.StatusBadRequest},
		{"unknown field", newTestRouter(nil), `{"from": {"lat": 0, "lng": 0}, "to": {"lat": 1, "lng": 1}, "x": 1}`, http.StatusBadRequest},
		{"not json", newTestRouter(nil), `{`, http.StatusBadRequest},
		{"two objects", newTestRouter(nil), `{"from": {"lat": 0, "lng": 0}, "to": {"lat": 1, "lng": 1}} {}`, http.StatusBadRequest},
		{"address without geocoder", newTestRouter(nil), `{"from": {"address": "Buninyong"}, "to": {"lat": 1, "lng": 1}}`, http.StatusServiceUnavailable},
		{"address not found", newTestRouter(testGeocoder()), `{"from": {"address": "Atlantis"}, "to": {"lat": 1, "lng": 1}}`, http.StatusNotFound},
		{"geocoder down", newTestRouter(testGeocoder()), `{"from": {"address": "down"}, "to": {"lat": 1, "lng": 1}}`, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, tt.router, http.MethodPost, "/v1/distance", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestDistanceNonConvergence(t *testing.T) {
	h := newTestRouter(nil, geodesy.WithMaxIterations(1))

	rec, body := do(t, h, http.MethodPost, "/v1/distance", `{
		"from": {"lat": -37.95103342, "lng": 144.42486789},
		"to": {"lat": -37.65282338, "lng": 143.92649552},
		"model": "vincenty"
	}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, body["error"], "-37.95103342,144.42486789")
	assert.Contains(t, body["error"], "-37.65282338,143.92649552")
}

func TestDestination(t *testing.T) {
	h := newTestRouter(nil)

	rec, body := do(t, h, http.MethodPost, "/v1/destination", `{
		"from": {"lat": 0, "lng": 170},
		"bearing": 90,
		"distance_meters": 2223898.532891175,
		"model": "rhumb"
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	dest := body["destination"].(map[string]any)
	assert.InDelta(t, 0, dest["lat"], 1e-6)
	assert.InDelta(t, -170, dest["lng"], 1e-6)
}

func TestDestinationErrors(t *testing.T) {
	h := newTestRouter(nil)

	rec, _ := do(t, h, http.MethodPost, "/v1/destination", `{"from": {"lat": 0, "lng": 0}, "bearing": 90, "distance_meters": 1, "model": "vincenty"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/v1/destination", `{"from": {"lat": 0, "lng": 0}, "bearing": 90}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRhumbCenter(t *testing.T) {
	h := newTestRouter(nil)

	rec, body := do(t, h, http.MethodPost, "/v1/rhumb/center", `{
		"southwest": {"lat": -10, "lng": -10},
		"northeast": {"lat": 10, "lng": 10}
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	center := body["center"].(map[string]any)
	assert.InDelta(t, 0, center["lat"], 1e-9)
	assert.InDelta(t, 0, center["lng"], 1e-9)

	rec, _ = do(t, h, http.MethodPost, "/v1/rhumb/center", `{"southwest": {"lat": -10, "lng": -10}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRhumbBounds(t *testing.T) {
	h := newTestRouter(nil)

	rec, body := do(t, h, http.MethodPost, "/v1/rhumb/bounds", `{"center": {"lat": 0, "lng": 0}, "radius_meters": 1000}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	bounds := body["bounds"].(map[string]any)
	sw := bounds["southwest"].(map[string]any)
	ne := bounds["northeast"].(map[string]any)
	assert.Less(t, sw["lat"], 0.0)
	assert.Less(t, sw["lng"], 0.0)
	assert.Greater(t, ne["lat"], 0.0)
	assert.Greater(t, ne["lng"], 0.0)

	rec, _ = do(t, h, http.MethodPost, "/v1/rhumb/bounds", `{"center": {"lat": 0, "lng": 0}, "radius_meters": -1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGeocode(t *testing.T) {
	h := newTestRouter(testGeocoder())

	rec, body := do(t, h, http.MethodGet, "/v1/geocode?address=Buninyong&bounds=-38,143%7C-37,144", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	results := body["results"].([]any)
	require.Len(t, results, 1)
	first := results[0].(map[string]any)
	assert.Equal(t, "Buninyong VIC, Australia", first["formatted_address"])
	assert.Equal(t, "b", first["place_id"])

	rec, body = do(t, h, http.MethodGet, "/v1/geocode?address=Atlantis", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body["results"])
}

func TestGeocodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		geocoder ports.Geocoder
		target   string
		status   int
	}{
		{"no geocoder", nil, "/v1/geocode?address=x", http.StatusServiceUnavailable},
		{"missing address", testGeocoder(), "/v1/geocode", http.StatusBadRequest},
		{"bad bounds", testGeocoder(), "/v1/geocode?address=x&bounds=1,2", http.StatusBadRequest},
		{"geocoder down", testGeocoder(), "/v1/geocode?address=down", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := do(t, newTestRouter(tt.geocoder), http.MethodGet, tt.target, "")
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestRoutes(t *testing.T) {
	h := newTestRouter(testGeocoder())

	rec, body := do(t, h, http.MethodPost, "/v1/routes", `{
		"start": {"label": "hub", "lat": 0, "lng": 0},
		"stops": [
			{"address": "Beta"},
			{"label": "first", "address": "Alpha"},
			{"label": "far", "lat": 0, "lng": 5}
		],
		"return_to_start": true
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "haversine", body["model"])
	assert.Equal(t, []any{"first", "Beta", "far"}, body["order"])
	assert.Equal(t, true, body["returns_to_start"])
	assert.Len(t, body["legs"], 4)

	degree := geodesy.EarthRadius * 3.141592653589793 / 180
	assert.InDelta(t, 10*degree, body["total_distance_meters"], 1e-6)
}

func TestRoutesErrors(t *testing.T) {
	h := newTestRouter(testGeocoder())

	rec, _ := do(t, h, http.MethodPost, "/v1/routes", `{"start": {"label": "hub", "lat": 0, "lng": 0}, "stops": [{"address": "Atlantis"}]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/v1/routes", `{"start": {"label": "hub", "lat": 0, "lng": 0}, "stops": [], "model": "x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/v1/routes", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(nil)
	do(t, h, http.MethodGet, "/health", "")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `geo_http_requests_total{method="GET",path="/health",status="200"}`)
}
