package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"strconv"
	"strings"

	"github.com/hofff/geo/internal/domain"
	"github.com/hofff/geo/internal/platform/obs"
	"github.com/hofff/geo/internal/ports"
)

const ORSEndpoint = "https://api.openrouteservice.org"

const defaultORSSize = 5

// ORSGeocoder implements ports.Geocoder using OpenRouteService (/geocode/search).
// It is safe for concurrent use.
type ORSGeocoder struct {
	apiKey string
	size   int
	opts   options
}

func NewORSGeocoder(apiKey string, opts ...Option) (*ORSGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	o := defaultOptions(ORSEndpoint)
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = o.logger.With().Str("client", "ors-geocoder").Logger()

	return &ORSGeocoder{apiKey: apiKey, size: defaultORSSize, opts: o}, nil
}

type orsResponse struct {
	Features []orsFeature `json:"features"`
}

type orsFeature struct {
	BBox     []float64 `json:"bbox"`
	Geometry struct {
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
	Properties struct {
		GID       string `json:"gid"`
		Label     string `json:"label"`
		MatchType string `json:"match_type"`
	} `json:"properties"`
}

func (o *ORSGeocoder) Geocode(ctx context.Context, q ports.GeocodeQuery) iter.Seq2[ports.GeocodeResult, error] {
	return lazySeq(func() ([]ports.GeocodeResult, error) {
		return o.fetch(ctx, q)
	})
}

func (o *ORSGeocoder) newRequest(ctx context.Context, q ports.GeocodeQuery) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.opts.endpoint+"/geocode/search", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/json")

	v := req.URL.Query()
	v.Set("text", normalize(q.Address))
	v.Set("size", strconv.Itoa(o.size))
	if q.Region != "" {
		v.Set("boundary.country", strings.ToUpper(q.Region))
	}
	if q.Bounds != nil {
		sw, ne := q.Bounds.SouthWest(), q.Bounds.NorthEast()
		v.Set("boundary.rect.min_lon", formatCoord(sw.Lng()))
		v.Set("boundary.rect.min_lat", formatCoord(sw.Lat()))
		v.Set("boundary.rect.max_lon", formatCoord(ne.Lng()))
		v.Set("boundary.rect.max_lat", formatCoord(ne.Lat()))
	}
	if q.Language != "" {
		v.Set("lang", q.Language)
	}
	req.URL.RawQuery = v.Encode()

	return req, nil
}

func (o *ORSGeocoder) fetch(ctx context.Context, q ports.GeocodeQuery) (_ []ports.GeocodeResult, err error) {
	defer obs.Time(ctx, "ors.geocode")(&err)

	if normalize(q.Address) == "" {
		return nil, errors.New("ors geocode: address must be non-empty")
	}

	resp, err := o.opts.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, q)
	})
	if err != nil {
		return nil, fmt.Errorf("ors geocode %q: %w", q.Address, err)
	}
	defer resp.Body.Close()

	var decoded orsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("ors geocode %q: decode response: %w", q.Address, err)
	}

	out := make([]ports.GeocodeResult, 0, len(decoded.Features))
	for i, f := range decoded.Features {
		r, err := f.toResult()
		if err != nil {
			return nil, fmt.Errorf("ors geocode %q: feature %d: %w", q.Address, i, err)
		}
		out = append(out, r)
	}

	o.opts.logger.Debug().
		Str("req_id", obs.RequestID(ctx)).
		Int("results", len(out)).
		Msg("geocoded address")

	return out, nil
}

// GeoJSON positions and bboxes are ordered lon, lat.
func (f orsFeature) toResult() (ports.GeocodeResult, error) {
	coords := f.Geometry.Coordinates
	if len(coords) != 2 {
		return ports.GeocodeResult{}, fmt.Errorf("invalid coordinate format %v", coords)
	}

	loc, err := domain.NewLatLng(coords[1], coords[0])
	if err != nil {
		return ports.GeocodeResult{}, err
	}

	r := ports.GeocodeResult{
		FormattedAddress: f.Properties.Label,
		Location:         loc,
		PlaceID:          f.Properties.GID,
		PartialMatch:     f.Properties.MatchType == "fallback",
	}

	if len(f.BBox) == 4 {
		sw, err := domain.NewLatLng(f.BBox[1], f.BBox[0])
		if err != nil {
			return ports.GeocodeResult{}, fmt.Errorf("bbox: %w", err)
		}
		ne, err := domain.NewLatLng(f.BBox[3], f.BBox[2])
		if err != nil {
			return ports.GeocodeResult{}, fmt.Errorf("bbox: %w", err)
		}
		b := domain.NewLatLngBounds(sw, ne)
		r.Bounds = &b
	}

	return r, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
