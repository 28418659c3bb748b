package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"net/url"

	"github.com/hofff/geo/internal/domain"
	"github.com/hofff/geo/internal/platform/obs"
	"github.com/hofff/geo/internal/ports"
)

const GoogleEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"

// Google Geocoding API response statuses.
const (
	StatusOK             = "OK"
	StatusZeroResults    = "ZERO_RESULTS"
	StatusOverQueryLimit = "OVER_QUERY_LIMIT"
	StatusRequestDenied  = "REQUEST_DENIED"
	StatusInvalidRequest = "INVALID_REQUEST"
	StatusUnknownError   = "UNKNOWN_ERROR"
)

const redactedKey = "REDACTED"

// StatusError is a non-OK, non-ZERO_RESULTS answer from the Google API.
// URL has the API key redacted.
type StatusError struct {
	Status  string
	Message string
	URL     string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("google geocoder: status %s (%s)", e.Status, e.URL)
	}
	return fmt.Sprintf("google geocoder: status %s: %s (%s)", e.Status, e.Message, e.URL)
}

// GoogleGeocoder implements ports.Geocoder with the Google Geocoding API.
// It is safe for concurrent use.
type GoogleGeocoder struct {
	apiKey string
	opts   options
}

func NewGoogleGeocoder(apiKey string, opts ...Option) (*GoogleGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("google api key is empty")
	}

	o := defaultOptions(GoogleEndpoint)
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = o.logger.With().Str("client", "google-geocoder").Logger()

	return &GoogleGeocoder{apiKey: apiKey, opts: o}, nil
}

type googleResponse struct {
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message"`
	Results      []googleResult `json:"results"`
}

// Google's lat/lng and northeast/southwest objects match the domain JSON forms.
type googleResult struct {
	FormattedAddress string `json:"formatted_address"`
	Geometry         struct {
		Location domain.LatLng        `json:"location"`
		Bounds   *domain.LatLngBounds `json:"bounds"`
		Viewport *domain.LatLngBounds `json:"viewport"`
	} `json:"geometry"`
	PlaceID      string `json:"place_id"`
	PartialMatch bool   `json:"partial_match"`
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, q ports.GeocodeQuery) iter.Seq2[ports.GeocodeResult, error] {
	return lazySeq(func() ([]ports.GeocodeResult, error) {
		return g.fetch(ctx, q)
	})
}

// RequestURL is the URL a query is sent to, with the API key redacted.
func (g *GoogleGeocoder) RequestURL(q ports.GeocodeQuery) string {
	return g.buildURL(q, redactedKey)
}

func (g *GoogleGeocoder) buildURL(q ports.GeocodeQuery, key string) string {
	v := url.Values{}
	v.Set("key", key)
	v.Set("address", normalize(q.Address))
	if q.Bounds != nil {
		v.Set("bounds", q.Bounds.String())
	}
	if q.Language != "" {
		v.Set("language", q.Language)
	}
	if q.Region != "" {
		v.Set("region", q.Region)
	}
	return g.opts.endpoint + "?" + v.Encode()
}

func (g *GoogleGeocoder) fetch(ctx context.Context, q ports.GeocodeQuery) (_ []ports.GeocodeResult, err error) {
	defer obs.Time(ctx, "google.geocode")(&err)

	if normalize(q.Address) == "" {
		return nil, errors.New("google geocode: address must be non-empty")
	}

	target := g.buildURL(q, g.apiKey)

	resp, err := g.opts.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("google geocode %q: %w", q.Address, err)
	}
	defer resp.Body.Close()

	var decoded googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("google geocode %q: decode response: %w", q.Address, err)
	}

	switch decoded.Status {
	case StatusOK:
	case StatusZeroResults:
		return nil, nil
	default:
		return nil, &StatusError{
			Status:  decoded.Status,
			Message: decoded.ErrorMessage,
			URL:     g.RequestURL(q),
		}
	}

	out := make([]ports.GeocodeResult, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		out = append(out, ports.GeocodeResult{
			FormattedAddress: r.FormattedAddress,
			Location:         r.Geometry.Location,
			Bounds:           r.Geometry.Bounds,
			Viewport:         r.Geometry.Viewport,
			PlaceID:          r.PlaceID,
			PartialMatch:     r.PartialMatch,
		})
	}

	g.opts.logger.Debug().
		Str("req_id", obs.RequestID(ctx)).
		Int("results", len(out)).
		Msg("geocoded address")

	return out, nil
}
