package handlers

import (
	"net/http"
	"strings"

	"github.com/hofff/geo/internal/api/dto"
	"github.com/hofff/geo/internal/domain"
	"github.com/hofff/geo/internal/ports"
	"github.com/hofff/geo/internal/services"
)

const maxGeocodeResults = 10

// GeocodeHandler exposes forward geocoding. Geocoder is nil when no provider is configured.
type GeocodeHandler struct {
	Geocoder ports.Geocoder
}

// Geocode lists candidate locations for ?address=, honouring language, region
// and bounds ("swLat,swLng|neLat,neLng") hints.
func (h *GeocodeHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	if h.Geocoder == nil {
		writeServiceError(w, r, services.ErrGeocoderDisabled)
		return
	}

	params := r.URL.Query()
	q := ports.GeocodeQuery{
		Address:  strings.TrimSpace(params.Get("address")),
		Language: params.Get("language"),
		Region:   params.Get("region"),
	}
	if q.Address == "" {
		writeError(w, r, http.StatusBadRequest, "address is required")
		return
	}
	if raw := params.Get("bounds"); raw != "" {
		b, err := domain.ParseLatLngBounds(raw)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		q.Bounds = &b
	}

	res := dto.GeocodeResponse{Results: []dto.GeocodeResult{}}
	for g, err := range h.Geocoder.Geocode(r.Context(), q) {
		if err != nil {
			writeServiceError(w, r, services.WrapGeocodeError(err))
			return
		}
		res.Results = append(res.Results, dto.GeocodeResult{
			FormattedAddress: g.FormattedAddress,
			Location:         g.Location,
			Bounds:           g.Bounds,
			Viewport:         g.Viewport,
			PlaceID:          g.PlaceID,
			PartialMatch:     g.PartialMatch,
		})
		if len(res.Results) == maxGeocodeResults {
			break
		}
	}

	writeJSON(w, r, http.StatusOK, res)
}
