package handlers

import (
	"net/http"

	"github.com/hofff/geo/internal/geodesy"
)

// HealthHandler reports liveness together with what this instance can serve.
type HealthHandler struct {
	GeocoderEnabled bool
}

type healthResponse struct {
	Status   string   `json:"status"`
	Models   []string `json:"models"`
	Geocoder bool     `json:"geocoder"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	writeJSON(w, r, http.StatusOK, healthResponse{
		Status:   "ok",
		Models:   geodesy.Names(),
		Geocoder: h.GeocoderEnabled,
	})
}
