package handlers

import (
	"net/http"

	"github.com/hofff/geo/internal/api/dto"
	"github.com/hofff/geo/internal/domain"
	"github.com/hofff/geo/internal/geodesy"
	"github.com/hofff/geo/internal/services"
)

// GeodesyHandler serves distance, bearing and destination calculations.
type GeodesyHandler struct {
	Models   geodesy.Models
	Resolver *services.Resolver
}

// Distance solves the inverse problem between two places under the requested model.
func (h *GeodesyHandler) Distance(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.DistanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	from, err := req.From.ToService()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	to, err := req.To.ToService()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	calc, err := h.Models.Calculator(req.Model)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	m, err := services.Measure(r.Context(), services.MeasureRequest{From: from, To: to}, h.Resolver, calc)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.DistanceResponse{
		Model:          modelName(req.Model),
		From:           m.From,
		To:             m.To,
		DistanceMeters: m.DistanceMeters,
		InitialBearing: m.InitialBearing,
		FinalBearing:   m.FinalBearing,
	})
}

// Destination solves the direct problem. Only spherical models support it.
func (h *GeodesyHandler) Destination(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.DestinationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Bearing == nil || req.DistanceMeters == nil {
		writeError(w, r, http.StatusBadRequest, "bearing and distance_meters are required")
		return
	}

	nav, err := h.Models.Navigator(req.Model)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	place, err := req.From.ToService()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	from, err := h.Resolver.Locate(r.Context(), place)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	dest, err := nav.Destination(from, *req.Bearing, *req.DistanceMeters)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.DestinationResponse{
		Model:       modelName(req.Model),
		From:        from,
		Destination: dest,
	})
}

// RhumbHandler serves the rhumb-line helpers that work on boxes.
type RhumbHandler struct {
	Rhumb geodesy.Rhumb
}

// Center returns the rhumb midpoint between the southwest and northeast corners.
func (h *RhumbHandler) Center(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var bounds domain.LatLngBounds
	if !decodeJSON(w, r, &bounds) {
		return
	}

	c, err := h.Rhumb.Center(bounds)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.RhumbCenterResponse{Center: c})
}

// Bounds returns the box circumscribing a circle around center.
func (h *RhumbHandler) Bounds(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.RhumbBoundsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Center == nil || req.RadiusMeters == nil {
		writeError(w, r, http.StatusBadRequest, "center and radius_meters are required")
		return
	}
	if *req.RadiusMeters < 0 {
		writeError(w, r, http.StatusBadRequest, "radius_meters must not be negative")
		return
	}

	b, err := h.Rhumb.BoundsOfCircle(*req.Center, *req.RadiusMeters)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.RhumbBoundsResponse{Bounds: b})
}
