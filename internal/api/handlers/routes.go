package handlers

import (
	"net/http"

	"github.com/hofff/geo/internal/api/dto"
	"github.com/hofff/geo/internal/domain"
	"github.com/hofff/geo/internal/geodesy"
	"github.com/hofff/geo/internal/services"
)

const maxRouteStops = 50

type RouteHandler struct {
	Models   geodesy.Models
	Resolver *services.Resolver
}

// Plan orders the stops with the nearest-neighbor heuristic under the requested model.
// It coordinates place resolution and route computation.
func (h *RouteHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.RouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if len(req.Stops) > maxRouteStops {
		writeError(w, r, http.StatusBadRequest, "too many stops")
		return
	}

	calc, err := h.Models.Calculator(req.Model)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	start, err := toNamedPlace(req.Start)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	svcReq := services.RouteRequest{
		Start:         start,
		Stops:         make([]services.NamedPlace, 0, len(req.Stops)),
		ReturnToStart: req.ReturnToStart,
	}
	for _, s := range req.Stops {
		np, err := toNamedPlace(s)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		svcReq.Stops = append(svcReq.Stops, np)
	}

	plan, err := services.PlanRouteForPlaces(r.Context(), svcReq, h.Resolver, calc)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := dto.RouteResponse{
		Model:               modelName(req.Model),
		Start:               toStopResponse(plan.Start),
		Order:               plan.Order(),
		Legs:                make([]dto.LegResponse, 0, len(plan.Legs)),
		ReturnsToStart:      plan.ReturnsToStart,
		TotalDistanceMeters: plan.TotalDistanceMeters,
	}
	for _, l := range plan.Legs {
		res.Legs = append(res.Legs, dto.LegResponse{
			From:           toStopResponse(l.From),
			To:             toStopResponse(l.To),
			DistanceMeters: l.DistanceMeters,
			Bearing:        l.Bearing,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func toNamedPlace(s dto.RouteStop) (services.NamedPlace, error) {
	p, err := s.Place.ToService()
	if err != nil {
		return services.NamedPlace{}, err
	}
	return services.NamedPlace{Label: s.Label, Place: p}, nil
}

func toStopResponse(s domain.Stop) dto.StopResponse {
	return dto.StopResponse{Label: s.Label, Location: s.Location}
}
