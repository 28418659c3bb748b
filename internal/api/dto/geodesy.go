package dto

import "github.com/hofff/geo/internal/domain"

type DistanceRequest struct {
	From  Place  `json:"from"`
	To    Place  `json:"to"`
	Model string `json:"model"`
}

type DistanceResponse struct {
	Model          string        `json:"model"`
	From           domain.LatLng `json:"from"`
	To             domain.LatLng `json:"to"`
	DistanceMeters float64       `json:"distance_meters"`
	InitialBearing float64       `json:"initial_bearing"`
	FinalBearing   float64       `json:"final_bearing"`
}

type DestinationRequest struct {
	From           Place    `json:"from"`
	Bearing        *float64 `json:"bearing"`
	DistanceMeters *float64 `json:"distance_meters"`
	Model          string   `json:"model"`
}

type DestinationResponse struct {
	Model       string        `json:"model"`
	From        domain.LatLng `json:"from"`
	Destination domain.LatLng `json:"destination"`
}

type RhumbCenterResponse struct {
	Center domain.LatLng `json:"center"`
}

type RhumbBoundsRequest struct {
	Center       *domain.LatLng `json:"center"`
	RadiusMeters *float64       `json:"radius_meters"`
}

type RhumbBoundsResponse struct {
	Bounds domain.LatLngBounds `json:"bounds"`
}
