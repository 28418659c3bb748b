package dto

import "github.com/hofff/geo/internal/domain"

type RouteStop struct {
	Label string `json:"label"`
	Place
}

type RouteRequest struct {
	Start         RouteStop   `json:"start"`
	Stops         []RouteStop `json:"stops"`
	Model         string      `json:"model"`
	ReturnToStart bool        `json:"return_to_start"`
}

type StopResponse struct {
	Label    string        `json:"label"`
	Location domain.LatLng `json:"location"`
}

type LegResponse struct {
	From           StopResponse `json:"from"`
	To             StopResponse `json:"to"`
	DistanceMeters float64      `json:"distance_meters"`
	Bearing        float64      `json:"bearing"`
}

type RouteResponse struct {
	Model               string        `json:"model"`
	Start               StopResponse  `json:"start"`
	Order               []string      `json:"order"`
	Legs                []LegResponse `json:"legs"`
	ReturnsToStart      bool          `json:"returns_to_start"`
	TotalDistanceMeters float64       `json:"total_distance_meters"`
}
