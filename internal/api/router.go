package api

import (
	"net/http"

	"github.com/hofff/geo/internal/api/handlers"
	"github.com/hofff/geo/internal/geodesy"
	"github.com/hofff/geo/internal/platform/metrics"
	"github.com/hofff/geo/internal/ports"
	"github.com/hofff/geo/internal/services"
	"github.com/rs/zerolog"
)

// Deps are the collaborators the HTTP surface needs. Geocoder may be nil.
type Deps struct {
	Models   geodesy.Models
	Geocoder ports.Geocoder
	Logger   zerolog.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	resolver := services.NewResolver(deps.Geocoder)

	geo := &handlers.GeodesyHandler{Models: deps.Models, Resolver: resolver}
	rhumb := &handlers.RhumbHandler{Rhumb: deps.Models.Rhumb()}
	geocode := &handlers.GeocodeHandler{Geocoder: deps.Geocoder}
	routes := &handlers.RouteHandler{Models: deps.Models, Resolver: resolver}
	health := &handlers.HealthHandler{GeocoderEnabled: deps.Geocoder != nil}

	mux.HandleFunc("/health", health.Health)
	mux.HandleFunc("/v1/distance", geo.Distance)
	mux.HandleFunc("/v1/destination", geo.Destination)
	mux.HandleFunc("/v1/rhumb/center", rhumb.Center)
	mux.HandleFunc("/v1/rhumb/bounds", rhumb.Bounds)
	mux.HandleFunc("/v1/geocode", geocode.Geocode)
	mux.HandleFunc("/v1/routes", routes.Plan)
	mux.Handle("/metrics", metrics.Handler())

	return requestMiddleware(deps.Logger, mux)
}
