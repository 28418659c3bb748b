package geodesy

import "github.com/hofff/geo/internal/domain"

var (
	london    = domain.MustLatLng(51.5007, -0.1246)
	paris     = domain.MustLatLng(48.8566, 2.3522)
	flinders  = domain.MustLatLng(-37.95103342, 144.42486789)
	buninyong = domain.MustLatLng(-37.65282338, 143.92649552)
	jfk       = domain.MustLatLng(40.6413, -73.7781)
	sydney    = domain.MustLatLng(-33.9399, 151.1753)
	narita    = domain.MustLatLng(35.7720, 140.3929)
	dover     = domain.MustLatLng(51.127, 1.338)
	calais    = domain.MustLatLng(50.964, 1.853)
)
