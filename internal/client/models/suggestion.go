package models

// Suggestion is one location-autocomplete result. Coordinates are present
// only when the caller asked for the label+coordinates variant.
type Suggestion struct {
	Label     string
	Latitude  float64
	Longitude float64
	HasCoords bool
}
