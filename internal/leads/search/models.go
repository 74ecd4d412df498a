// internal/leads/search/models.go
package search

import "leadgen/internal/models"

// Request is one search invocation.
type Request struct {
	Term     string
	Location string
	// UserGeo is the device position; only used for the near-me descriptor.
	UserGeo *models.GeoLocation
	// ExcludeNames lists names already shown; non-empty means "load more".
	ExcludeNames []string
	// Coords are explicit coordinates, e.g. from a map area search. They win over UserGeo.
	Coords *models.GeoLocation
}

// Kind labels the request for metrics and logs.
func (r Request) Kind() string {
	switch {
	case r.Coords != nil:
		return "area"
	case len(r.ExcludeNames) > 0:
		return "load_more"
	default:
		return "fresh"
	}
}

// Prompt is everything the generator needs for one call.
type Prompt struct {
	Text              string
	SystemInstruction string
	// Grounding is passed to the maps tool as a structured lat/lng hint.
	Grounding *models.GeoLocation
}
