// internal/leads/search/prompt.go
package search

import (
	"fmt"
	"strings"

	"leadgen/internal/leads/parser"
	"leadgen/internal/models"
)

// BuildPrompt turns a request into the instruction text and grounding hint.
func BuildPrompt(req Request, country string) Prompt {
	isLoadMore := len(req.ExcludeNames) > 0
	grounding := groundingFor(req)

	var parts []string

	if models.IsRoute(req.Location) {
		parts = append(parts, fmt.Sprintf(
			"Search for \"%s\" businesses located along the route or area %s (%s). Focus on finding businesses situated geographically between the two points.",
			req.Term, req.Location, country))
	} else {
		parts = append(parts, fmt.Sprintf("Search for \"%s\" in \"%s\" (%s).", req.Term, req.Location, country))
	}

	switch {
	case req.Coords != nil:
		parts = append(parts, fmt.Sprintf(
			"Focus on the map area centered at Lat: %s, Lng: %s. Search around this coordinate.",
			formatCoord(req.Coords.Lat), formatCoord(req.Coords.Lng)))
	case grounding != nil:
		parts = append(parts, fmt.Sprintf(
			"The user is located at Lat: %s, Lng: %s. Search around this coordinate.",
			formatCoord(grounding.Lat), formatCoord(grounding.Lng)))
	}

	if isLoadMore {
		parts = append(parts, fmt.Sprintf(
			"The following businesses have already been listed, DO NOT include them again: %s.",
			strings.Join(req.ExcludeNames, ", ")))
		parts = append(parts,
			"Expand the search area to surrounding neighborhoods or a wider radius to find new results not listed above.")
	}

	parts = append(parts, "",
		"List as many distinct local businesses as you can find using Google Maps.",
		"",
		"IMPORTANT: You must format the output strictly as follows for my parser to work.",
		"Do not use JSON blocks. Use this plain text template for each business:",
		"",
		outputTemplate(),
		"",
		"Ensure accurate contact details and coordinates where available from the map data.")

	return Prompt{
		Text:              strings.Join(parts, "\n"),
		SystemInstruction: fmt.Sprintf("You are a lead generation assistant for %s. You extract business details accurately using Google Maps.", country),
		Grounding:         grounding,
	}
}

// groundingFor applies coordinate precedence: explicit coordinates, then the
// device position when the descriptor is the near-me sentinel.
func groundingFor(req Request) *models.GeoLocation {
	if req.Coords != nil {
		c := *req.Coords
		return &c
	}
	if req.UserGeo != nil && models.IsNearMe(req.Location) {
		g := *req.UserGeo
		return &g
	}
	return nil
}

func outputTemplate() string {
	placeholders := map[string]string{
		parser.FieldName:        "<Business Name>",
		parser.FieldAddress:     "<Full Address>",
		parser.FieldPhone:       "<Phone Number or N/A>",
		parser.FieldRating:      "<Rating ex: 4.5/5 or N/A>",
		parser.FieldWebsite:     "<Website URL or N/A>",
		parser.FieldDescription: "<Short 1 sentence description>",
		parser.FieldLatitude:    "<Decimal latitude or N/A>",
		parser.FieldLongitude:   "<Decimal longitude or N/A>",
	}

	lines := []string{parser.StartMarker}
	for _, f := range parser.Fields {
		lines = append(lines, fmt.Sprintf("%s: %s", f, placeholders[f]))
	}
	lines = append(lines, parser.EndMarker)
	return strings.Join(lines, "\n")
}

func formatCoord(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.6f", v), "0"), ".")
}
