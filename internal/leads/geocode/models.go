// internal/leads/geocode/models.go
package geocode

import (
	"strconv"
	"strings"

	"leadgen/internal/common/validation"
	"leadgen/internal/models"
)

// searchResult is one entry of a Nominatim /search response.
type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (r searchResult) location() (models.GeoLocation, bool) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return models.GeoLocation{}, false
	}
	lng, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return models.GeoLocation{}, false
	}
	if !validation.ValidLatLng(lat, lng) {
		return models.GeoLocation{}, false
	}
	return models.GeoLocation{Lat: lat, Lng: lng}, true
}

// reverseResult is a Nominatim /reverse response.
type reverseResult struct {
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address"`
	Error       string            `json:"error"`
}

// label prefers "<neighbourhood>, <city>" over the full display name.
func (r reverseResult) label() string {
	area := first(r.Address, "neighbourhood", "suburb", "quarter", "road")
	city := first(r.Address, "city", "town", "village", "county", "state")

	parts := make([]string, 0, 2)
	if area != "" {
		parts = append(parts, area)
	}
	if city != "" && city != area {
		parts = append(parts, city)
	}
	if len(parts) > 0 {
		return strings.Join(parts, ", ")
	}
	return strings.TrimSpace(r.DisplayName)
}

func first(m map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(m[k]); v != "" {
			return v
		}
	}
	return ""
}
