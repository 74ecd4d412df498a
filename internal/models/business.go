// internal/models/business.go
package models

import (
	"net/url"
	"strings"
)

// NotAvailable marks a field the model could not supply.
const NotAvailable = "N/A"

// Business is one search result.
type Business struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone"`
	Rating      string   `json:"rating"`
	Website     string   `json:"website"`
	Description string   `json:"description"`
	MapLink     string   `json:"mapLink"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
}

// HasCoordinates reports whether the record can be placed on a map.
func (b Business) HasCoordinates() bool {
	return b.Lat != nil && b.Lng != nil
}

// Position returns the record's coordinates. Only valid when HasCoordinates is true.
func (b Business) Position() GeoLocation {
	if !b.HasCoordinates() {
		return GeoLocation{}
	}
	return GeoLocation{Lat: *b.Lat, Lng: *b.Lng}
}

// MatchesFilter is a case-insensitive substring match on name or address.
func (b Business) MatchesFilter(filter string) bool {
	f := strings.ToLower(filter)
	return strings.Contains(strings.ToLower(b.Address), f) ||
		strings.Contains(strings.ToLower(b.Name), f)
}

// IsAvailable reports whether a free-text field carries a real value.
func IsAvailable(v string) bool {
	return v != "" && v != NotAvailable
}

// MapSearchLink builds the external map search URL for a name and address.
func MapSearchLink(name, address string) string {
	q := strings.ReplaceAll(url.QueryEscape(name+" "+address), "+", "%20")
	return "https://www.google.com/maps/search/?api=1&query=" + q
}

// GeoLocation is a device position or a viewport center.
type GeoLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
