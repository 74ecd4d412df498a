// internal/models/location.go
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// LocationMode is the active way the user specifies a search area.
type LocationMode string

const (
	ModeCity    LocationMode = "city"
	ModeAddress LocationMode = "address"
	ModeRoute   LocationMode = "route"
	ModeRadius  LocationMode = "radius"
	ModeNearMe  LocationMode = "near_me"
)

// NearMe is the descriptor used for GPS searches.
const NearMe = "Near Me"

// Location holds the selected mode and the fields that mode reads.
// Fields belonging to other modes are ignored, so a Location can never
// describe two modes at once.
type Location struct {
	Mode         LocationMode `json:"mode"`
	City         string       `json:"city,omitempty"`
	Address      string       `json:"address,omitempty"`
	RouteStart   string       `json:"routeStart,omitempty"`
	RouteEnd     string       `json:"routeEnd,omitempty"`
	RadiusCenter string       `json:"radiusCenter,omitempty"`
	RadiusKm     float64      `json:"radiusKm,omitempty"`
}

// Valid reports whether the mode is one of the known modes.
func (m LocationMode) Valid() bool {
	switch m {
	case ModeCity, ModeAddress, ModeRoute, ModeRadius, ModeNearMe:
		return true
	}
	return false
}

// Descriptor renders the human-readable location string sent to the model.
func (l Location) Descriptor() string {
	switch l.Mode {
	case ModeAddress:
		return strings.TrimSpace(l.Address)
	case ModeRoute:
		return fmt.Sprintf("between %s and %s", strings.TrimSpace(l.RouteStart), strings.TrimSpace(l.RouteEnd))
	case ModeRadius:
		return fmt.Sprintf("within %skm of %s", strconv.FormatFloat(l.RadiusKm, 'f', -1, 64), strings.TrimSpace(l.RadiusCenter))
	case ModeNearMe:
		return NearMe
	default:
		return l.City
	}
}

// IsNearMe reports whether a descriptor is the GPS sentinel.
func IsNearMe(descriptor string) bool {
	return strings.Contains(strings.ToLower(descriptor), strings.ToLower(NearMe))
}

// IsRoute reports whether a descriptor represents a "between A and B" route.
func IsRoute(descriptor string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(descriptor)), "between ")
}
