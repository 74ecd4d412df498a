// internal/leads/mapview/provider.go
package mapview

import "leadgen/internal/models"

// Marker is one pin on the map.
type Marker struct {
	ID       string             `json:"id"`
	Position models.GeoLocation `json:"position"`
	Title    string             `json:"title"`
	Popup    string             `json:"popup"`
}

// Bounds is a lat/lng rectangle.
type Bounds struct {
	SouthWest models.GeoLocation `json:"southWest"`
	NorthEast models.GeoLocation `json:"northEast"`
}

// Center returns the midpoint of the rectangle.
func (b Bounds) Center() models.GeoLocation {
	return models.GeoLocation{
		Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
		Lng: (b.SouthWest.Lng + b.NorthEast.Lng) / 2,
	}
}

// BoundsOf returns the smallest rectangle holding every point. points must be non-empty.
func BoundsOf(points []models.GeoLocation) Bounds {
	b := Bounds{SouthWest: points[0], NorthEast: points[0]}
	for _, p := range points[1:] {
		b.SouthWest.Lat = min(b.SouthWest.Lat, p.Lat)
		b.SouthWest.Lng = min(b.SouthWest.Lng, p.Lng)
		b.NorthEast.Lat = max(b.NorthEast.Lat, p.Lat)
		b.NorthEast.Lng = max(b.NorthEast.Lng, p.Lng)
	}
	return b
}

// ViewChange is emitted after the viewport moves.
type ViewChange struct {
	Center        models.GeoLocation
	Zoom          int
	UserInitiated bool
}

// Provider is the map rendering capability the controller drives.
type Provider interface {
	SetView(center models.GeoLocation, zoom int)
	AddMarker(m Marker)
	RemoveMarker(id string)
	FitBounds(b Bounds)
	OpenPopup(id string)
	OnViewChange(fn func(ViewChange))
	OnMarkerClick(fn func(id string))
}
