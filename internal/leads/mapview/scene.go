// internal/leads/mapview/scene.go
package mapview

import (
	"errors"
	"sync"

	"leadgen/internal/models"
)

var ErrUnknownMarker = errors.New("unknown marker")

// Default viewport before any location is known.
var (
	DefaultCenter = models.GeoLocation{Lat: 30.3753, Lng: 69.3451}
	DefaultZoom   = 5
)

// SceneSnapshot is the serialisable view the browser renders.
type SceneSnapshot struct {
	Center  models.GeoLocation `json:"center"`
	Zoom    int                `json:"zoom"`
	Fit     *Bounds            `json:"fit,omitempty"`
	Markers []Marker           `json:"markers"`
	Popup   string             `json:"popup,omitempty"`
}

// Scene is a Provider that records what should be drawn. The browser
// renders its snapshot and reports gestures back through Pan and ClickMarker.
type Scene struct {
	mu      sync.Mutex
	snap    SceneSnapshot
	onView  func(ViewChange)
	onClick func(string)
}

func NewScene() *Scene {
	return RestoreScene(SceneSnapshot{Center: DefaultCenter, Zoom: DefaultZoom})
}

func RestoreScene(snap SceneSnapshot) *Scene {
	snap.Markers = append([]Marker(nil), snap.Markers...)
	if snap.Zoom == 0 {
		snap.Center, snap.Zoom = DefaultCenter, DefaultZoom
	}
	return &Scene{snap: snap}
}

func (s *Scene) Snapshot() SceneSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.snap
	out.Markers = append([]Marker{}, s.snap.Markers...)
	return out
}

func (s *Scene) SetView(center models.GeoLocation, zoom int) {
	s.mu.Lock()
	s.snap.Center, s.snap.Zoom, s.snap.Fit = center, zoom, nil
	fn := s.onView
	s.mu.Unlock()

	if fn != nil {
		fn(ViewChange{Center: center, Zoom: zoom})
	}
}

func (s *Scene) AddMarker(m Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.snap.Markers {
		if s.snap.Markers[i].ID == m.ID {
			s.snap.Markers[i] = m
			return
		}
	}
	s.snap.Markers = append(s.snap.Markers, m)
}

func (s *Scene) RemoveMarker(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.snap.Markers {
		if s.snap.Markers[i].ID == id {
			s.snap.Markers = append(s.snap.Markers[:i], s.snap.Markers[i+1:]...)
			break
		}
	}
	if s.snap.Popup == id {
		s.snap.Popup = ""
	}
}

func (s *Scene) FitBounds(b Bounds) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fit := b
	s.snap.Fit = &fit
	s.snap.Center = b.Center()
}

func (s *Scene) OpenPopup(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Popup = id
}

func (s *Scene) OnViewChange(fn func(ViewChange)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onView = fn
}

func (s *Scene) OnMarkerClick(fn func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClick = fn
}

// Pan applies a user drag or zoom reported by the browser.
func (s *Scene) Pan(center models.GeoLocation, zoom int) {
	s.mu.Lock()
	s.snap.Center, s.snap.Zoom, s.snap.Fit = center, zoom, nil
	fn := s.onView
	s.mu.Unlock()

	if fn != nil {
		fn(ViewChange{Center: center, Zoom: zoom, UserInitiated: true})
	}
}

// ClickMarker applies a marker activation reported by the browser.
func (s *Scene) ClickMarker(id string) error {
	s.mu.Lock()
	found := false
	for _, m := range s.snap.Markers {
		if m.ID == id {
			found = true
			break
		}
	}
	fn := s.onClick
	s.mu.Unlock()

	if !found {
		return ErrUnknownMarker
	}
	if fn != nil {
		fn(id)
	}
	return nil
}
