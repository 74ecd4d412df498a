// internal/leads/mapview/controller.go
package mapview

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"leadgen/internal/common/logger"
	"leadgen/internal/models"
)

var ErrAreaSearchUnavailable = errors.New("search this area is only available after moving the map")

type Phase string

const (
	PhaseIdle              Phase = "idle"
	PhasePopulated         Phase = "populated"
	PhaseUserPanned        Phase = "user_panned"
	PhaseAreaSearchPending Phase = "area_search_pending"
)

// State is the whole map view state. It only changes through apply.
type State struct {
	Phase   Phase              `json:"phase"`
	Center  models.GeoLocation `json:"center"`
	Zoom    int                `json:"zoom"`
	Visible []string           `json:"visible"`
	Popup   string             `json:"popup,omitempty"`
}

// InitialState is the world view with no markers.
func InitialState() State {
	return State{Phase: PhaseIdle, Center: DefaultCenter, Zoom: DefaultZoom, Visible: []string{}}
}

// ShowSearchArea reports whether the "search this area" control is shown.
func (s State) ShowSearchArea() bool { return s.Phase == PhaseUserPanned }

// Loading reports whether an area search is in flight.
func (s State) Loading() bool { return s.Phase == PhaseAreaSearchPending }

type event interface{}

type (
	recordsChanged    struct{ visible []string }
	filterChanged     struct{ visible []string }
	centered          struct{ center models.GeoLocation; zoom int }
	gestured          struct{ center models.GeoLocation; zoom int }
	fitted            struct{ center models.GeoLocation }
	areaSearchStarted struct{}
	areaSearchEnded   struct{}
	popupOpened       struct{ id string }
)

func settled(visible []string) Phase {
	if len(visible) > 0 {
		return PhasePopulated
	}
	return PhaseIdle
}

func (s State) apply(e event) State {
	switch e := e.(type) {
	case recordsChanged:
		s.Visible = e.visible
		if s.Phase == PhaseIdle || s.Phase == PhasePopulated {
			s.Phase = settled(s.Visible)
		}
	case filterChanged:
		s.Visible = e.visible
		if s.Phase == PhaseIdle || s.Phase == PhasePopulated {
			s.Phase = settled(s.Visible)
		}
	case centered:
		s.Center, s.Zoom = e.center, e.zoom
		if s.Phase != PhaseAreaSearchPending {
			s.Phase = settled(s.Visible)
		}
	case gestured:
		s.Center, s.Zoom = e.center, e.zoom
		if s.Phase != PhaseAreaSearchPending {
			s.Phase = PhaseUserPanned
		}
	case fitted:
		s.Center = e.center
	case areaSearchStarted:
		s.Phase = PhaseAreaSearchPending
	case areaSearchEnded:
		if s.Phase == PhaseAreaSearchPending {
			s.Phase = PhaseUserPanned
		}
	case popupOpened:
		s.Popup = e.id
	}
	if s.Popup != "" && !slices.Contains(s.Visible, s.Popup) {
		s.Popup = ""
	}
	return s
}

// Controller keeps a Provider in step with the result list and tracks the viewport.
// It is not safe for concurrent use.
type Controller struct {
	provider Provider
	state    State
	onSelect func(id string)
	logger   logger.Logger
}

// NewController resumes from state and subscribes to the provider's events.
// onSelect is called with the record id whenever a marker is activated.
func NewController(p Provider, state State, onSelect func(id string), log logger.Logger) *Controller {
	if state.Phase == "" {
		state = InitialState()
	}
	c := &Controller{
		provider: p,
		state:    state,
		onSelect: onSelect,
		logger:   log.With(map[string]interface{}{"component": "mapview"}),
	}
	p.OnViewChange(c.handleViewChange)
	p.OnMarkerClick(c.handleMarkerClick)
	return c
}

func (c *Controller) State() State { return c.state }

// VisibleCount is the number of markers on the map.
func (c *Controller) VisibleCount() int { return len(c.state.Visible) }

// SetRecords shows a new result list. The viewport fits the markers unless
// the user has moved the map since the last programmatic move.
func (c *Controller) SetRecords(records []models.Business, filter string) {
	markers := visibleMarkers(records, filter)
	c.reconcile(markers)
	c.state = c.state.apply(recordsChanged{visible: markerIDs(markers)})

	if c.state.Phase != PhasePopulated {
		return
	}
	points := make([]models.GeoLocation, len(markers))
	for i, m := range markers {
		points[i] = m.Position
	}
	b := BoundsOf(points)
	c.provider.FitBounds(b)
	c.state = c.state.apply(fitted{center: b.Center()})
}

// Filter recomputes the visible markers without touching center or zoom.
func (c *Controller) Filter(records []models.Business, filter string) {
	markers := visibleMarkers(records, filter)
	c.reconcile(markers)
	c.state = c.state.apply(filterChanged{visible: markerIDs(markers)})
}

// Center moves the map programmatically and clears the user-panned state.
func (c *Controller) Center(geo models.GeoLocation, zoom int) {
	c.state = c.state.apply(centered{center: geo, zoom: zoom})
	c.provider.SetView(geo, zoom)
}

// BeginAreaSearch returns the viewport center to search around.
func (c *Controller) BeginAreaSearch() (models.GeoLocation, error) {
	if c.state.Phase != PhaseUserPanned {
		return models.GeoLocation{}, fmt.Errorf("%w (phase %s)", ErrAreaSearchUnavailable, c.state.Phase)
	}
	c.state = c.state.apply(areaSearchStarted{})
	c.logger.Debug("area search started", map[string]interface{}{
		"lat": c.state.Center.Lat,
		"lng": c.state.Center.Lng,
	})
	return c.state.Center, nil
}

func (c *Controller) EndAreaSearch() {
	c.state = c.state.apply(areaSearchEnded{})
}

func (c *Controller) handleViewChange(v ViewChange) {
	if !v.UserInitiated {
		return
	}
	c.state = c.state.apply(gestured{center: v.Center, zoom: v.Zoom})
}

func (c *Controller) handleMarkerClick(id string) {
	if !slices.Contains(c.state.Visible, id) {
		return
	}
	c.provider.OpenPopup(id)
	c.state = c.state.apply(popupOpened{id: id})
	if c.onSelect != nil {
		c.onSelect(id)
	}
}

func (c *Controller) reconcile(markers []Marker) {
	keep := make(map[string]bool, len(markers))
	for _, m := range markers {
		keep[m.ID] = true
	}
	for _, id := range c.state.Visible {
		if !keep[id] {
			c.provider.RemoveMarker(id)
		}
	}
	for _, m := range markers {
		c.provider.AddMarker(m)
	}
}

func visibleMarkers(records []models.Business, filter string) []Marker {
	var out []Marker
	for _, b := range records {
		if !b.HasCoordinates() || !b.MatchesFilter(filter) {
			continue
		}
		out = append(out, Marker{
			ID:       b.ID,
			Position: b.Position(),
			Title:    b.Name,
			Popup:    popupContent(b),
		})
	}
	return out
}

func markerIDs(markers []Marker) []string {
	ids := make([]string, len(markers))
	for i, m := range markers {
		ids[i] = m.ID
	}
	return ids
}

func popupContent(b models.Business) string {
	lines := []string{b.Name}
	if models.IsAvailable(b.Address) {
		lines = append(lines, b.Address)
	}
	if models.IsAvailable(b.Phone) {
		lines = append(lines, b.Phone)
	}
	if models.IsAvailable(b.Rating) {
		lines = append(lines, "Rating: "+b.Rating)
	}
	return strings.Join(lines, "\n")
}

// ZoomForRadius picks a zoom level that frames a search radius.
func ZoomForRadius(km float64) int {
	switch {
	case km <= 1:
		return 15
	case km <= 3:
		return 14
	case km <= 5:
		return 13
	case km <= 10:
		return 12
	case km <= 20:
		return 11
	default:
		return 10
	}
}
