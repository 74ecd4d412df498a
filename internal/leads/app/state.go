// internal/leads/app/state.go
package app

import (
	"fmt"
	"strings"

	"leadgen/internal/models"
)

// User-facing messages.
const (
	MsgQueryRequired       = "Please enter a business type."
	MsgAddressRequired     = "Please enter a manual address or area."
	MsgRouteRequired       = "Please enter both a start and an end point for the route."
	MsgRadiusRequired      = "Please enter a center point for the radius search."
	MsgGeolocationFailed   = "Could not access location. Please enable GPS."
	MsgNoResults           = "No businesses found. Try a different query or location."
	MsgNoMoreResults       = "No more new businesses found in this area. Try widening your search location."
	MsgSearchFailed        = "Failed to fetch results. Gemini API usage may be limited or network issue."
	MsgMapNotMoved         = "Move the map to choose an area before searching it."
	msgPlaceNotFoundFormat = "Could not find %q on the map."
)

// State is everything the results screen owns. It only changes through Reduce.
type State struct {
	Query    string              `json:"query"`
	Location models.Location     `json:"location"`
	UserGeo  *models.GeoLocation `json:"userGeo,omitempty"`
	// Area is set after a map-area search so "load more" stays in that area.
	Area      *models.GeoLocation `json:"area,omitempty"`
	AreaLabel string              `json:"areaLabel,omitempty"`
	Results   []models.Business   `json:"results"`
	Loading   bool                `json:"loading"`
	Error     string              `json:"error,omitempty"`
	Filter    string              `json:"filter"`
	Selected  map[string]bool     `json:"selected"`
	Focused   string              `json:"focused,omitempty"`
}

func InitialState() State {
	return State{
		Location: models.Location{Mode: models.ModeCity, City: models.DefaultCity},
		Results:  []models.Business{},
		Selected: map[string]bool{},
	}
}

// Actions accepted by Reduce.
type (
	SetQuery          struct{ Query string }
	SetLocation       struct{ Location models.Location }
	SetDeviceLocation struct{ Geo models.GeoLocation }
	GeolocationFailed struct{}
	SetFilter         struct{ Filter string }
	ToggleSelection   struct{ ID string }
	SelectAll         struct{}
	FocusRecord       struct{ ID string }
	Clear             struct{}
	SearchStarted     struct{}
	SearchSucceeded   struct {
		Records   []models.Business
		Append    bool
		Area      *models.GeoLocation
		AreaLabel string
	}
	SearchFailed     struct{ Message string }
	ValidationFailed struct{ Message string }
)

type Action interface{}

// Reduce returns the state after applying a. The input state is not modified.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetQuery:
		s.Query = a.Query
	case SetLocation:
		s.Location = a.Location
		if s.Location.Mode == models.ModeCity && strings.TrimSpace(s.Location.City) == "" {
			s.Location.City = models.DefaultCity
		}
		s.Area, s.AreaLabel = nil, ""
	case SetDeviceLocation:
		g := a.Geo
		s.UserGeo = &g
		if s.Error == MsgGeolocationFailed {
			s.Error = ""
		}
	case GeolocationFailed:
		s.UserGeo = nil
		s.Error = MsgGeolocationFailed
	case SetFilter:
		s.Filter = a.Filter
	case ToggleSelection:
		// ids from an earlier result list are ignored
		if !s.hasResult(a.ID) {
			break
		}
		sel := copySet(s.Selected)
		if sel[a.ID] {
			delete(sel, a.ID)
		} else {
			sel[a.ID] = true
		}
		s.Selected = sel
	case SelectAll:
		s.Selected = selectAll(s)
	case FocusRecord:
		s.Focused = a.ID
	case Clear:
		s.Results = []models.Business{}
		s.Selected = map[string]bool{}
		s.Filter, s.Error, s.Focused = "", "", ""
		s.Area, s.AreaLabel = nil, ""
	case SearchStarted:
		s.Loading = true
		s.Error = ""
	case SearchSucceeded:
		s.Loading = false
		if a.Append {
			fresh := newRecords(s.Results, a.Records)
			if len(fresh) == 0 {
				s.Error = MsgNoMoreResults
				break
			}
			s.Results = append(append([]models.Business{}, s.Results...), fresh...)
			break
		}
		s.Results = append([]models.Business{}, a.Records...)
		s.Selected = map[string]bool{}
		s.Filter, s.Focused = "", ""
		s.Area, s.AreaLabel = a.Area, a.AreaLabel
		if len(s.Results) == 0 {
			s.Error = MsgNoResults
		}
	case SearchFailed:
		s.Loading = false
		s.Error = a.Message
	case ValidationFailed:
		s.Error = a.Message
	}
	return s
}

// Validate returns the message for the first missing search input, or "".
func Validate(s State) string {
	if strings.TrimSpace(s.Query) == "" {
		return MsgQueryRequired
	}
	l := s.Location
	switch l.Mode {
	case models.ModeAddress:
		if strings.TrimSpace(l.Address) == "" {
			return MsgAddressRequired
		}
	case models.ModeRoute:
		if strings.TrimSpace(l.RouteStart) == "" || strings.TrimSpace(l.RouteEnd) == "" {
			return MsgRouteRequired
		}
	case models.ModeRadius:
		if strings.TrimSpace(l.RadiusCenter) == "" {
			return MsgRadiusRequired
		}
	case models.ModeNearMe:
		if s.UserGeo == nil {
			return MsgGeolocationFailed
		}
	}
	return ""
}

// Filtered is the result list narrowed by the filter text.
func (s State) Filtered() []models.Business {
	out := make([]models.Business, 0, len(s.Results))
	for _, b := range s.Results {
		if b.MatchesFilter(s.Filter) {
			out = append(out, b)
		}
	}
	return out
}

// ExportTargets are the selected records if any, otherwise the filtered list.
func (s State) ExportTargets() []models.Business {
	if len(s.Selected) == 0 {
		return s.Filtered()
	}
	out := make([]models.Business, 0, len(s.Selected))
	for _, b := range s.Results {
		if s.Selected[b.ID] {
			out = append(out, b)
		}
	}
	return out
}

func (s State) ExportLabel() string {
	if len(s.Selected) > 0 {
		return fmt.Sprintf("Export Selected (%d)", len(s.Selected))
	}
	return fmt.Sprintf("Export List (%d)", len(s.Filtered()))
}

// AllFilteredSelected drives the select-all checkbox.
func (s State) AllFilteredSelected() bool {
	filtered := s.Filtered()
	if len(filtered) == 0 {
		return false
	}
	for _, b := range filtered {
		if !s.Selected[b.ID] {
			return false
		}
	}
	return true
}

func (s State) hasResult(id string) bool {
	for _, b := range s.Results {
		if b.ID == id {
			return true
		}
	}
	return false
}

// CanLoadMore reports whether the "load more" control is offered.
func (s State) CanLoadMore() bool {
	return !s.Loading && len(s.Results) > 0 && s.Filter == ""
}

// ResultNames lists every current result name, in order.
func (s State) ResultNames() []string {
	names := make([]string, len(s.Results))
	for i, b := range s.Results {
		names[i] = b.Name
	}
	return names
}

func selectAll(s State) map[string]bool {
	sel := copySet(s.Selected)
	filtered := s.Filtered()
	if s.AllFilteredSelected() {
		for _, b := range filtered {
			delete(sel, b.ID)
		}
		return sel
	}
	for _, b := range filtered {
		sel[b.ID] = true
	}
	return sel
}

// newRecords drops incoming records whose name already appears, ignoring case.
func newRecords(existing, incoming []models.Business) []models.Business {
	seen := make(map[string]bool, len(existing)+len(incoming))
	for _, b := range existing {
		seen[strings.ToLower(strings.TrimSpace(b.Name))] = true
	}
	var out []models.Business
	for _, b := range incoming {
		key := strings.ToLower(strings.TrimSpace(b.Name))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, b)
	}
	return out
}

func copySet(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		if v {
			out[k] = v
		}
	}
	return out
}
