// internal/leads/app/controller.go
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"leadgen/internal/common/logger"
	"leadgen/internal/leads/export"
	"leadgen/internal/leads/mapview"
	"leadgen/internal/leads/search"
	"leadgen/internal/models"
)

var (
	ErrValidation      = errors.New("VALIDATION_FAILED")
	ErrSearchFailed    = errors.New("SEARCH_FAILED")
	ErrPlaceNotFound   = errors.New("PLACE_NOT_FOUND")
	ErrAreaUnavailable = errors.New("MAP_NOT_READY")
)

// PlaceError reports a place name that could not be put on the map.
type PlaceError struct {
	Place string
	Err   error
}

func (e *PlaceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("place %q not found", e.Place)
	}
	return fmt.Sprintf("place %q: %v", e.Place, e.Err)
}

func (e *PlaceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrPlaceNotFound}
	}
	return []error{ErrPlaceNotFound, e.Err}
}

// Zoom used when centering on a device position or a looked-up place.
const focusZoom = 14

// Searcher runs one generative search.
type Searcher interface {
	Search(ctx context.Context, req search.Request) ([]models.Business, error)
}

// Geocoder resolves place names. Optional.
type Geocoder interface {
	Lookup(ctx context.Context, place string) (models.GeoLocation, error)
	Reverse(ctx context.Context, geo models.GeoLocation) (string, error)
}

// Controller applies user intents to session snapshots. Network calls are
// made between two Store.Update calls, never while a session is locked,
// so the last response to arrive wins.
type Controller struct {
	store    Store
	searcher Searcher
	geocoder Geocoder
	logger   logger.Logger
}

// NewController wires the controller. geocoder may be nil.
func NewController(store Store, searcher Searcher, geocoder Geocoder, log logger.Logger) *Controller {
	return &Controller{
		store:    store,
		searcher: searcher,
		geocoder: geocoder,
		logger:   log.With(map[string]interface{}{"component": "app"}),
	}
}

func (c *Controller) State(ctx context.Context, id string) (Snapshot, error) {
	return c.store.Get(ctx, id)
}

// Dispatch applies a plain state action and keeps the map in step.
func (c *Controller) Dispatch(ctx context.Context, id string, a Action) (Snapshot, error) {
	return c.store.Update(ctx, id, func(s *Snapshot) error {
		s.State = Reduce(s.State, a)
		switch a := a.(type) {
		case SetFilter:
			c.withMap(s, func(m *mapview.Controller) { m.Filter(s.State.Results, s.State.Filter) })
		case Clear:
			c.withMap(s, func(m *mapview.Controller) { m.SetRecords(nil, "") })
		case SetDeviceLocation:
			c.withMap(s, func(m *mapview.Controller) { m.Center(a.Geo, focusZoom) })
		}
		return nil
	})
}

// Search runs a fresh search, or appends more results when loadMore is set.
func (c *Controller) Search(ctx context.Context, id string, loadMore bool) (Snapshot, error) {
	var req search.Request
	var invalid string

	snap, err := c.store.Update(ctx, id, func(s *Snapshot) error {
		if invalid = Validate(s.State); invalid != "" {
			s.State = Reduce(s.State, ValidationFailed{Message: invalid})
			return nil
		}
		if loadMore && len(s.State.Results) == 0 {
			loadMore = false
		}
		req = search.Request{
			Term:     strings.TrimSpace(s.State.Query),
			Location: s.State.Location.Descriptor(),
			UserGeo:  s.State.UserGeo,
		}
		if loadMore {
			req.ExcludeNames = s.State.ResultNames()
			req.Coords = s.State.Area
			if s.State.AreaLabel != "" {
				req.Location = s.State.AreaLabel
			}
		}
		s.State = Reduce(s.State, SearchStarted{})
		return nil
	})
	if err != nil {
		return snap, err
	}
	if invalid != "" {
		return snap, fmt.Errorf("%w: %s", ErrValidation, invalid)
	}

	records, searchErr := c.searcher.Search(ctx, req)

	var center *models.GeoLocation
	loc := snap.State.Location
	if searchErr == nil && !loadMore && loc.Mode == models.ModeRadius {
		center = c.lookup(ctx, loc.RadiusCenter)
	}

	snap, err = c.store.Update(ctx, id, func(s *Snapshot) error {
		if searchErr != nil {
			s.State = Reduce(s.State, SearchFailed{Message: MsgSearchFailed})
			return nil
		}
		s.State = Reduce(s.State, SearchSucceeded{Records: records, Append: loadMore})
		c.withMap(s, func(m *mapview.Controller) {
			m.SetRecords(s.State.Results, s.State.Filter)
			if center != nil {
				m.Center(*center, mapview.ZoomForRadius(loc.RadiusKm))
			}
		})
		return nil
	})
	if err != nil {
		return snap, err
	}
	if searchErr != nil {
		return snap, fmt.Errorf("%w: %v", ErrSearchFailed, searchErr)
	}
	return snap, nil
}

// SearchArea searches around the current map center after the user moved the map.
func (c *Controller) SearchArea(ctx context.Context, id string) (Snapshot, error) {
	var term, invalid string
	var coords models.GeoLocation
	var mapErr error

	snap, err := c.store.Update(ctx, id, func(s *Snapshot) error {
		term = strings.TrimSpace(s.State.Query)
		if term == "" {
			invalid = MsgQueryRequired
			s.State = Reduce(s.State, ValidationFailed{Message: invalid})
			return nil
		}
		c.withMap(s, func(m *mapview.Controller) { coords, mapErr = m.BeginAreaSearch() })
		if mapErr != nil {
			s.State = Reduce(s.State, ValidationFailed{Message: MsgMapNotMoved})
			return nil
		}
		s.State = Reduce(s.State, SearchStarted{})
		return nil
	})
	switch {
	case err != nil:
		return snap, err
	case invalid != "":
		return snap, fmt.Errorf("%w: %s", ErrValidation, invalid)
	case mapErr != nil:
		return snap, fmt.Errorf("%w: %v", ErrAreaUnavailable, mapErr)
	}

	label := c.areaLabel(ctx, coords)
	records, searchErr := c.searcher.Search(ctx, search.Request{
		Term:     term,
		Location: label,
		Coords:   &coords,
	})

	snap, err = c.store.Update(ctx, id, func(s *Snapshot) error {
		c.withMap(s, func(m *mapview.Controller) { m.EndAreaSearch() })
		if searchErr != nil {
			s.State = Reduce(s.State, SearchFailed{Message: MsgSearchFailed})
			return nil
		}
		s.State = Reduce(s.State, SearchSucceeded{Records: records, Area: &coords, AreaLabel: label})
		c.withMap(s, func(m *mapview.Controller) {
			m.SetRecords(s.State.Results, s.State.Filter)
			m.Center(coords, m.State().Zoom)
		})
		return nil
	})
	if err != nil {
		return snap, err
	}
	if searchErr != nil {
		return snap, fmt.Errorf("%w: %v", ErrSearchFailed, searchErr)
	}
	return snap, nil
}

// LocateFilter treats the filter text as a place name and centers the map on it.
func (c *Controller) LocateFilter(ctx context.Context, id string) (Snapshot, error) {
	snap, err := c.store.Get(ctx, id)
	if err != nil {
		return snap, err
	}
	place := strings.TrimSpace(snap.State.Filter)
	if place == "" || c.geocoder == nil {
		return snap, &PlaceError{Place: place}
	}

	geo, lookupErr := c.geocoder.Lookup(ctx, place)

	snap, err = c.store.Update(ctx, id, func(s *Snapshot) error {
		if lookupErr != nil {
			s.State = Reduce(s.State, ValidationFailed{Message: fmt.Sprintf(msgPlaceNotFoundFormat, place)})
			return nil
		}
		c.withMap(s, func(m *mapview.Controller) { m.Center(geo, focusZoom) })
		return nil
	})
	if err != nil {
		return snap, err
	}
	if lookupErr != nil {
		c.logger.Warn("filter place lookup failed", map[string]interface{}{"place": place, "error": lookupErr.Error()})
		return snap, &PlaceError{Place: place, Err: lookupErr}
	}
	return snap, nil
}

// PanMap applies a user drag or zoom reported by the page.
func (c *Controller) PanMap(ctx context.Context, id string, center models.GeoLocation, zoom int) (Snapshot, error) {
	return c.store.Update(ctx, id, func(s *Snapshot) error {
		c.withScene(s, func(scene *mapview.Scene, _ *mapview.Controller) error {
			scene.Pan(center, zoom)
			return nil
		})
		return nil
	})
}

// ClickMarker opens the marker popup and focuses the matching record.
func (c *Controller) ClickMarker(ctx context.Context, id, markerID string) (Snapshot, error) {
	return c.store.Update(ctx, id, func(s *Snapshot) error {
		return c.withScene(s, func(scene *mapview.Scene, _ *mapview.Controller) error {
			return scene.ClickMarker(markerID)
		})
	})
}

// Export encodes the current export targets.
func (c *Controller) Export(ctx context.Context, id, format string) (export.Payload, error) {
	snap, err := c.store.Get(ctx, id)
	if err != nil {
		return export.Payload{}, err
	}
	records := snap.State.ExportTargets()
	p, err := export.Encode(format, records)
	if err != nil {
		return export.Payload{}, err
	}
	c.logger.Info("export produced", map[string]interface{}{
		"format":  format,
		"records": len(records),
		"bytes":   len(p.Body),
	})
	return p, nil
}

func (c *Controller) withMap(s *Snapshot, fn func(m *mapview.Controller)) {
	_ = c.withScene(s, func(_ *mapview.Scene, m *mapview.Controller) error {
		fn(m)
		return nil
	})
}

// withScene rebuilds the map controller from the snapshot, runs fn and
// stores the resulting map state back. Marker clicks focus the record.
func (c *Controller) withScene(s *Snapshot, fn func(*mapview.Scene, *mapview.Controller) error) error {
	scene := mapview.RestoreScene(s.Scene)
	m := mapview.NewController(scene, s.Map, func(recordID string) {
		s.State = Reduce(s.State, FocusRecord{ID: recordID})
	}, c.logger)

	err := fn(scene, m)
	s.Map = m.State()
	s.Scene = scene.Snapshot()
	return err
}

func (c *Controller) lookup(ctx context.Context, place string) *models.GeoLocation {
	if c.geocoder == nil {
		return nil
	}
	geo, err := c.geocoder.Lookup(ctx, place)
	if err != nil {
		c.logger.Warn("radius center lookup failed", map[string]interface{}{"place": place, "error": err.Error()})
		return nil
	}
	return &geo
}

func (c *Controller) areaLabel(ctx context.Context, geo models.GeoLocation) string {
	fallback := fmt.Sprintf("the map area around %.5f, %.5f", geo.Lat, geo.Lng)
	if c.geocoder == nil {
		return fallback
	}
	label, err := c.geocoder.Reverse(ctx, geo)
	if err != nil {
		c.logger.Debug("reverse lookup failed", map[string]interface{}{"error": err.Error()})
		return fallback
	}
	return label
}
