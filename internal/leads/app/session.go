// internal/leads/app/session.go
package app

import (
	"context"
	"errors"

	"leadgen/internal/leads/mapview"
	"leadgen/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// Snapshot is everything one browser session owns.
type Snapshot struct {
	State State                 `json:"state"`
	Map   mapview.State         `json:"map"`
	Scene mapview.SceneSnapshot `json:"scene"`
}

func NewSnapshot() Snapshot {
	return Snapshot{
		State: InitialState(),
		Map:   mapview.InitialState(),
		Scene: mapview.NewScene().Snapshot(),
	}
}

// Store keeps snapshots by session id.
type Store interface {
	// Get returns the snapshot, or a fresh one when the session is unknown.
	Get(ctx context.Context, id string) (Snapshot, error)
	// Update runs fn under the session's lock and persists the result unless fn fails.
	Update(ctx context.Context, id string, fn func(*Snapshot) error) (Snapshot, error)
}

// View is the snapshot plus values derived from it, as served to the page.
type View struct {
	Snapshot
	Filtered            []models.Business `json:"filtered"`
	VisibleCount        int               `json:"visibleCount"`
	ExportLabel         string            `json:"exportLabel"`
	AllFilteredSelected bool              `json:"allFilteredSelected"`
	CanLoadMore         bool              `json:"canLoadMore"`
	ShowSearchArea      bool              `json:"showSearchArea"`
	MapLoading          bool              `json:"mapLoading"`
	Descriptor          string            `json:"descriptor"`
}

func (s Snapshot) View() View {
	return View{
		Snapshot:            s,
		Filtered:            s.State.Filtered(),
		VisibleCount:        len(s.Map.Visible),
		ExportLabel:         s.State.ExportLabel(),
		AllFilteredSelected: s.State.AllFilteredSelected(),
		CanLoadMore:         s.State.CanLoadMore(),
		ShowSearchArea:      s.Map.ShowSearchArea(),
		MapLoading:          s.Map.Loading(),
		Descriptor:          s.State.Location.Descriptor(),
	}
}
