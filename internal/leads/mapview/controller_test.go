package mapview

import (
	"testing"

	"leadgen/internal/common/logger"
	"leadgen/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geo(lat, lng float64) (*float64, *float64) { return &lat, &lng }

func records() []models.Business {
	lat1, lng1 := geo(31.50, 74.30)
	lat2, lng2 := geo(31.60, 74.40)
	return []models.Business{
		{ID: "a", Name: "Tasty Bakes", Address: "Gulberg, Lahore", Phone: "042-1", Lat: lat1, Lng: lng1},
		{ID: "b", Name: "Butt Sweets", Address: "Anarkali, Lahore", Phone: models.NotAvailable, Lat: lat2, Lng: lng2},
		{ID: "c", Name: "No Coords Cafe", Address: "Gulberg, Lahore"},
	}
}

func newController(t *testing.T) (*Controller, *Scene, *[]string) {
	scene := NewScene()
	var selected []string
	c := NewController(scene, InitialState(), func(id string) { selected = append(selected, id) }, logger.NewTestLogger(t))
	return c, scene, &selected
}

func TestController_SetRecordsFitsBounds(t *testing.T) {
	c, scene, _ := newController(t)
	assert.Equal(t, PhaseIdle, c.State().Phase)

	c.SetRecords(records(), "")

	assert.Equal(t, PhasePopulated, c.State().Phase)
	assert.Equal(t, 2, c.VisibleCount())

	snap := scene.Snapshot()
	require.Len(t, snap.Markers, 2)
	require.NotNil(t, snap.Fit)
	assert.Equal(t, models.GeoLocation{Lat: 31.50, Lng: 74.30}, snap.Fit.SouthWest)
	assert.Equal(t, models.GeoLocation{Lat: 31.60, Lng: 74.40}, snap.Fit.NorthEast)
	assert.InDelta(t, 31.55, c.State().Center.Lat, 1e-9)
}

func TestController_NoGeolocatedRecordsStaysIdle(t *testing.T) {
	c, scene, _ := newController(t)
	c.SetRecords(records()[2:], "")

	assert.Equal(t, PhaseIdle, c.State().Phase)
	assert.Equal(t, 0, c.VisibleCount())
	assert.Nil(t, scene.Snapshot().Fit)
}

func TestController_FilterKeepsViewport(t *testing.T) {
	c, scene, _ := newController(t)
	c.SetRecords(records(), "")
	scene.Pan(models.GeoLocation{Lat: 10, Lng: 20}, 9)
	before := c.State()

	// "gulberg" matches a and c; c has no coordinates
	c.Filter(records(), "GULBERG")

	after := c.State()
	assert.Equal(t, 1, c.VisibleCount())
	assert.Equal(t, []string{"a"}, after.Visible)
	assert.Equal(t, before.Center, after.Center)
	assert.Equal(t, before.Zoom, after.Zoom)
	assert.Equal(t, PhaseUserPanned, after.Phase)
	assert.Len(t, scene.Snapshot().Markers, 1)
}

func TestController_UserPanSuppressesAutoFit(t *testing.T) {
	c, scene, _ := newController(t)
	c.SetRecords(records(), "")

	scene.Pan(models.GeoLocation{Lat: 24.86, Lng: 67.01}, 12)
	require.Equal(t, PhaseUserPanned, c.State().Phase)
	assert.True(t, c.State().ShowSearchArea())

	c.SetRecords(records()[:1], "")

	assert.Equal(t, PhaseUserPanned, c.State().Phase)
	assert.Equal(t, models.GeoLocation{Lat: 24.86, Lng: 67.01}, c.State().Center)
	assert.Nil(t, scene.Snapshot().Fit)
}

func TestController_ProgrammaticCenterClearsUserPanned(t *testing.T) {
	c, scene, _ := newController(t)
	c.SetRecords(records(), "")
	scene.Pan(models.GeoLocation{Lat: 1, Lng: 1}, 8)

	target := models.GeoLocation{Lat: 33.68, Lng: 73.04}
	c.Center(target, 13)

	assert.Equal(t, PhasePopulated, c.State().Phase)
	assert.False(t, c.State().ShowSearchArea())
	snap := scene.Snapshot()
	assert.Equal(t, target, snap.Center)
	assert.Equal(t, 13, snap.Zoom)
}

func TestController_AreaSearchLifecycle(t *testing.T) {
	c, scene, _ := newController(t)

	_, err := c.BeginAreaSearch()
	assert.ErrorIs(t, err, ErrAreaSearchUnavailable)

	scene.Pan(models.GeoLocation{Lat: 31.52, Lng: 74.35}, 14)
	center, err := c.BeginAreaSearch()
	require.NoError(t, err)
	assert.Equal(t, models.GeoLocation{Lat: 31.52, Lng: 74.35}, center)
	assert.True(t, c.State().Loading())
	assert.False(t, c.State().ShowSearchArea())

	// gestures while pending do not leave the pending phase
	scene.Pan(models.GeoLocation{Lat: 0, Lng: 0}, 3)
	assert.Equal(t, PhaseAreaSearchPending, c.State().Phase)

	c.SetRecords(records(), "")
	assert.Equal(t, PhaseAreaSearchPending, c.State().Phase)

	c.EndAreaSearch()
	assert.Equal(t, PhaseUserPanned, c.State().Phase)

	c.Center(center, 14)
	assert.Equal(t, PhasePopulated, c.State().Phase)
}

func TestController_MarkerClickOpensPopupAndSelects(t *testing.T) {
	c, scene, selected := newController(t)
	c.SetRecords(records(), "")

	require.NoError(t, scene.ClickMarker("b"))
	assert.Equal(t, "b", c.State().Popup)
	assert.Equal(t, "b", scene.Snapshot().Popup)
	assert.Equal(t, []string{"b"}, *selected)

	assert.ErrorIs(t, scene.ClickMarker("c"), ErrUnknownMarker)

	// hiding the marker closes its popup
	c.Filter(records(), "tasty")
	assert.Empty(t, c.State().Popup)
	assert.Empty(t, scene.Snapshot().Popup)
}

func TestController_ResumeFromSnapshot(t *testing.T) {
	c, scene, _ := newController(t)
	c.SetRecords(records(), "")
	scene.Pan(models.GeoLocation{Lat: 5, Lng: 6}, 7)

	restored := RestoreScene(scene.Snapshot())
	c2 := NewController(restored, c.State(), nil, logger.NewNoOpLogger())

	assert.Equal(t, PhaseUserPanned, c2.State().Phase)
	_, err := c2.BeginAreaSearch()
	require.NoError(t, err)
}

func TestPopupContent(t *testing.T) {
	r := records()
	assert.Equal(t, "Tasty Bakes\nGulberg, Lahore\n042-1", popupContent(r[0]))
	assert.Equal(t, "Butt Sweets\nAnarkali, Lahore", popupContent(r[1]))
}

func TestZoomForRadius(t *testing.T) {
	tests := []struct {
		km   float64
		want int
	}{
		{0.5, 15}, {1, 15}, {2, 14}, {3, 14}, {5, 13}, {7.5, 12}, {10, 12}, {15, 11}, {20, 11}, {50, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ZoomForRadius(tt.km), "radius %v", tt.km)
	}
}
