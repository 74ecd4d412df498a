package app

import (
	"testing"

	"leadgen/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func biz(id, name, address string) models.Business {
	return models.Business{ID: id, Name: name, Address: address}
}

func populated() State {
	s := InitialState()
	return Reduce(s, SearchSucceeded{Records: []models.Business{
		biz("1", "Tasty Bakes", "Gulberg, Lahore"),
		biz("2", "Butt Sweets", "Anarkali, Lahore"),
		biz("3", "Gulberg Cafe", "Main Blvd, Lahore"),
		biz("4", "Karachi Bakers", "Saddar, Karachi"),
	}})
}

func TestValidate(t *testing.T) {
	geo := &models.GeoLocation{Lat: 1, Lng: 2}
	tests := []struct {
		name  string
		query string
		loc   models.Location
		geo   *models.GeoLocation
		want  string
	}{
		{"missing query", " ", models.Location{Mode: models.ModeCity, City: "Lahore"}, nil, MsgQueryRequired},
		{"city ok", "Bakery", models.Location{Mode: models.ModeCity, City: "Lahore"}, nil, ""},
		{"blank address", "Bakery", models.Location{Mode: models.ModeAddress, Address: "  "}, nil, MsgAddressRequired},
		{"route missing end", "Bakery", models.Location{Mode: models.ModeRoute, RouteStart: "Saddar"}, nil, MsgRouteRequired},
		{"route missing start", "Bakery", models.Location{Mode: models.ModeRoute, RouteEnd: "Clifton"}, nil, MsgRouteRequired},
		{"route ok", "Bakery", models.Location{Mode: models.ModeRoute, RouteStart: "Saddar", RouteEnd: "Clifton"}, nil, ""},
		{"radius missing center", "Bakery", models.Location{Mode: models.ModeRadius, RadiusKm: 5}, nil, MsgRadiusRequired},
		{"near me without gps", "Bakery", models.Location{Mode: models.ModeNearMe}, nil, MsgGeolocationFailed},
		{"near me with gps", "Bakery", models.Location{Mode: models.ModeNearMe}, geo, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := InitialState()
			s = Reduce(s, SetQuery{Query: tt.query})
			s = Reduce(s, SetLocation{Location: tt.loc})
			s.UserGeo = tt.geo
			assert.Equal(t, tt.want, Validate(s))
		})
	}
}

func TestReduce_SetLocationDefaultsCity(t *testing.T) {
	s := Reduce(InitialState(), SetLocation{Location: models.Location{Mode: models.ModeCity}})
	assert.Equal(t, models.DefaultCity, s.Location.City)
}

func TestReduce_FreshSearchResetsSelectionAndFilter(t *testing.T) {
	s := populated()
	s = Reduce(s, ToggleSelection{ID: "1"})
	s = Reduce(s, SetFilter{Filter: "lahore"})
	s = Reduce(s, SearchStarted{})
	assert.True(t, s.Loading)

	s = Reduce(s, SearchSucceeded{Records: []models.Business{biz("9", "New Place", "X")}})
	assert.False(t, s.Loading)
	assert.Len(t, s.Results, 1)
	assert.Empty(t, s.Selected)
	assert.Empty(t, s.Filter)
	assert.Empty(t, s.Error)
}

func TestReduce_LoadMoreAppendsAndDedups(t *testing.T) {
	s := populated()
	s = Reduce(s, ToggleSelection{ID: "1"})

	s = Reduce(s, SearchSucceeded{Append: true, Records: []models.Business{
		biz("5", "TASTY BAKES", "elsewhere"),
		biz("6", "Lahori Nashta", "Old City"),
		biz("7", "lahori nashta ", "Old City"),
	}})
	require.Len(t, s.Results, 5)
	assert.Equal(t, "Tasty Bakes", s.Results[0].Name)
	assert.Equal(t, "Lahori Nashta", s.Results[4].Name)
	assert.True(t, s.Selected["1"], "load more keeps the selection")
	assert.Empty(t, s.Error)
}

func TestReduce_ZeroResultMessages(t *testing.T) {
	s := Reduce(InitialState(), SearchSucceeded{})
	assert.Equal(t, MsgNoResults, s.Error)

	s = populated()
	s = Reduce(s, SearchSucceeded{Append: true, Records: []models.Business{biz("x", "Tasty Bakes", "")}})
	assert.Equal(t, MsgNoMoreResults, s.Error)
	assert.Len(t, s.Results, 4)

	s = Reduce(s, SearchStarted{})
	assert.Empty(t, s.Error, "errors clear when the next search starts")
}

func TestFilteredIsCaseInsensitiveOnNameOrAddress(t *testing.T) {
	s := Reduce(populated(), SetFilter{Filter: "GULBERG"})
	got := s.Filtered()
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
	assert.Len(t, s.Results, 4)
}

func TestSelectAllTwiceRestoresSelection(t *testing.T) {
	s := populated()
	s = Reduce(s, ToggleSelection{ID: "4"})
	s = Reduce(s, SetFilter{Filter: "lahore"})
	before := s.Selected

	once := Reduce(s, SelectAll{})
	assert.True(t, once.AllFilteredSelected())
	assert.Len(t, once.Selected, 4)

	twice := Reduce(once, SelectAll{})
	assert.Equal(t, before, twice.Selected)
	assert.True(t, twice.Selected["4"], "selection outside the filter is untouched")
}

func TestSelectAllCompletesPartialSelection(t *testing.T) {
	s := Reduce(populated(), SetFilter{Filter: "lahore"})
	s = Reduce(s, ToggleSelection{ID: "2"})

	s = Reduce(s, SelectAll{})
	assert.True(t, s.Selected["1"])
	assert.True(t, s.Selected["2"])
	assert.True(t, s.Selected["3"])
	assert.False(t, s.Selected["4"])
}

func TestSelectAllTwiceFromFullySelected(t *testing.T) {
	s := Reduce(populated(), SetFilter{Filter: "karachi"})
	s = Reduce(s, ToggleSelection{ID: "4"})
	before := s.Selected

	after := Reduce(Reduce(s, SelectAll{}), SelectAll{})
	assert.Equal(t, before, after.Selected)
}

func TestExportTargets(t *testing.T) {
	s := Reduce(populated(), SetFilter{Filter: "lahore"})
	assert.Len(t, s.ExportTargets(), 3)
	assert.Equal(t, "Export List (3)", s.ExportLabel())

	s = Reduce(s, ToggleSelection{ID: "4"})
	s = Reduce(s, ToggleSelection{ID: "2"})
	targets := s.ExportTargets()
	require.Len(t, targets, 2)
	assert.Equal(t, "2", targets[0].ID)
	assert.Equal(t, "4", targets[1].ID)
	assert.Equal(t, "Export Selected (2)", s.ExportLabel())
}

func TestToggleSelectionIgnoresStaleIDs(t *testing.T) {
	s := Reduce(populated(), ToggleSelection{ID: "1"})
	s = Reduce(s, ToggleSelection{ID: "ghost"})
	assert.Len(t, s.Selected, 1)
	assert.Len(t, s.ExportTargets(), 1)
	assert.Equal(t, "Export Selected (1)", s.ExportLabel())

	s = Reduce(s, Clear{})
	s = Reduce(s, ToggleSelection{ID: "1"})
	assert.Empty(t, s.Selected)
	assert.Empty(t, s.ExportTargets())
	assert.Equal(t, "Export List (0)", s.ExportLabel())
}

func TestReduce_ClearEmptiesEverything(t *testing.T) {
	s := Reduce(populated(), ToggleSelection{ID: "1"})
	s = Reduce(s, SetFilter{Filter: "x"})
	s = Reduce(s, Clear{})
	assert.Empty(t, s.Results)
	assert.Empty(t, s.Selected)
	assert.Empty(t, s.Filter)
	assert.False(t, s.CanLoadMore())
}

func TestReduce_Geolocation(t *testing.T) {
	s := Reduce(InitialState(), GeolocationFailed{})
	assert.Equal(t, MsgGeolocationFailed, s.Error)
	assert.Nil(t, s.UserGeo)

	s = Reduce(s, SetDeviceLocation{Geo: models.GeoLocation{Lat: 24.8, Lng: 67}})
	require.NotNil(t, s.UserGeo)
	assert.Empty(t, s.Error)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	s := populated()
	_ = Reduce(s, ToggleSelection{ID: "1"})
	assert.Empty(t, s.Selected)
}
