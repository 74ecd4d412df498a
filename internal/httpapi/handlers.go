// internal/httpapi/handlers.go
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "leadgen/internal/common/errors"
	"leadgen/internal/common/validation"
	"leadgen/internal/leads/app"
	"leadgen/internal/leads/export"
	"leadgen/internal/leads/geocode"
	"leadgen/internal/leads/mapview"
	"leadgen/internal/models"
)

const maxBodyBytes = 64 << 10

type viewResponse struct {
	View  app.View                 `json:"view"`
	Error *apperrors.StandardError `json:"error,omitempty"`
}

type catalogResponse struct {
	Cities        []string `json:"cities"`
	BusinessTypes []string `json:"businessTypes"`
	DefaultCity   string   `json:"defaultCity"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalogResponse{
		Cities:        models.Cities,
		BusinessTypes: models.BusinessTypes,
		DefaultCity:   models.DefaultCity,
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.controller.State(r.Context(), sessionID(r.Context()))
	s.respond(w, r, snap, err)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !s.decode(w, r, querySchema, &req) {
		return
	}
	snap, err := s.controller.Dispatch(r.Context(), sessionID(r.Context()), app.SetQuery{Query: req.Query})
	s.respond(w, r, snap, err)
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	var req models.Location
	if !s.decode(w, r, locationSchema, &req) {
		return
	}
	snap, err := s.controller.Dispatch(r.Context(), sessionID(r.Context()), app.SetLocation{Location: req})
	s.respond(w, r, snap, err)
}

func (s *Server) handleGeolocation(w http.ResponseWriter, r *http.Request) {
	var req geolocationRequest
	if !s.decode(w, r, geolocationSchema, &req) {
		return
	}
	id := sessionID(r.Context())

	if req.Lat == nil || req.Lng == nil {
		snap, err := s.controller.Dispatch(r.Context(), id, app.GeolocationFailed{})
		if err == nil {
			err = apperrors.NewGeolocationFailedError(app.MsgGeolocationFailed)
		}
		s.respond(w, r, snap, err)
		return
	}

	snap, err := s.controller.Dispatch(r.Context(), id, app.SetDeviceLocation{
		Geo: models.GeoLocation{Lat: *req.Lat, Lng: *req.Lng},
	})
	s.respond(w, r, snap, err)
}

func (s *Server) handleSearch(loadMore bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := s.controller.Search(r.Context(), sessionID(r.Context()), loadMore)
		s.respond(w, r, snap, noResults(snap, err))
	}
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	snap, err := s.controller.Dispatch(r.Context(), sessionID(r.Context()), app.Clear{})
	s.respond(w, r, snap, err)
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if !s.decode(w, r, filterSchema, &req) {
		return
	}
	snap, err := s.controller.Dispatch(r.Context(), sessionID(r.Context()), app.SetFilter{Filter: req.Filter})
	s.respond(w, r, snap, err)
}

func (s *Server) handleLocateFilter(w http.ResponseWriter, r *http.Request) {
	snap, err := s.controller.LocateFilter(r.Context(), sessionID(r.Context()))
	s.respond(w, r, snap, err)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if !s.decode(w, r, idSchema, &req) {
		return
	}
	snap, err := s.controller.Dispatch(r.Context(), sessionID(r.Context()), app.ToggleSelection{ID: req.ID})
	s.respond(w, r, snap, err)
}

func (s *Server) handleSelectAll(w http.ResponseWriter, r *http.Request) {
	snap, err := s.controller.Dispatch(r.Context(), sessionID(r.Context()), app.SelectAll{})
	s.respond(w, r, snap, err)
}

func (s *Server) handleMapView(w http.ResponseWriter, r *http.Request) {
	var req mapViewRequest
	if !s.decode(w, r, mapViewSchema, &req) {
		return
	}
	snap, err := s.controller.PanMap(r.Context(), sessionID(r.Context()), models.GeoLocation{Lat: req.Lat, Lng: req.Lng}, req.Zoom)
	s.respond(w, r, snap, err)
}

func (s *Server) handleMarker(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if !s.decode(w, r, idSchema, &req) {
		return
	}
	snap, err := s.controller.ClickMarker(r.Context(), sessionID(r.Context()), req.ID)
	s.respond(w, r, snap, err)
}

func (s *Server) handleSearchArea(w http.ResponseWriter, r *http.Request) {
	snap, err := s.controller.SearchArea(r.Context(), sessionID(r.Context()))
	s.respond(w, r, snap, noResults(snap, err))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.PathValue("format")
	p, err := s.controller.Export(r.Context(), sessionID(r.Context()), format)
	if err != nil {
		s.errHandler.HandleHTTPError(w, r, s.standardize(err, format))
		return
	}

	w.Header().Set("Content-Type", p.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", p.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(p.Body)
}

// decode reads, schema-checks and unmarshals the request body. It writes the
// error response itself and reports whether the handler should continue.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, schema *validation.Schema, v interface{}) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.errHandler.HandleHTTPError(w, r, apperrors.NewInvalidRequestError(err.Error()))
		return false
	}
	if len(body) == 0 {
		body = []byte("{}")
	}

	result, err := schema.Validate(body)
	if err != nil {
		s.errHandler.HandleHTTPError(w, r, apperrors.NewInvalidRequestError(err.Error()))
		return false
	}
	if !result.Valid {
		stdErr := apperrors.NewInvalidRequestError(strings.Join(result.GetErrorMessages(), "; "))
		stdErr.Metadata = map[string]interface{}{"errors": result.Errors}
		s.errHandler.HandleHTTPError(w, r, stdErr)
		return false
	}

	if err := json.Unmarshal(body, v); err != nil {
		s.errHandler.HandleHTTPError(w, r, apperrors.NewInvalidRequestError(err.Error()))
		return false
	}
	return true
}

// respond writes the session view. Errors the user should see come back
// alongside the view; store failures replace it.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, snap app.Snapshot, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, viewResponse{View: snap.View()})
		return
	}

	stdErr := s.standardize(err, "")
	if stdErr.Code == apperrors.ErrCodeSessionStoreFailed {
		s.errHandler.HandleHTTPError(w, r, stdErr)
		return
	}

	status := apperrors.HTTPStatus(stdErr.Code)
	if status >= http.StatusBadRequest {
		s.logger.Warn("request completed with user error", map[string]interface{}{
			"requestId": requestID(r.Context()),
			"path":      r.URL.Path,
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
		})
	}
	writeJSON(w, status, viewResponse{View: snap.View(), Error: stdErr})
}

// noResults reports an empty search as an informational error.
func noResults(snap app.Snapshot, err error) error {
	if err != nil {
		return err
	}
	switch msg := snap.State.Error; msg {
	case app.MsgNoResults, app.MsgNoMoreResults:
		return apperrors.NewNoResultsError(msg)
	}
	return nil
}

// standardize maps controller errors onto API error codes.
func (s *Server) standardize(err error, format string) *apperrors.StandardError {
	var stdErr *apperrors.StandardError
	var placeErr *app.PlaceError
	switch {
	case errors.As(err, &stdErr):
		return stdErr
	case errors.Is(err, app.ErrValidation):
		return apperrors.NewValidationError(strings.TrimPrefix(err.Error(), app.ErrValidation.Error()+": "))
	case errors.Is(err, app.ErrSearchFailed):
		return apperrors.NewSearchFailedError(app.MsgSearchFailed, err)
	case errors.As(err, &placeErr):
		if errors.Is(err, geocode.ErrLookupFailed) {
			return apperrors.NewPlaceLookupFailedError(placeErr.Err)
		}
		return apperrors.NewPlaceNotFoundError(placeErr.Place)
	case errors.Is(err, app.ErrAreaUnavailable):
		return apperrors.NewMapNotReadyError(app.MsgMapNotMoved)
	case errors.Is(err, mapview.ErrUnknownMarker):
		return apperrors.NewInvalidRequestError(err.Error())
	case errors.Is(err, export.ErrUnknownFormat):
		return apperrors.NewExportFormatUnknownError(format)
	default:
		return apperrors.NewSessionStoreFailedError(err)
	}
}
