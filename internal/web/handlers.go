package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/datagrid/internal/core"
	"github.com/JonMunkholm/datagrid/internal/grid"
	"github.com/JonMunkholm/datagrid/internal/web/views"
)

// MaxActionBodySize caps an actions request body (1MB).
const MaxActionBodySize = 1 << 20

// createGridRequest is the optional body of POST /api/grids.
type createGridRequest struct {
	PreferencesKey string `json:"preferencesKey"`
}

// handleHealth reports liveness and session load.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.service.SessionCount(),
		"loads":    s.service.LimiterStatus(),
	})
}

// handleCreateGrid opens a session and returns its first view.
func (s *Server) handleCreateGrid(w http.ResponseWriter, r *http.Request) {
	var req createGridRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, MaxActionBodySize)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.respondError(w, r, fmt.Errorf("decode payload: %w", err), http.StatusBadRequest)
		return
	}

	sess, err := s.service.CreateSession(r.Context(), core.CreateOptions{PreferencesKey: req.PreferencesKey})
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	w.Header().Set("Location", "/api/grids/"+sess.ID)
	writeJSON(w, http.StatusCreated, views.NewGrid(sess.ID, sess.State()))
}

// handleGetGrid returns the current view of a session.
func (s *Server) handleGetGrid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.service.Session(id)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, views.NewGrid(id, sess.State()))
}

// handleDispatch decodes one action or a list of them and applies them as a
// single transition.
func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxActionBodySize))
	if err != nil {
		s.respondError(w, r, fmt.Errorf("decode action: %w", err), http.StatusRequestEntityTooLarge)
		return
	}
	actions, err := grid.DecodeActions(body)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	st, err := s.service.Dispatch(r.Context(), id, actions...)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = views.GridPartial(views.NewGrid(id, st)).Render(r.Context(), w)
		return
	}
	writeJSON(w, http.StatusOK, views.NewGrid(id, st))
}

// handleReload re-runs the session's load.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	st, err := s.service.Reload(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, views.NewGrid(id, st))
	case errors.Is(err, core.ErrSessionNotFound), errors.Is(err, core.ErrTooManyLoads), errors.Is(err, core.ErrStaleLoad):
		s.respondError(w, r, err, 0)
	default:
		// the data source failed; the session keeps its previous rows
		s.respondError(w, r, err, http.StatusBadGateway)
	}
}

// handleExport streams the whole filtered set as csv, tsv or json.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.service.Session(id)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	var (
		contentType string
		write       func(io.Writer, grid.GridState) error
	)
	switch format {
	case "csv":
		contentType = "text/csv"
		write = func(w io.Writer, st grid.GridState) error { return grid.WriteDelimited(w, st, ',') }
	case "tsv":
		contentType = "text/tab-separated-values"
		write = func(w io.Writer, st grid.GridState) error { return grid.WriteDelimited(w, st, '\t') }
	case "json":
		contentType = "application/json"
		write = grid.WriteJSON
	default:
		s.respondError(w, r, fmt.Errorf("unsupported export format %q", format), http.StatusBadRequest)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="grid_%s.%s"`, timestamp, format))

	if err := write(w, sess.State()); err != nil {
		// headers are gone; all we can do is log
		s.logExportError(r, err)
	}
}

// handleDeleteGrid closes a session.
func (s *Server) handleDeleteGrid(w http.ResponseWriter, r *http.Request) {
	if err := s.service.CloseSession(chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGridPage renders a session as HTML.
func (s *Server) handleGridPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.service.Session(id)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	g := views.NewGrid(id, sess.State())
	if isHTMX(r) {
		_ = views.GridPartial(g).Render(r.Context(), w)
		return
	}
	_ = views.GridPage(g).Render(r.Context(), w)
}
