package server

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/sysmlite/pkg/buildinfo"
	"github.com/matzehuels/sysmlite/pkg/diagram"
	errs "github.com/matzehuels/sysmlite/pkg/errors"
	"github.com/matzehuels/sysmlite/pkg/export"
	diagramio "github.com/matzehuels/sysmlite/pkg/io"
	"github.com/matzehuels/sysmlite/pkg/model"
	"github.com/matzehuels/sysmlite/pkg/observability"
	"github.com/matzehuels/sysmlite/pkg/style"
)

// =============================================================================
// Request and response types
// =============================================================================

type addElementRequest struct {
	Type string `json:"type" validate:"required"`
}

type connectRequest struct {
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
	Label  string `json:"label" validate:"max=256"`
}

type labelRequest struct {
	Label string `json:"label" validate:"max=256"`
}

type selectionRequest struct {
	ElementID    string `json:"elementId" validate:"excluded_with=ConnectionID"`
	ConnectionID string `json:"connectionId"`
}

type elementResponse struct {
	Element   model.Element     `json:"element"`
	Placement diagram.Placement `json:"placement"`
}

type placementResponse struct {
	Placement diagram.Placement `json:"placement"`
	Element   model.Element     `json:"element"`
	Missing   bool              `json:"missing"`
}

type connectionResponse struct {
	diagram.Connection
	Kind  string           `json:"kind"`
	Style style.Descriptor `json:"style"`
}

type appliedResponse struct {
	Applied int `json:"applied"`
}

func newConnectionResponse(c diagram.Connection) connectionResponse {
	return connectionResponse{Connection: c, Kind: c.Kind().String(), Style: c.Style()}
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

// getSnapshot handles GET /api/snapshot
func (s *Server) getSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap diagram.Snapshot
	s.read(func(st *diagram.Store) { snap = st.Snapshot() })

	var buf bytes.Buffer
	if err := diagramio.WriteJSON(snap, &buf); err != nil {
		respondError(w, errs.Wrap(errs.ErrCodeInternal, err, "encode snapshot"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}

// putSnapshot handles PUT /api/snapshot. A rejected body leaves the store
// untouched.
func (s *Server) putSnapshot(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var placements, connections int
	s.mutate(func(st *diagram.Store) bool {
		if err = diagramio.LoadInto(st, data); err != nil {
			return false
		}
		placements, connections = len(st.Placements()), len(st.Connections())
		return true
	})
	observability.Export().OnImport(r.Context(), "http", placements, connections, err)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{
		"placements":  placements,
		"connections": connections,
	})
}

// addElement handles POST /api/elements
func (s *Server) addElement(w http.ResponseWriter, r *http.Request) {
	var req addElementRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	t, err := model.ParseType(req.Type)
	if err != nil {
		respondError(w, errs.Wrap(errs.ErrCodeInvalidType, err, "unknown element type %q", req.Type))
		return
	}

	var resp elementResponse
	s.mutate(func(st *diagram.Store) bool {
		resp.Element, resp.Placement = st.AddElement(t)
		return true
	})
	respondJSON(w, http.StatusCreated, resp)
}

// updateElement handles PATCH /api/elements/{id}
func (s *Server) updateElement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch model.Patch
	if err := decode(r, &patch); err != nil {
		respondError(w, err)
		return
	}
	if patch.Type != nil && !patch.Type.Valid() {
		respondError(w, errs.New(errs.ErrCodeInvalidType, "unknown element type %q", *patch.Type))
		return
	}

	var e model.Element
	ok := s.mutate(func(st *diagram.Store) bool {
		if !st.UpdateElement(id, patch) {
			return false
		}
		e, _ = st.Element(id)
		return true
	})
	if !ok {
		respondError(w, notFound("element", id))
		return
	}
	respondJSON(w, http.StatusOK, e)
}

// getPlacement handles GET /api/placements/{id}. A placement whose element
// is gone answers 200 with the fallback element and missing=true.
func (s *Server) getPlacement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var (
		view diagram.View
		ok   bool
	)
	s.read(func(st *diagram.Store) { view, ok = st.Resolve(id) })
	if !ok {
		respondError(w, notFound("placement", id))
		return
	}
	respondJSON(w, http.StatusOK, placementResponse{
		Placement: view.Placement,
		Element:   view.Element,
		Missing:   view.Missing,
	})
}

// placementChanges handles POST /api/placements/changes
func (s *Server) placementChanges(w http.ResponseWriter, r *http.Request) {
	var changes []diagram.PlacementChange
	if err := decode(r, &changes); err != nil {
		respondError(w, err)
		return
	}
	var n int
	s.mutate(func(st *diagram.Store) bool {
		n = st.ApplyPlacementChanges(changes)
		return n > 0
	})
	respondJSON(w, http.StatusOK, appliedResponse{Applied: n})
}

// connect handles POST /api/connections
func (s *Server) connect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	var c diagram.Connection
	ok := s.mutate(func(st *diagram.Store) bool {
		var created bool
		if c, created = st.Connect(req.Source, req.Target); !created {
			return false
		}
		if req.Label != "" {
			st.UpdateConnectionLabel(c.ID, req.Label)
			c, _ = st.Connection(c.ID)
		}
		return true
	})
	if !ok {
		respondError(w, errs.New(errs.ErrCodeNotFound, "source %q or target %q not found", req.Source, req.Target))
		return
	}
	respondJSON(w, http.StatusCreated, newConnectionResponse(c))
}

// updateConnection handles PATCH /api/connections/{id}
func (s *Server) updateConnection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req labelRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	var c diagram.Connection
	ok := s.mutate(func(st *diagram.Store) bool {
		if !st.UpdateConnectionLabel(id, req.Label) {
			return false
		}
		c, _ = st.Connection(id)
		return true
	})
	if !ok {
		respondError(w, notFound("connection", id))
		return
	}
	respondJSON(w, http.StatusOK, newConnectionResponse(c))
}

// deleteConnection handles DELETE /api/connections/{id}
func (s *Server) deleteConnection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.mutate(func(st *diagram.Store) bool { return st.RemoveConnection(id) }) {
		respondError(w, notFound("connection", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// connectionChanges handles POST /api/connections/changes
func (s *Server) connectionChanges(w http.ResponseWriter, r *http.Request) {
	var changes []diagram.ConnectionChange
	if err := decode(r, &changes); err != nil {
		respondError(w, err)
		return
	}
	var n int
	s.mutate(func(st *diagram.Store) bool {
		n = st.ApplyConnectionChanges(changes)
		return n > 0
	})
	respondJSON(w, http.StatusOK, appliedResponse{Applied: n})
}

// getSelection handles GET /api/selection
func (s *Server) getSelection(w http.ResponseWriter, r *http.Request) {
	var sel diagram.Selection
	s.read(func(st *diagram.Store) { sel = st.Selection() })
	respondJSON(w, http.StatusOK, sel)
}

// putSelection handles PUT /api/selection. An empty body object clears the
// selection.
func (s *Server) putSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	var (
		sel diagram.Selection
		ok  bool
	)
	s.read(func(st *diagram.Store) {
		if req.ConnectionID != "" {
			ok = st.SelectConnection(req.ConnectionID)
		} else {
			ok = st.SelectElement(req.ElementID)
		}
		sel = st.Selection()
	})
	if !ok {
		id := req.ElementID
		if req.ConnectionID != "" {
			id = req.ConnectionID
		}
		respondError(w, notFound("selection target", id))
		return
	}
	respondJSON(w, http.StatusOK, sel)
}

// exportFormat handles GET /api/export/{format}
func (s *Server) exportFormat(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	opts, err := s.exportOptions(r, format)
	if err != nil {
		respondError(w, err)
		return
	}

	var snap diagram.Snapshot
	s.read(func(st *diagram.Store) { snap = st.Snapshot() })

	out, err := s.runner.ExportFormat(r.Context(), snap, format, opts)
	if err != nil {
		s.logger.Warn("export failed", "format", format, "err", err)
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	_, _ = w.Write(out)
}

func (s *Server) exportOptions(r *http.Request, format string) (export.Options, error) {
	opts := s.defaults
	opts.Formats = []string{format}
	q := r.URL.Query()

	floats := map[string]*float64{"scale": &opts.Scale, "padding": &opts.Padding}
	for name, dst := range floats {
		if v := q.Get(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return opts, errs.Wrap(errs.ErrCodeInvalidInput, err, "query parameter %s", name)
			}
			*dst = f
		}
	}
	bools := map[string]*bool{
		"chrome":   &opts.Chrome,
		"pinned":   &opts.Pinned,
		"detailed": &opts.Detailed,
		"refresh":  &opts.Refresh,
	}
	for name, dst := range bools {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, errs.Wrap(errs.ErrCodeInvalidInput, err, "query parameter %s", name)
			}
			*dst = b
		}
	}
	if v := q.Get("engine"); v != "" {
		opts.Engine = v
	}
	return opts, nil
}
