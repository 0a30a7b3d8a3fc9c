package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/matzehuels/lineplanner/pkg/errors"
	"github.com/matzehuels/lineplanner/pkg/geojson"
	"github.com/matzehuels/lineplanner/pkg/network"
	"github.com/matzehuels/lineplanner/pkg/observability"
	"github.com/matzehuels/lineplanner/pkg/snapshot"
)

// =============================================================================
// Request / Response Types
// =============================================================================

// lineView is the JSON representation of a line.
type lineView struct {
	ID       network.LineID    `json:"id"`
	Name     string            `json:"name"`
	Color    string            `json:"color"`
	PointIDs []network.PointID `json:"point_ids"`
}

// pointView is the JSON representation of a point.
type pointView struct {
	ID       network.PointID  `json:"id"`
	Lat      float64          `json:"lat"`
	Lng      float64          `json:"lng"`
	Lines    []network.LineID `json:"lines"`
	Transfer bool             `json:"transfer"`
}

// snapshotView summarizes a stored snapshot record without its payload.
type snapshotView struct {
	ID         string `json:"id"`
	CreatedAt  string `json:"created_at"`
	LineCount  int    `json:"line_count"`
	PointCount int    `json:"point_count"`
}

type createLineRequest struct {
	Name string `json:"name"`
}

type renameLineRequest struct {
	Name string `json:"name"`
}

type addPointRequest struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Index *int    `json:"index,omitempty"`
}

type attachPointRequest struct {
	Index *int `json:"index,omitempty"`
}

func viewLine(l *network.Line) lineView {
	return lineView{ID: l.ID(), Name: l.Name(), Color: l.Color(), PointIDs: l.PointIDs()}
}

func viewPoint(p *network.Point) pointView {
	return pointView{ID: p.ID(), Lat: p.Lat(), Lng: p.Lng(), Lines: p.Lines(), Transfer: p.IsTransfer()}
}

// position converts an optional JSON index into an insertion position.
// An absent index means append.
func position(index *int) network.Position {
	if index == nil {
		return network.AtEnd()
	}
	return network.At(*index)
}

// =============================================================================
// URL Parameter Parsing
// =============================================================================

func lineIDParam(r *http.Request) (network.LineID, error) {
	raw := chi.URLParam(r, "lineID")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "line id %q is not a number", raw)
	}
	return network.LineID(id), nil
}

func pointIDParam(r *http.Request) (network.PointID, error) {
	raw := chi.URLParam(r, "pointID")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "point id %q is not a number", raw)
	}
	return network.PointID(id), nil
}

// =============================================================================
// Health
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Lines
// =============================================================================

func (s *Server) handleListLines(w http.ResponseWriter, r *http.Request) {
	var views []lineView
	_ = s.withNetwork(func(n *network.Store) error {
		for _, l := range n.Lines() {
			views = append(views, viewLine(l))
		}
		return nil
	})
	if views == nil {
		views = []lineView{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateLine(w http.ResponseWriter, r *http.Request) {
	var req createLineRequest
	if r.ContentLength > 0 {
		if err := decodeBody(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if req.Name != "" {
		if err := apperrors.ValidateLineName(req.Name); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	var view lineView
	err := s.withNetwork(func(n *network.Store) error {
		l := n.AddLine()
		if req.Name != "" {
			if err := n.RenameLine(l.ID(), req.Name); err != nil {
				return err
			}
		}
		view = viewLine(l)
		s.mutated(r, "create_line", n)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleGetLine(w http.ResponseWriter, r *http.Request) {
	id, err := lineIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var view lineView
	err = s.withNetwork(func(n *network.Store) error {
		l, ok := n.Line(id)
		if !ok {
			return network.ErrLineNotFound
		}
		view = viewLine(l)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleRenameLine(w http.ResponseWriter, r *http.Request) {
	id, err := lineIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req renameLineRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := apperrors.ValidateLineName(req.Name); err != nil {
		s.writeError(w, r, err)
		return
	}

	var view lineView
	err = s.withNetwork(func(n *network.Store) error {
		if err := n.RenameLine(id, req.Name); err != nil {
			return err
		}
		l, _ := n.Line(id)
		view = viewLine(l)
		s.mutated(r, "rename_line", n)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleLinePath(w http.ResponseWriter, r *http.Request) {
	id, err := lineIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var feature geojson.Feature
	err = s.withNetwork(func(n *network.Store) error {
		f, err := geojson.LineFeature(n, id)
		if err != nil {
			return err
		}
		feature = f
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, feature)
}

// =============================================================================
// Points
// =============================================================================

func (s *Server) handleAddPoint(w http.ResponseWriter, r *http.Request) {
	lineID, err := lineIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req addPointRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := apperrors.ValidateCoordinates(req.Lat, req.Lng); err != nil {
		s.writeError(w, r, err)
		return
	}

	var view pointView
	err = s.withNetwork(func(n *network.Store) error {
		p, err := n.AddPoint(req.Lat, req.Lng, lineID, position(req.Index))
		if err != nil {
			return err
		}
		view = viewPoint(p)
		s.mutated(r, "add_point", n)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleAttachPoint(w http.ResponseWriter, r *http.Request) {
	lineID, err := lineIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	pointID, err := pointIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req attachPointRequest
	if r.ContentLength > 0 {
		if err := decodeBody(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	var view lineView
	err = s.withNetwork(func(n *network.Store) error {
		if err := n.AddPointToLine(pointID, lineID, position(req.Index)); err != nil {
			return err
		}
		l, _ := n.Line(lineID)
		view = viewLine(l)
		s.mutated(r, "attach_point", n)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleListPoints(w http.ResponseWriter, r *http.Request) {
	var views []pointView
	_ = s.withNetwork(func(n *network.Store) error {
		for _, p := range n.Points() {
			views = append(views, viewPoint(p))
		}
		return nil
	})
	if views == nil {
		views = []pointView{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetPoint(w http.ResponseWriter, r *http.Request) {
	id, err := pointIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var view pointView
	err = s.withNetwork(func(n *network.Store) error {
		p, ok := n.Point(id)
		if !ok {
			return network.ErrPointNotFound
		}
		view = viewPoint(p)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// =============================================================================
// Network Export / Import
// =============================================================================

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var snap snapshot.Snapshot
	_ = s.withNetwork(func(n *network.Store) error {
		snap = snapshot.FromStore(n)
		return nil
	})
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var snap snapshot.Snapshot
	if err := decodeBody(r, &snap); err != nil {
		s.writeError(w, r, err)
		return
	}

	err := s.withNetwork(func(n *network.Store) error {
		if err := snapshot.Restore(n, snap); err != nil {
			return err
		}
		s.mutated(r, "import_network", n)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGeoJSON(w http.ResponseWriter, r *http.Request) {
	var fc geojson.FeatureCollection
	err := s.withNetwork(func(n *network.Store) error {
		c, err := geojson.Collection(n)
		if err != nil {
			return err
		}
		fc = c
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fc)
}

// =============================================================================
// Snapshots
// =============================================================================

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeStorage, err, "list snapshots"))
		return
	}
	views := make([]snapshotView, 0, len(records))
	for _, rec := range records {
		views = append(views, snapshotView{
			ID:         rec.ID,
			CreatedAt:  rec.CreatedAt.Format(time.RFC3339),
			LineCount:  rec.LineCount,
			PointCount: rec.PointCount,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap snapshot.Snapshot
	_ = s.withNetwork(func(n *network.Store) error {
		snap = snapshot.FromStore(n)
		return nil
	})

	rec, err := s.store.Save(r.Context(), snap)
	if err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeStorage, err, "save snapshot"))
		return
	}
	s.logger.Info("snapshot saved", "id", rec.ID, "lines", rec.LineCount, "points", rec.PointCount)
	writeJSON(w, http.StatusCreated, snapshotView{
		ID:         rec.ID,
		CreatedAt:  rec.CreatedAt.Format(time.RFC3339),
		LineCount:  rec.LineCount,
		PointCount: rec.PointCount,
	})
}

func (s *Server) handleRestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "snapshotID")
	rec, err := s.store.Load(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	err = s.withNetwork(func(n *network.Store) error {
		if err := snapshot.Restore(n, rec.Snapshot); err != nil {
			return err
		}
		s.mutated(r, "restore_snapshot", n)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("snapshot restored", "id", rec.ID, "lines", rec.LineCount, "points", rec.PointCount)
	w.WriteHeader(http.StatusNoContent)
}

// mutated notifies the registered mutation hooks. Called with the store
// mutex held, immediately after a successful change.
func (s *Server) mutated(r *http.Request, op string, n *network.Store) {
	observability.Mutation().OnMutation(r.Context(), op, n.LineCount(), n.PointCount())
}
