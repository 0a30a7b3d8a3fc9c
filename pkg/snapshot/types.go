package snapshot

import (
	"github.com/matzehuels/lineplanner/pkg/network"
)

// Snapshot is the canonical serialization format for a full network state.
// Used for API payloads, storage backends and save files.
//
// The format is human-readable and designed for round-trip fidelity:
// export → load → export produces identical results, counters included.
// Entities are keyed by ID; every record repeats its own ID so a snapshot
// can be validated without relying on the map keys.
type Snapshot struct {
	Lines          map[network.LineID]LineRecord   `json:"lines"`
	Points         map[network.PointID]PointRecord `json:"points"`
	LineIDCounter  int                             `json:"line_id_counter"`
	PointIDCounter int                             `json:"point_id_counter"`
}

// LineRecord is the serialized form of a line.
type LineRecord struct {
	ID       network.LineID    `json:"id"`
	Name     string            `json:"name"`
	Color    string            `json:"color,omitempty"`
	PointIDs []network.PointID `json:"point_ids"`
}

// PointRecord is the serialized form of a point. Lines holds the IDs of
// all lines the point belongs to, sorted ascending.
type PointRecord struct {
	ID    network.PointID  `json:"id"`
	Lat   float64          `json:"lat"`
	Lng   float64          `json:"lng"`
	Lines []network.LineID `json:"lines"`
}

// FromStore converts a store's full state to its serialization format.
// The snapshot is independent of the store and safe to retain.
func FromStore(s *network.Store) Snapshot {
	snap := Snapshot{
		Lines:          make(map[network.LineID]LineRecord, s.LineCount()),
		Points:         make(map[network.PointID]PointRecord, s.PointCount()),
		LineIDCounter:  int(s.NextLineID()),
		PointIDCounter: int(s.NextPointID()),
	}

	for _, l := range s.Lines() {
		snap.Lines[l.ID()] = LineRecord{
			ID:       l.ID(),
			Name:     l.Name(),
			Color:    l.Color(),
			PointIDs: l.PointIDs(),
		}
	}
	for _, p := range s.Points() {
		snap.Points[p.ID()] = PointRecord{
			ID:    p.ID(),
			Lat:   p.Lat(),
			Lng:   p.Lng(),
			Lines: p.Lines(),
		}
	}
	return snap
}

// Restore replaces the store's entire state with the snapshot's contents.
// This is all-or-nothing: on error the store is left untouched. Map keys
// must agree with the embedded record IDs; a mismatch, like any structural
// defect, surfaces as network.ErrInvalidSnapshot.
func Restore(s *network.Store, snap Snapshot) error {
	lines := make([]network.RestoredLine, 0, len(snap.Lines))
	for key, lr := range snap.Lines {
		if err := checkKey(int(key), int(lr.ID), "line"); err != nil {
			return err
		}
		lines = append(lines, network.RestoredLine{
			ID:       lr.ID,
			Name:     lr.Name,
			Color:    lr.Color,
			PointIDs: lr.PointIDs,
		})
	}

	points := make([]network.RestoredPoint, 0, len(snap.Points))
	for key, pr := range snap.Points {
		if err := checkKey(int(key), int(pr.ID), "point"); err != nil {
			return err
		}
		points = append(points, network.RestoredPoint{
			ID:    pr.ID,
			Lat:   pr.Lat,
			Lng:   pr.Lng,
			Lines: pr.Lines,
		})
	}

	return s.Restore(lines, points, network.LineID(snap.LineIDCounter), network.PointID(snap.PointIDCounter))
}

// ToStore builds a fresh store from the snapshot. colors supplies display
// colors for lines created after the restore; nil selects the built-in
// fallback cycle.
func ToStore(snap Snapshot, colors network.ColorFunc) (*network.Store, error) {
	s := network.New(colors)
	if err := Restore(s, snap); err != nil {
		return nil, err
	}
	return s, nil
}
