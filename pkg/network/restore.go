package network

import "fmt"

// RestoredLine describes a line being rebuilt from a snapshot.
type RestoredLine struct {
	ID       LineID
	Name     string
	Color    string
	PointIDs []PointID
}

// RestoredPoint describes a point being rebuilt from a snapshot.
type RestoredPoint struct {
	ID    PointID
	Lat   float64
	Lng   float64
	Lines []LineID
}

// Restore replaces the store's entire contents with the given entities and
// resets the ID counters. It fully replaces, never merges: on success the
// previous lines and points are gone. On error the store is left untouched.
//
// Counters resume at one past the given values or one past the highest
// restored ID, whichever is larger, so future IDs never collide with
// restored ones even against a stale counter.
//
// Cross-references are checked for existence only: a sequence entry or
// membership entry naming an entity the snapshot never defines returns
// ErrInvalidSnapshot. Agreement between the two sides is trusted; run
// [Store.Validate] afterwards when the snapshot comes from an external
// source.
func (s *Store) Restore(lines []RestoredLine, points []RestoredPoint, nextLine LineID, nextPoint PointID) error {
	newLines := make(map[LineID]*Line, len(lines))
	newPoints := make(map[PointID]*Point, len(points))

	for _, rp := range points {
		if rp.ID <= 0 {
			return fmt.Errorf("point ID %d is not positive: %w", rp.ID, ErrInvalidSnapshot)
		}
		if _, dup := newPoints[rp.ID]; dup {
			return fmt.Errorf("duplicate point ID %d: %w", rp.ID, ErrInvalidSnapshot)
		}
		p := &Point{
			id:    rp.ID,
			lat:   rp.Lat,
			lng:   rp.Lng,
			lines: make(map[LineID]struct{}, len(rp.Lines)),
		}
		for _, lid := range rp.Lines {
			p.lines[lid] = struct{}{}
		}
		newPoints[rp.ID] = p
	}

	for _, rl := range lines {
		if rl.ID <= 0 {
			return fmt.Errorf("line ID %d is not positive: %w", rl.ID, ErrInvalidSnapshot)
		}
		if _, dup := newLines[rl.ID]; dup {
			return fmt.Errorf("duplicate line ID %d: %w", rl.ID, ErrInvalidSnapshot)
		}
		for _, pid := range rl.PointIDs {
			if _, ok := newPoints[pid]; !ok {
				return fmt.Errorf("line %d references undefined point %d: %w", rl.ID, pid, ErrInvalidSnapshot)
			}
		}
		name := rl.Name
		if name == "" {
			name = fmt.Sprintf("Line %d", rl.ID)
		}
		newLines[rl.ID] = &Line{
			id:       rl.ID,
			name:     name,
			color:    rl.Color,
			pointIDs: append([]PointID(nil), rl.PointIDs...),
		}
	}

	// Memberships may only name restored lines.
	for _, p := range newPoints {
		for lid := range p.lines {
			if _, ok := newLines[lid]; !ok {
				return fmt.Errorf("point %d references undefined line %d: %w", p.id, lid, ErrInvalidSnapshot)
			}
		}
	}

	for id := range newLines {
		if id >= nextLine {
			nextLine = id + 1
		}
	}
	for id := range newPoints {
		if id >= nextPoint {
			nextPoint = id + 1
		}
	}
	if nextLine < 1 {
		nextLine = 1
	}
	if nextPoint < 1 {
		nextPoint = 1
	}

	s.lines = newLines
	s.points = newPoints
	s.nextLineID = nextLine
	s.nextPointID = nextPoint
	return nil
}
