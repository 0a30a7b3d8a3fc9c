package network

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	// ErrLineNotFound is returned when an operation references a line ID
	// that does not exist in the store.
	ErrLineNotFound = errors.New("line not found")

	// ErrPointNotFound is returned when an operation references a point ID
	// that does not exist in the store.
	ErrPointNotFound = errors.New("point not found")

	// ErrInconsistent is returned by [Store.ProjectLine] and [Store.Validate]
	// when the bidirectional line/point bookkeeping disagrees, e.g. a line
	// references a point ID that is missing from the store. This indicates
	// store corruption and should never occur through the public API.
	ErrInconsistent = errors.New("network state is inconsistent")

	// ErrInvalidSnapshot is returned by [Store.Restore] when the restore data
	// is malformed (duplicate or non-positive IDs, or sequences referencing
	// entities the snapshot never defines). The store is left untouched.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// LineID identifies a transit line within a store.
// IDs are assigned from a strictly increasing counter and never reused.
type LineID int

// PointID identifies a stop within a store.
// IDs are assigned from a strictly increasing counter and never reused.
type PointID int

// Coordinate is a geographic position in GeoJSON order: longitude first.
type Coordinate [2]float64

// Lng returns the longitude component.
func (c Coordinate) Lng() float64 { return c[0] }

// Lat returns the latitude component.
func (c Coordinate) Lat() float64 { return c[1] }

// ColorFunc produces a display color for a newly created line.
// It must never fail; the store calls it exactly once per AddLine.
type ColorFunc func() string

// Position specifies where to insert a point into a line's stop sequence.
// The zero value means "append", so callers with no preference can pass
// Position{} or the clearer [AtEnd]. Out-of-range indices degrade to append
// rather than failing: insertion position is a preference, not a contract.
type Position struct {
	index int
	at    bool
}

// At returns a Position inserting at index i, shifting later stops right.
// A negative or past-the-end index appends instead.
func At(i int) Position { return Position{index: i, at: true} }

// AtEnd returns a Position appending to the end of the sequence.
func AtEnd() Position { return Position{} }

// resolve maps the position to a concrete index for a sequence of length n.
func (p Position) resolve(n int) int {
	if !p.at || p.index < 0 || p.index > n {
		return n
	}
	return p.index
}

// Point is a geographic stop. Points are owned by the store and may belong
// to several lines at once (a transfer stop). Identity and coordinates are
// fixed at creation; only the membership set changes, and only through
// store operations.
type Point struct {
	id    PointID
	lat   float64
	lng   float64
	lines map[LineID]struct{}
}

// ID returns the point's identifier.
func (p *Point) ID() PointID { return p.id }

// Lat returns the latitude.
func (p *Point) Lat() float64 { return p.lat }

// Lng returns the longitude.
func (p *Point) Lng() float64 { return p.lng }

// Coordinate returns the point's position in [lng, lat] order.
func (p *Point) Coordinate() Coordinate { return Coordinate{p.lng, p.lat} }

// Lines returns the IDs of all lines the point belongs to, sorted ascending.
func (p *Point) Lines() []LineID {
	return slices.Sorted(maps.Keys(p.lines))
}

// MemberOf reports whether the point belongs to the given line.
func (p *Point) MemberOf(id LineID) bool {
	_, ok := p.lines[id]
	return ok
}

// IsTransfer reports whether the point is shared by more than one line.
func (p *Point) IsTransfer() bool { return len(p.lines) > 1 }

// Line is a named, colored, ordered sequence of stop references.
// Lines are owned by the store; the stop sequence is mutated only through
// store operations so that point membership stays in sync.
type Line struct {
	id       LineID
	name     string
	color    string
	pointIDs []PointID
}

// ID returns the line's identifier.
func (l *Line) ID() LineID { return l.id }

// Name returns the display name.
func (l *Line) Name() string { return l.name }

// Color returns the display color assigned at creation.
func (l *Line) Color() string { return l.color }

// PointIDs returns a copy of the ordered stop sequence.
func (l *Line) PointIDs() []PointID { return slices.Clone(l.pointIDs) }

// Len returns the number of stops on the line.
// Duplicate entries count once per occurrence.
func (l *Line) Len() int { return len(l.pointIDs) }

// insert places id at the resolved position, shifting later stops right.
func (l *Line) insert(id PointID, pos Position) {
	l.pointIDs = slices.Insert(l.pointIDs, pos.resolve(len(l.pointIDs)), id)
}

// Store owns all points and lines of a planning session and is the sole
// mutation authority over them. Every mutation that associates a point with
// a line updates both the line's stop sequence and the point's membership
// set within the same call, so observers never see a half-updated state.
//
// The zero value is not usable - use New. Store is not safe for concurrent
// use without external synchronization; all operations are synchronous and
// perform no I/O.
type Store struct {
	lines  map[LineID]*Line
	points map[PointID]*Point

	nextLineID  LineID
	nextPointID PointID

	colors ColorFunc
}

// New creates an empty store. colors supplies display colors for new lines;
// if nil, a small built-in cycle is used. ID counters start at 1.
func New(colors ColorFunc) *Store {
	if colors == nil {
		colors = defaultColors()
	}
	return &Store{
		lines:       make(map[LineID]*Line),
		points:      make(map[PointID]*Point),
		nextLineID:  1,
		nextPointID: 1,
		colors:      colors,
	}
}

// fallbackColors is used when no ColorFunc is supplied.
var fallbackColors = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#bcf60c", "#008080",
}

func defaultColors() ColorFunc {
	i := 0
	return func() string {
		c := fallbackColors[i%len(fallbackColors)]
		i++
		return c
	}
}

// AddLine creates a new empty line named "Line {id}" with a freshly
// generated color, stores it and returns it. AddLine never fails.
func (s *Store) AddLine() *Line {
	id := s.nextLineID
	s.nextLineID++
	l := &Line{
		id:    id,
		name:  fmt.Sprintf("Line %d", id),
		color: s.colors(),
	}
	s.lines[id] = l
	return l
}

// AddPoint creates a new point at (lat, lng), inserts it into the given
// line at pos and registers the membership on the point. Returns
// ErrLineNotFound if the line does not exist; in that case no point is
// allocated and no counter advances.
func (s *Store) AddPoint(lat, lng float64, lineID LineID, pos Position) (*Point, error) {
	l, ok := s.lines[lineID]
	if !ok {
		return nil, fmt.Errorf("add point to line %d: %w", lineID, ErrLineNotFound)
	}

	id := s.nextPointID
	s.nextPointID++
	p := &Point{
		id:    id,
		lat:   lat,
		lng:   lng,
		lines: map[LineID]struct{}{lineID: {}},
	}
	s.points[id] = p
	l.insert(id, pos)
	return p, nil
}

// AddPointToLine inserts an existing point into an existing line at pos and
// registers the membership on the point. This is how a stop becomes shared
// across lines. A point may appear several times on the same line; repeated
// insertion is a pass-through, not an error.
//
// Returns ErrPointNotFound or ErrLineNotFound if either ID is unknown; the
// store is not modified in that case.
func (s *Store) AddPointToLine(pointID PointID, lineID LineID, pos Position) error {
	p, ok := s.points[pointID]
	if !ok {
		return fmt.Errorf("point %d: %w", pointID, ErrPointNotFound)
	}
	l, ok := s.lines[lineID]
	if !ok {
		return fmt.Errorf("line %d: %w", lineID, ErrLineNotFound)
	}

	p.lines[lineID] = struct{}{}
	l.insert(pointID, pos)
	return nil
}

// RenameLine sets the line's display name.
// Returns ErrLineNotFound if the line does not exist.
func (s *Store) RenameLine(id LineID, name string) error {
	l, ok := s.lines[id]
	if !ok {
		return fmt.Errorf("line %d: %w", id, ErrLineNotFound)
	}
	l.name = name
	return nil
}

// Line returns the line with the given ID and true, or nil and false.
// Absence is a normal outcome in query contexts, not an error.
func (s *Store) Line(id LineID) (*Line, bool) {
	l, ok := s.lines[id]
	return l, ok
}

// Point returns the point with the given ID and true, or nil and false.
func (s *Store) Point(id PointID) (*Point, bool) {
	p, ok := s.points[id]
	return p, ok
}

// Lines returns all lines sorted by ID.
func (s *Store) Lines() []*Line {
	out := make([]*Line, 0, len(s.lines))
	for _, id := range slices.Sorted(maps.Keys(s.lines)) {
		out = append(out, s.lines[id])
	}
	return out
}

// Points returns all points sorted by ID.
func (s *Store) Points() []*Point {
	out := make([]*Point, 0, len(s.points))
	for _, id := range slices.Sorted(maps.Keys(s.points)) {
		out = append(out, s.points[id])
	}
	return out
}

// LineCount returns the number of lines in the store.
func (s *Store) LineCount() int { return len(s.lines) }

// PointCount returns the number of points in the store.
func (s *Store) PointCount() int { return len(s.points) }

// NextLineID returns the value the line counter will assign next.
func (s *Store) NextLineID() LineID { return s.nextLineID }

// NextPointID returns the value the point counter will assign next.
func (s *Store) NextPointID() PointID { return s.nextPointID }

// ProjectLine resolves the line's stop sequence to an ordered coordinate
// sequence in [lng, lat] order, suitable for a LineString geometry. The
// result preserves the exact stop order and has one coordinate per stop.
//
// Returns ErrLineNotFound for an unknown line. A stop ID present in the
// sequence but absent from the store surfaces as ErrInconsistent rather
// than a silent gap in the output.
func (s *Store) ProjectLine(id LineID) ([]Coordinate, error) {
	l, ok := s.lines[id]
	if !ok {
		return nil, fmt.Errorf("line %d: %w", id, ErrLineNotFound)
	}

	coords := make([]Coordinate, len(l.pointIDs))
	for i, pid := range l.pointIDs {
		p, ok := s.points[pid]
		if !ok {
			return nil, fmt.Errorf("line %d references missing point %d: %w", id, pid, ErrInconsistent)
		}
		coords[i] = p.Coordinate()
	}
	return coords, nil
}

// Validate checks the bidirectional consistency invariant: for every line L
// and point P, P is in L's stop sequence exactly when L is in P's membership
// set. Returns ErrInconsistent describing the first violation found, or nil.
//
// Restore trusts snapshot cross-references beyond existence, so Validate is
// the optional deep check to run after loading external data.
func (s *Store) Validate() error {
	for id, l := range s.lines {
		seen := make(map[PointID]struct{}, len(l.pointIDs))
		for _, pid := range l.pointIDs {
			seen[pid] = struct{}{}
			p, ok := s.points[pid]
			if !ok {
				return fmt.Errorf("line %d references missing point %d: %w", id, pid, ErrInconsistent)
			}
			if !p.MemberOf(id) {
				return fmt.Errorf("point %d missing membership of line %d: %w", pid, id, ErrInconsistent)
			}
		}
		// The reverse direction: membership without a sequence entry.
		for _, p := range s.points {
			if _, member := p.lines[id]; member {
				if _, inSeq := seen[p.id]; !inSeq {
					return fmt.Errorf("point %d claims membership of line %d but is not on it: %w", p.id, id, ErrInconsistent)
				}
			}
		}
	}
	for _, p := range s.points {
		for lid := range p.lines {
			if _, ok := s.lines[lid]; !ok {
				return fmt.Errorf("point %d references missing line %d: %w", p.id, lid, ErrInconsistent)
			}
		}
	}
	return nil
}
