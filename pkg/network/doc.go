// Package network implements the in-memory point/line graph at the heart of
// the line planner: geographic stops shared among named, ordered transit
// lines.
//
// # Architecture
//
// The [Store] owns every [Point] and [Line] and is the sole mutation
// authority. Entities are passive records addressed by integer IDs; cross
// references are plain IDs rather than pointers, so the store's maps are the
// single owner and there are no ownership cycles.
//
// Every operation that associates a point with a line updates both the
// line's ordered stop sequence and the point's membership set in the same
// call. The invariant maintained for all reachable states:
//
//	P.ID ∈ L.PointIDs  ⇔  L.ID ∈ P.Lines
//
// # Usage
//
//	s := network.New(palette.New().Next)
//	l := s.AddLine()                                  // "Line 1"
//	a, _ := s.AddPoint(48.13, 11.57, l.ID(), network.AtEnd())
//	b, _ := s.AddPoint(48.14, 11.58, l.ID(), network.AtEnd())
//
//	// Share a stop with a second line (a transfer).
//	m := s.AddLine()
//	_ = s.AddPointToLine(a.ID(), m.ID(), network.AtEnd())
//
//	coords, _ := s.ProjectLine(l.ID()) // ordered [lng, lat] pairs
//	_ = coords
//	_ = b
//
// # Concurrency
//
// The store follows a single-writer model: operations are synchronous,
// perform no I/O and must not interleave. Callers that expose a store to
// multiple goroutines (e.g. an HTTP server) must serialize access
// externally.
package network
