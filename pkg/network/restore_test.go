package network

import (
	"errors"
	"slices"
	"testing"
)

func TestRestore(t *testing.T) {
	s := New(nil)
	s.AddLine() // pre-existing state that must be fully replaced

	err := s.Restore(
		[]RestoredLine{
			{ID: 3, Name: "U3", Color: "#ff0000", PointIDs: []PointID{5, 7}},
		},
		[]RestoredPoint{
			{ID: 5, Lat: 48.1, Lng: 11.5, Lines: []LineID{3}},
			{ID: 7, Lat: 48.2, Lng: 11.6, Lines: []LineID{3}},
		},
		4, 8,
	)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if s.LineCount() != 1 || s.PointCount() != 2 {
		t.Fatalf("counts = %d/%d, want 1/2", s.LineCount(), s.PointCount())
	}
	l, ok := s.Line(3)
	if !ok {
		t.Fatal("line 3 missing")
	}
	if l.Name() != "U3" || l.Color() != "#ff0000" {
		t.Errorf("line = {%q %q}", l.Name(), l.Color())
	}
	if !slices.Equal(l.PointIDs(), []PointID{5, 7}) {
		t.Errorf("pointIDs = %v, want [5 7]", l.PointIDs())
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	// Counters resume past the restored values.
	if s.AddLine().ID() != 4 {
		t.Errorf("next line ID = %d, want 4", s.NextLineID()-1)
	}
	p, _ := s.AddPoint(1, 1, 4, AtEnd())
	if p.ID() != 8 {
		t.Errorf("next point ID = %d, want 8", p.ID())
	}
}

func TestRestoreClampsStaleCounters(t *testing.T) {
	s := New(nil)
	err := s.Restore(
		[]RestoredLine{{ID: 9, Name: "Line 9"}},
		[]RestoredPoint{{ID: 12, Lat: 0, Lng: 0}},
		1, 1, // stale counters from a corrupted snapshot
	)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if s.NextLineID() != 10 {
		t.Errorf("next line ID = %d, want 10", s.NextLineID())
	}
	if s.NextPointID() != 13 {
		t.Errorf("next point ID = %d, want 13", s.NextPointID())
	}
}

func TestRestoreInvalid(t *testing.T) {
	tests := []struct {
		name   string
		lines  []RestoredLine
		points []RestoredPoint
	}{
		{
			name:  "LineReferencesUndefinedPoint",
			lines: []RestoredLine{{ID: 1, PointIDs: []PointID{42}}},
		},
		{
			name:   "PointReferencesUndefinedLine",
			points: []RestoredPoint{{ID: 1, Lines: []LineID{42}}},
		},
		{
			name:  "DuplicateLineID",
			lines: []RestoredLine{{ID: 1}, {ID: 1}},
		},
		{
			name:   "DuplicatePointID",
			points: []RestoredPoint{{ID: 2}, {ID: 2}},
		},
		{
			name:  "NonPositiveLineID",
			lines: []RestoredLine{{ID: 0}},
		},
		{
			name:   "NonPositivePointID",
			points: []RestoredPoint{{ID: -1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(nil)
			l := s.AddLine()

			err := s.Restore(tt.lines, tt.points, 5, 5)
			if !errors.Is(err, ErrInvalidSnapshot) {
				t.Fatalf("err = %v, want ErrInvalidSnapshot", err)
			}
			// All-or-nothing: prior state survives a failed load.
			if _, ok := s.Line(l.ID()); !ok {
				t.Error("failed restore discarded prior state")
			}
			if s.NextLineID() != 2 {
				t.Errorf("line counter = %d, want 2", s.NextLineID())
			}
		})
	}
}

func TestRestoreEmptySnapshot(t *testing.T) {
	s := New(nil)
	s.AddLine()

	if err := s.Restore(nil, nil, 0, 0); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if s.LineCount() != 0 || s.PointCount() != 0 {
		t.Error("store not emptied")
	}
	if s.NextLineID() != 1 || s.NextPointID() != 1 {
		t.Errorf("counters = %d/%d, want 1/1", s.NextLineID(), s.NextPointID())
	}
}

func TestRestoreDefaultsLineName(t *testing.T) {
	s := New(nil)
	if err := s.Restore([]RestoredLine{{ID: 2}}, nil, 3, 1); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	l, _ := s.Line(2)
	if l.Name() != "Line 2" {
		t.Errorf("name = %q, want %q", l.Name(), "Line 2")
	}
}
