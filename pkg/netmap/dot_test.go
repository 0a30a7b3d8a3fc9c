package netmap

import (
	"strings"
	"testing"

	"github.com/matzehuels/lineplanner/pkg/network"
)

func buildStore(t *testing.T) *network.Store {
	t.Helper()
	s := network.New(func() string { return "#336699" })

	l1 := s.AddLine()
	for i := 0; i < 3; i++ {
		if _, err := s.AddPoint(float64(i), float64(i), l1.ID(), network.AtEnd()); err != nil {
			t.Fatal(err)
		}
	}

	// Second line sharing stop 2.
	l2 := s.AddLine()
	if err := s.AddPointToLine(2, l2.ID(), network.AtEnd()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddPoint(9, 9, l2.ID(), network.AtEnd()); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(buildStore(t), Options{})

	if !strings.HasPrefix(dot, "graph network {") {
		t.Errorf("missing graph header:\n%s", dot)
	}
	// One edge per consecutive stop pair: line 1 has 3 stops (2 edges),
	// line 2 has 2 stops (1 edge).
	if got := strings.Count(dot, " -- "); got != 3 {
		t.Errorf("edge count = %d, want 3", got)
	}
	if !strings.Contains(dot, `2 -- 3 [color="#336699"`) {
		t.Errorf("missing colored edge:\n%s", dot)
	}
	// The shared stop gets a doubled outline.
	if !strings.Contains(dot, `2 [label="2", peripheries=2]`) {
		t.Errorf("transfer stop not emphasized:\n%s", dot)
	}
	if !strings.Contains(dot, `tooltip="Line 1"`) {
		t.Errorf("missing line tooltip:\n%s", dot)
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(buildStore(t), Options{Detailed: true})

	if !strings.Contains(dot, "lines:") {
		t.Errorf("detailed label missing memberships:\n%s", dot)
	}
	if !strings.Contains(dot, "(0.0000, 0.0000)") {
		t.Errorf("detailed label missing coordinates:\n%s", dot)
	}
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT(network.New(nil), Options{})
	if !strings.HasPrefix(dot, "graph network {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("empty network produced malformed DOT:\n%s", dot)
	}
}

func TestToDOTDeterministic(t *testing.T) {
	s := buildStore(t)
	if ToDOT(s, Options{}) != ToDOT(s, Options{}) {
		t.Error("DOT output not deterministic")
	}
}
