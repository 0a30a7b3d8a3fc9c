package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matzehuels/lineplanner/pkg/network"
	"github.com/matzehuels/lineplanner/pkg/snapshot"
	"github.com/matzehuels/lineplanner/pkg/storage"
)

// testColors returns a deterministic color sequence for tests.
func testColors() network.ColorFunc {
	colors := []string{"#ff0000", "#00ff00", "#0000ff"}
	i := 0
	return func() string {
		c := colors[i%len(colors)]
		i++
		return c
	}
}

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	s := New(network.New(testColors()), WithStorage(storage.NewMemoryStore()))
	return s, s.Handler()
}

// do sends a request with an optional JSON body and returns the response.
func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestCreateLine(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/lines", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	line := decode[lineView](t, rec)
	if line.ID != 1 || line.Name != "Line 1" || line.Color != "#ff0000" {
		t.Errorf("line = %+v", line)
	}

	rec = do(t, h, http.MethodPost, "/lines", createLineRequest{Name: "Tram 7"})
	line = decode[lineView](t, rec)
	if line.ID != 2 || line.Name != "Tram 7" {
		t.Errorf("named line = %+v", line)
	}
}

func TestCreateLineRejectsBadName(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, http.MethodPost, "/lines", createLineRequest{Name: "bad\x00name"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAddPointToLine(t *testing.T) {
	_, h := newTestServer(t)
	do(t, h, http.MethodPost, "/lines", nil)

	rec := do(t, h, http.MethodPost, "/lines/1/points", addPointRequest{Lat: 48.1, Lng: 11.5})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	p := decode[pointView](t, rec)
	if p.ID != 1 || p.Lat != 48.1 || p.Lng != 11.5 {
		t.Errorf("point = %+v", p)
	}
	if len(p.Lines) != 1 || p.Lines[0] != 1 {
		t.Errorf("point lines = %v, want [1]", p.Lines)
	}
}

func TestAddPointUnknownLine(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, http.MethodPost, "/lines/42/points", addPointRequest{Lat: 1, Lng: 2})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", rec.Code, rec.Body.String())
	}
}

func TestAddPointAtIndex(t *testing.T) {
	_, h := newTestServer(t)
	do(t, h, http.MethodPost, "/lines", nil)
	do(t, h, http.MethodPost, "/lines/1/points", addPointRequest{Lat: 1, Lng: 1})
	do(t, h, http.MethodPost, "/lines/1/points", addPointRequest{Lat: 2, Lng: 2})

	// Insert between the two existing stops.
	idx := 1
	do(t, h, http.MethodPost, "/lines/1/points", addPointRequest{Lat: 1.5, Lng: 1.5, Index: &idx})

	rec := do(t, h, http.MethodGet, "/lines/1", nil)
	line := decode[lineView](t, rec)
	want := []network.PointID{1, 3, 2}
	if fmt.Sprint(line.PointIDs) != fmt.Sprint(want) {
		t.Errorf("point ids = %v, want %v", line.PointIDs, want)
	}
}

func TestAttachExistingPoint(t *testing.T) {
	_, h := newTestServer(t)
	do(t, h, http.MethodPost, "/lines", nil)
	do(t, h, http.MethodPost, "/lines", nil)
	do(t, h, http.MethodPost, "/lines/1/points", addPointRequest{Lat: 1, Lng: 1})

	rec := do(t, h, http.MethodPut, "/lines/2/points/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/points/1", nil)
	p := decode[pointView](t, rec)
	if !p.Transfer || len(p.Lines) != 2 {
		t.Errorf("point = %+v, want transfer stop on two lines", p)
	}
}

func TestRenameLine(t *testing.T) {
	_, h := newTestServer(t)
	do(t, h, http.MethodPost, "/lines", nil)

	rec := do(t, h, http.MethodPatch, "/lines/1", renameLineRequest{Name: "U-Bahn 3"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	line := decode[lineView](t, rec)
	if line.Name != "U-Bahn 3" {
		t.Errorf("name = %q", line.Name)
	}

	rec = do(t, h, http.MethodPatch, "/lines/9", renameLineRequest{Name: "x"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("rename missing line status = %d, want 404", rec.Code)
	}
}

func TestLinePathGeoJSON(t *testing.T) {
	_, h := newTestServer(t)
	do(t, h, http.MethodPost, "/lines", nil)
	do(t, h, http.MethodPost, "/lines/1/points", addPointRequest{Lat: 48.1, Lng: 11.5})
	do(t, h, http.MethodPost, "/lines/1/points", addPointRequest{Lat: 48.2, Lng: 11.6})

	rec := do(t, h, http.MethodGet, "/lines/1/path", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var feature struct {
		Type     string `json:"type"`
		Geometry struct {
			Type        string       `json:"type"`
			Coordinates [][2]float64 `json:"coordinates"`
		} `json:"geometry"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &feature); err != nil {
		t.Fatal(err)
	}
	if feature.Geometry.Type != "LineString" {
		t.Errorf("geometry type = %q", feature.Geometry.Type)
	}
	// Coordinates are [lng, lat].
	if got := feature.Geometry.Coordinates[0]; got != [2]float64{11.5, 48.1} {
		t.Errorf("first coordinate = %v, want [11.5 48.1]", got)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	_, h := newTestServer(t)
	do(t, h, http.MethodPost, "/lines", createLineRequest{Name: "Express"})
	do(t, h, http.MethodPost, "/lines/1/points", addPointRequest{Lat: 1, Lng: 2})

	rec := do(t, h, http.MethodGet, "/network", nil)
	snap := decode[snapshot.Snapshot](t, rec)
	if len(snap.Lines) != 1 || len(snap.Points) != 1 {
		t.Fatalf("export = %+v", snap)
	}

	// Import into a fresh server and check the state came through.
	_, h2 := newTestServer(t)
	rec = do(t, h2, http.MethodPut, "/network", snap)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("import status = %d: %s", rec.Code, rec.Body.String())
	}
	rec = do(t, h2, http.MethodGet, "/lines/1", nil)
	line := decode[lineView](t, rec)
	if line.Name != "Express" {
		t.Errorf("imported line = %+v", line)
	}
}

func TestImportRejectsDanglingReference(t *testing.T) {
	_, h := newTestServer(t)
	do(t, h, http.MethodPost, "/lines", nil)

	body := []byte(`{
		"lines": {"1": {"id": 1, "name": "L", "color": "#fff", "point_ids": [99]}},
		"points": {},
		"line_id_counter": 2,
		"point_id_counter": 1
	}`)
	req := httptest.NewRequest(http.MethodPut, "/network", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}

	// The previous state must survive a failed import.
	rec = do(t, h, http.MethodGet, "/lines/1", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("prior state lost after failed import: status = %d", rec.Code)
	}
}

func TestSnapshotSaveAndRestore(t *testing.T) {
	_, h := newTestServer(t)
	do(t, h, http.MethodPost, "/lines", createLineRequest{Name: "Night Bus"})
	do(t, h, http.MethodPost, "/lines/1/points", addPointRequest{Lat: 5, Lng: 6})

	rec := do(t, h, http.MethodPost, "/snapshots", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("save status = %d: %s", rec.Code, rec.Body.String())
	}
	saved := decode[snapshotView](t, rec)
	if saved.LineCount != 1 || saved.PointCount != 1 {
		t.Errorf("saved = %+v", saved)
	}

	// Mutate, then restore to the saved state.
	do(t, h, http.MethodPost, "/lines", nil)
	rec = do(t, h, http.MethodPost, "/snapshots/"+saved.ID+"/restore", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("restore status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/lines", nil)
	lines := decode[[]lineView](t, rec)
	if len(lines) != 1 || lines[0].Name != "Night Bus" {
		t.Errorf("lines after restore = %+v", lines)
	}

	rec = do(t, h, http.MethodGet, "/snapshots", nil)
	if views := decode[[]snapshotView](t, rec); len(views) != 1 {
		t.Errorf("snapshot list = %+v", views)
	}
}

func TestRestoreUnknownSnapshot(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, http.MethodPost, "/snapshots/nope/restore", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestInvalidIDParam(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/lines/abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	s := New(network.New(testColors()), WithCORSOrigins([]string{"http://localhost:3000"}))
	h := s.Handler()

	req := httptest.NewRequest(http.MethodOptions, "/lines", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allow-origin = %q", got)
	}

	// Unlisted origins get no CORS headers.
	req = httptest.NewRequest(http.MethodGet, "/lines", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("allow-origin for unlisted origin = %q, want empty", got)
	}
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
