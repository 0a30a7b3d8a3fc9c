// Package geojson converts network state into GeoJSON for map display.
// Coordinates follow the GeoJSON convention: longitude first.
package geojson

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/lineplanner/pkg/network"
)

// GeoJSON object types.
const (
	TypeFeatureCollection = "FeatureCollection"
	TypeFeature           = "Feature"
	TypeLineString        = "LineString"
	TypePoint             = "Point"
)

// FeatureCollection is a standard GeoJSON feature collection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single geographic feature with geometry and properties.
type Feature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   Geometry       `json:"geometry"`
}

// Geometry holds a GeoJSON geometry. Coordinates is [lng, lat] for a
// Point and an ordered sequence of such pairs for a LineString.
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// LineFeature projects a line to a single-feature LineString, the
// canonical "give me drawable geometry" shape. The coordinate sequence
// preserves the line's stop order exactly, one pair per stop.
//
// Errors pass through from network.Store.ProjectLine: ErrLineNotFound for
// an unknown line, ErrInconsistent for a dangling stop reference.
func LineFeature(s *network.Store, id network.LineID) (Feature, error) {
	l, ok := s.Line(id)
	if !ok {
		return Feature{}, fmt.Errorf("line %d: %w", id, network.ErrLineNotFound)
	}
	coords, err := s.ProjectLine(id)
	if err != nil {
		return Feature{}, err
	}

	return Feature{
		Type: TypeFeature,
		Properties: map[string]any{
			"id":    int(l.ID()),
			"name":  l.Name(),
			"color": l.Color(),
		},
		Geometry: Geometry{
			Type:        TypeLineString,
			Coordinates: coords,
		},
	}, nil
}

// PointFeature converts a single stop to a GeoJSON Point feature.
// Transfer stops (shared by several lines) carry "transfer": true.
func PointFeature(p *network.Point) Feature {
	return Feature{
		Type: TypeFeature,
		Properties: map[string]any{
			"id":       int(p.ID()),
			"lines":    lineIDs(p),
			"transfer": p.IsTransfer(),
		},
		Geometry: Geometry{
			Type:        TypePoint,
			Coordinates: p.Coordinate(),
		},
	}
}

// Collection projects the whole network: one LineString feature per line
// followed by one Point feature per stop, both in ascending ID order.
func Collection(s *network.Store) (FeatureCollection, error) {
	fc := FeatureCollection{
		Type:     TypeFeatureCollection,
		Features: make([]Feature, 0, s.LineCount()+s.PointCount()),
	}
	for _, l := range s.Lines() {
		f, err := LineFeature(s, l.ID())
		if err != nil {
			return FeatureCollection{}, err
		}
		fc.Features = append(fc.Features, f)
	}
	for _, p := range s.Points() {
		fc.Features = append(fc.Features, PointFeature(p))
	}
	return fc, nil
}

// Marshal serializes a feature collection with indentation for readability.
func Marshal(fc FeatureCollection) ([]byte, error) {
	return json.MarshalIndent(fc, "", "  ")
}

func lineIDs(p *network.Point) []int {
	ids := p.Lines()
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}
