// Package pkg provides the core libraries for lineplanner network editing.
//
// # Overview
//
// Lineplanner keeps a transit network plan in memory and exposes it for
// editing, export and persistence. The pkg directory is organized into
// five main areas:
//
//  1. [network] - Domain logic (lines, stops, consistency rules)
//  2. [snapshot] - Full-state serialization and restore
//  3. [geojson] / [netmap] - Export formats (map features, diagrams)
//  4. [storage] - Snapshot persistence backends (memory, file, redis, mongo)
//  5. [palette] / [errors] / [observability] - Shared supporting pieces
//
// # Architecture
//
// The typical data flow through lineplanner:
//
//	HTTP API / CLI
//	         ↓
//	    [network] package (mutate lines and stops)
//	         ↓
//	    [snapshot] package (export full state)
//	         ↓
//	    [storage] / [geojson] / [netmap] output
//
// # Quick Start
//
// Build a small network and export it as GeoJSON:
//
//	import (
//	    "github.com/matzehuels/lineplanner/pkg/geojson"
//	    "github.com/matzehuels/lineplanner/pkg/network"
//	    "github.com/matzehuels/lineplanner/pkg/palette"
//	)
//
//	// 1. Create a network with generated line colors
//	gen := palette.New()
//	net := network.New(gen.Next)
//
//	// 2. Add a line with two stops
//	l := net.AddLine()
//	net.AddPoint(48.137, 11.575, l.ID(), network.AtEnd())
//	net.AddPoint(48.140, 11.561, l.ID(), network.AtEnd())
//
//	// 3. Export map features
//	fc, _ := geojson.Collection(net)
//	data, _ := geojson.Marshal(fc)
//
// The network store is the single mutation authority: line membership is
// tracked on both the line and the stop, and the store keeps the two
// views consistent on every operation.
package pkg
