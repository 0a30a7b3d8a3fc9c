// Package netmap renders a network as a schematic node-link diagram:
// stops become nodes, consecutive stops on a line become edges in the
// line's color. The output is Graphviz DOT, rendered to SVG with
// [RenderSVG].
//
// This is a topology view, not a map: Graphviz chooses positions, so the
// diagram shows connections and transfers rather than geography. Use
// pkg/geojson for geographically faithful output.
package netmap

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/lineplanner/pkg/network"
)

// Options configures diagram generation.
type Options struct {
	// Detailed includes coordinates and line memberships in stop labels.
	// When false, only the stop ID is shown.
	Detailed bool
}

// ToDOT converts a network to Graphviz DOT format.
// Transfer stops (shared by several lines) are drawn with a doubled
// outline. Output is deterministic: stops and lines in ascending ID order.
func ToDOT(s *network.Store, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph network {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=12];\n")
	buf.WriteString("  edge [penwidth=3];\n")
	buf.WriteString("\n")

	for _, p := range s.Points() {
		fmt.Fprintf(&buf, "  %d [%s];\n", p.ID(), stopAttrs(p, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, l := range s.Lines() {
		ids := l.PointIDs()
		for i := 0; i+1 < len(ids); i++ {
			fmt.Fprintf(&buf, "  %d -- %d [color=%q, tooltip=%q];\n",
				ids[i], ids[i+1], l.Color(), l.Name())
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func stopAttrs(p *network.Point, detailed bool) string {
	label := fmt.Sprintf("%d", p.ID())
	if detailed {
		label = fmt.Sprintf("%d\\n(%.4f, %.4f)\\nlines: %v", p.ID(), p.Lat(), p.Lng(), p.Lines())
	}

	attrs := fmt.Sprintf("label=%q", label)
	if p.IsTransfer() {
		attrs += ", peripheries=2"
	}
	return attrs
}
