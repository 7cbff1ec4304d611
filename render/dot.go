package render

import (
	"bytes"
	"fmt"

	"github.com/TFMV/skillgraph/physics"
)

// DOTRenderer outputs Graphviz DOT with pinned positions
type DOTRenderer struct{}

// Name returns the name of the renderer
func (r *DOTRenderer) Name() string {
	return "DOT Renderer"
}

// Description returns a description of the renderer
func (r *DOTRenderer) Description() string {
	return "Renders the skill network in Graphviz DOT format; use neato -n to keep positions"
}

// Render creates a DOT representation of the snapshot
func (r *DOTRenderer) Render(snap *physics.Snapshot, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer
	palette := paletteOf(options)

	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  graph [bgcolor=%q, size=\"%g,%g\"];\n",
		palette.Background, options.Width/72.0, options.Height/72.0)
	buf.WriteString("  node [shape=circle, style=filled, fontname=\"Arial\", fontcolor=\"white\"];\n")

	for _, n := range snap.Nodes {
		// DOT's y axis points up
		fmt.Fprintf(&buf, "  %q [fillcolor=%q, width=%.3f, pos=\"%.2f,%.2f!\"];\n",
			n.ID, palette.Color(n.Group), 2*BodyRadius(n.Radius)/72.0, n.X, options.Height-n.Y)
	}

	for _, l := range snap.Links {
		fmt.Fprintf(&buf, "  %q -- %q [penwidth=%g, color=\"#ffffff66\"];\n", l.SourceID, l.TargetID, l.Weight)
	}

	buf.WriteString("}\n")
	return buf.Bytes(), nil
}
