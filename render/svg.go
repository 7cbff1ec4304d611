package render

import (
	"bytes"
	"fmt"
	"html"
	"time"

	"github.com/TFMV/skillgraph/physics"
)

// SVGRenderer outputs SVG format
type SVGRenderer struct{}

// Name returns the name of the renderer
func (r *SVGRenderer) Name() string {
	return "SVG Renderer"
}

// Description returns a description of the renderer
func (r *SVGRenderer) Description() string {
	return "Renders the skill network as Scalable Vector Graphics with pulsing halos"
}

// Render creates an SVG representation of the snapshot
func (r *SVGRenderer) Render(snap *physics.Snapshot, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer
	palette := paletteOf(options)
	pulse := NewPulse(options.NoiseSeed, options.NoiseIntensity)

	fmt.Fprintf(&buf, `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%g" height="%g" viewBox="0 0 %g %g" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
<defs>
  <filter id="shadow" x="-50%%" y="-50%%" width="200%%" height="200%%">
    <feDropShadow dx="0" dy="4" stdDeviation="3" flood-color="rgba(0,0,0,0.2)"/>
  </filter>
</defs>
`, options.Width, options.Height, options.Width, options.Height, palette.Background)

	// Links first so nodes paint over them
	byID := positions(snap)
	buf.WriteString("<g class=\"links\">\n")
	for _, link := range snap.Links {
		source, okSource := byID[link.SourceID]
		target, okTarget := byID[link.TargetID]
		if !okSource || !okTarget {
			continue
		}
		fmt.Fprintf(&buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%g"/>
`, source.X, source.Y, target.X, target.Y, palette.LinkColor, link.Weight)
	}
	buf.WriteString("</g>\n")

	buf.WriteString("<g class=\"nodes\">\n")
	for i, node := range snap.Nodes {
		color := palette.Color(node.Group)
		scale, opacity := pulse.At(i, snap.Tick)

		fmt.Fprintf(&buf, `  <g transform="translate(%.2f,%.2f)">
    <circle r="%.2f" fill="%s" fill-opacity="%.3f"/>
    <circle r="%.2f" fill="%s" stroke="#fff" stroke-width="2" filter="url(#shadow)"/>
`, node.X, node.Y, HaloRadius(node.Radius)*scale, color, opacity, BodyRadius(node.Radius), color)

		if options.ShowLabels {
			fmt.Fprintf(&buf, `    <text dy="%.2f" text-anchor="middle" font-family="sans-serif" font-size="12" font-weight="bold" fill="%s" stroke="#fff" stroke-width="3" paint-order="stroke">%s</text>
`, LabelOffset(node.Radius), palette.TextColor, html.EscapeString(node.ID))
		}
		buf.WriteString("  </g>\n")
	}
	buf.WriteString("</g>\n")

	if options.ShowLegend {
		writeSVGLegend(&buf, palette)
	}

	if options.Timestamp {
		fmt.Fprintf(&buf, `<text x="5" y="%g" font-family="sans-serif" font-size="8" fill="#cbd5e1">%s</text>
`, options.Height-5, time.Now().Format("2006-01-02 15:04:05"))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func writeSVGLegend(buf *bytes.Buffer, palette *Palette) {
	entries := palette.Legend()
	height := 12 + 18*len(entries)
	fmt.Fprintf(buf, `<g class="legend" transform="translate(24,24)">
  <rect width="140" height="%d" rx="12" fill="rgba(255,255,255,0.8)"/>
`, height)
	for i, e := range entries {
		y := 18 + 18*i
		fmt.Fprintf(buf, `  <circle cx="16" cy="%d" r="6" fill="%s"/>
  <text x="28" y="%d" font-family="sans-serif" font-size="12" font-weight="bold" fill="#334155">%s</text>
`, y, e.Color, y+4, html.EscapeString(e.Label))
	}
	buf.WriteString("</g>\n")
}
