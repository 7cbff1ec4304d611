// Package render turns layout snapshots into SVG, ECharts HTML, JSON, DOT
// and ASCII output.
package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/TFMV/skillgraph/models"
	"github.com/TFMV/skillgraph/physics"
)

// OutputOptions defines rendering configuration options
type OutputOptions struct {
	Format         string   // Output format (svg, html, json, dot, ascii)
	Width          float64  // Width of the viewport
	Height         float64  // Height of the viewport
	NoiseIntensity float64  // Strength of the halo pulse (0 disables it)
	NoiseSeed      int64    // Seed of the pulse noise field
	Timestamp      bool     // Include timestamp in visualization
	ShowLabels     bool     // Show node labels
	ShowLegend     bool     // Show the group legend
	Title          string   // Title for formats that have one
	Palette        *Palette // Group colors, DefaultPalette when nil
}

// Renderer interface defines methods that all rendering backends must implement
type Renderer interface {
	// Render draws one snapshot using the provided options
	Render(snap *physics.Snapshot, options *OutputOptions) ([]byte, error)

	// Name returns the name of the renderer
	Name() string

	// Description returns a description of the renderer
	Description() string
}

// NewDefaultOptions creates a default set of output options
func NewDefaultOptions(format string) *OutputOptions {
	return &OutputOptions{
		Format:         format,
		Width:          800,
		Height:         600,
		NoiseIntensity: 0.5,
		NoiseSeed:      1,
		ShowLabels:     true,
		ShowLegend:     true,
		Title:          "Skill Network",
		Palette:        DefaultPalette(),
	}
}

// GetRenderer returns the appropriate renderer based on format
func GetRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "svg":
		return &SVGRenderer{}, nil
	case "html", "echarts":
		return &EChartsRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "dot":
		return &DOTRenderer{}, nil
	case "ascii":
		return &ASCIIRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// Settle runs layout over model for up to iterations ticks, or until it
// reports itself settled, and returns the final snapshot.
func Settle(ctx context.Context, model *models.Graph, layout physics.LayoutAlgorithm, iterations int) (*physics.Snapshot, error) {
	layout.Initialize(model)
	for i := 0; i < iterations; i++ {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("layout interrupted after %d ticks: %w", i, err)
			}
		}
		if layout.Step() {
			break
		}
	}
	return layout.Snapshot(), nil
}

// GenerateWithOptions lays out model headlessly and renders the result
func GenerateWithOptions(ctx context.Context, model *models.Graph, layout physics.LayoutAlgorithm, iterations int, options *OutputOptions) ([]byte, error) {
	renderer, err := GetRenderer(options.Format)
	if err != nil {
		return nil, err
	}
	snap, err := Settle(ctx, model, layout, iterations)
	if err != nil {
		return nil, err
	}
	return renderer.Render(snap, options)
}

func paletteOf(options *OutputOptions) *Palette {
	if options.Palette == nil {
		return DefaultPalette()
	}
	return options.Palette
}

// positions indexes node views by id for link resolution
func positions(snap *physics.Snapshot) map[string]physics.NodeView {
	m := make(map[string]physics.NodeView, len(snap.Nodes))
	for _, n := range snap.Nodes {
		m[n.ID] = n
	}
	return m
}
