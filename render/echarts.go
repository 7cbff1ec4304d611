package render

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/TFMV/skillgraph/physics"
)

// EChartsRenderer outputs an interactive HTML page. Nodes stay where the
// layout put them; ECharts only adds zooming, dragging and tooltips.
type EChartsRenderer struct{}

// Name returns the name of the renderer
func (r *EChartsRenderer) Name() string {
	return "ECharts Renderer"
}

// Description returns a description of the renderer
func (r *EChartsRenderer) Description() string {
	return "Renders the skill network as an interactive go-echarts HTML page"
}

// Render creates an HTML page holding one ECharts graph
func (r *EChartsRenderer) Render(snap *physics.Snapshot, options *OutputOptions) ([]byte, error) {
	palette := paletteOf(options)

	legend := palette.Legend()
	categories := make([]*opts.GraphCategory, 0, len(legend))
	for _, e := range legend {
		categories = append(categories, &opts.GraphCategory{
			Name:      e.Label,
			ItemStyle: &opts.ItemStyle{Color: e.Color},
		})
	}

	nodes := make([]opts.GraphNode, 0, len(snap.Nodes))
	for _, n := range snap.Nodes {
		nodes = append(nodes, opts.GraphNode{
			Name:       n.ID,
			X:          float32(n.X),
			Y:          float32(n.Y),
			Value:      float32(n.Radius),
			Category:   palette.Category(n.Group),
			SymbolSize: 2 * BodyRadius(n.Radius),
			ItemStyle: &opts.ItemStyle{
				Color:       palette.Color(n.Group),
				BorderColor: "#fff",
				BorderWidth: 2,
			},
		})
	}

	links := make([]opts.GraphLink, 0, len(snap.Links))
	for _, l := range snap.Links {
		links = append(links, opts.GraphLink{
			Source:    l.SourceID,
			Target:    l.TargetID,
			Value:     float32(l.Weight),
			LineStyle: &opts.LineStyle{Color: palette.LinkColor, Width: float32(l.Weight)},
		})
	}

	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       options.Title,
			Width:           fmt.Sprintf("%gpx", options.Width),
			Height:          fmt.Sprintf("%gpx", options.Height),
			BackgroundColor: palette.Background,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    options.Title,
			Subtitle: fmt.Sprintf("tick %d", snap.Tick),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(options.ShowLegend),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
	)
	graph.AddSeries(
		"skills",
		nodes,
		links,
		charts.WithGraphChartOpts(
			opts.GraphChart{
				Layout:     "none",
				Roam:       opts.Bool(true),
				Draggable:  opts.Bool(true),
				Categories: categories,
			},
		),
		charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(options.ShowLabels),
			Color:    palette.TextColor,
			Position: "bottom",
		}),
	)

	page := components.NewPage()
	page.AddCharts(graph)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, fmt.Errorf("rendering echarts page: %w", err)
	}
	return buf.Bytes(), nil
}
