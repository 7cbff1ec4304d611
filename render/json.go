package render

import (
	"encoding/json"

	"github.com/TFMV/skillgraph/physics"
)

// JSONRenderer outputs the snapshot as JSON with colors resolved
type JSONRenderer struct{}

// Name returns the name of the renderer
func (r *JSONRenderer) Name() string {
	return "JSON Renderer"
}

// Description returns a description of the renderer
func (r *JSONRenderer) Description() string {
	return "Renders node positions, links and group colors as JSON"
}

type jsonNode struct {
	physics.NodeView
	Color string `json:"color"`
}

type jsonDocument struct {
	GraphID string             `json:"graphId"`
	Tick    uint64             `json:"tick"`
	Energy  float64            `json:"energy"`
	Width   float64            `json:"width"`
	Height  float64            `json:"height"`
	Nodes   []jsonNode         `json:"nodes"`
	Links   []physics.LinkView `json:"links"`
	Legend  []LegendEntry      `json:"legend,omitempty"`
}

// Render creates a JSON representation of the snapshot
func (r *JSONRenderer) Render(snap *physics.Snapshot, options *OutputOptions) ([]byte, error) {
	palette := paletteOf(options)

	doc := jsonDocument{
		GraphID: snap.GraphID,
		Tick:    snap.Tick,
		Energy:  snap.Energy,
		Width:   options.Width,
		Height:  options.Height,
		Nodes:   make([]jsonNode, 0, len(snap.Nodes)),
		Links:   snap.Links,
	}
	if doc.Links == nil {
		doc.Links = []physics.LinkView{}
	}
	for _, n := range snap.Nodes {
		doc.Nodes = append(doc.Nodes, jsonNode{NodeView: n, Color: palette.Color(n.Group)})
	}
	if options.ShowLegend {
		doc.Legend = palette.Legend()
	}

	return json.MarshalIndent(doc, "", "  ")
}
