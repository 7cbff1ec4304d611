package render

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/TFMV/skillgraph/models"
	"github.com/TFMV/skillgraph/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

func ptr(v float64) *float64 { return &v }

// dropScenario is three nodes, one valid link and one link to an unknown node
func dropScenario(t *testing.T) *models.Graph {
	t.Helper()
	g, err := models.Build(
		[]models.RawNode{
			{ID: "A", Group: ptr(1), Radius: ptr(8)},
			{ID: "B", Group: ptr(2), Radius: ptr(4)},
			{ID: "C", Group: ptr(3), Radius: ptr(2)},
		},
		[]models.RawLink{
			{Source: "A", Target: "B", Value: ptr(3)},
			{Source: "B", Target: "X", Value: ptr(1)},
		},
	)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func settled(t *testing.T, g *models.Graph, ticks int) *physics.Snapshot {
	t.Helper()
	layout := physics.NewForceDirectedLayout(physics.DefaultParams(), r2.Vec{X: 400, Y: 300}, 1)
	snap, err := Settle(context.Background(), g, layout, ticks)
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	return snap
}

func TestDropScenarioRendersOneLink(t *testing.T) {
	snap := settled(t, dropScenario(t), 1)
	opts := NewDefaultOptions("svg")

	svg, err := (&SVGRenderer{}).Render(snap, opts)
	if err != nil {
		t.Fatalf("svg: %v", err)
	}
	if n := strings.Count(string(svg), "<line "); n != 1 {
		t.Errorf("expected 1 line element, got %d", n)
	}
	if n := strings.Count(string(svg), `stroke="#fff" stroke-width="2"`); n != 3 {
		t.Errorf("expected 3 node bodies, got %d", n)
	}

	out, err := (&JSONRenderer{}).Render(snap, opts)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	var doc struct {
		Nodes []struct {
			ID    string `json:"id"`
			Color string `json:"color"`
		} `json:"nodes"`
		Links []physics.LinkView `json:"links"`
	}
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("decoding json output: %v", err)
	}
	if len(doc.Links) != 1 || doc.Links[0].SourceID != "A" || doc.Links[0].TargetID != "B" {
		t.Errorf("unexpected links %+v", doc.Links)
	}
	if len(doc.Nodes) != 3 {
		t.Errorf("expected 3 nodes, got %d", len(doc.Nodes))
	}
}

func TestSVGGeometry(t *testing.T) {
	snap := &physics.Snapshot{
		Nodes: []physics.NodeView{{ID: "Go", X: 100, Y: 200, Radius: 4, Group: 1}},
		Links: []physics.LinkView{},
	}
	opts := NewDefaultOptions("svg")
	opts.NoiseIntensity = 0
	opts.ShowLegend = false

	out, err := (&SVGRenderer{}).Render(snap, opts)
	if err != nil {
		t.Fatal(err)
	}
	svg := string(out)
	for _, want := range []string{
		`translate(100.00,200.00)`,
		`r="20.00" fill="#3b82f6" fill-opacity="0.200"`, // halo 4*2.5+10
		`r="11.00" fill="#3b82f6" stroke="#fff"`,        // body 4*1.5+5
		`dy="26.00"`,                                    // label 4*1.5+20
		`>Go</text>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
}

func TestSVGEscapesLabels(t *testing.T) {
	snap := &physics.Snapshot{Nodes: []physics.NodeView{{ID: "C++ & <Rust>", Radius: 1}}}
	out, err := (&SVGRenderer{}).Render(snap, NewDefaultOptions("svg"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "<Rust>") {
		t.Error("label was not escaped")
	}
	if !strings.Contains(string(out), "C++ &amp; &lt;Rust&gt;") {
		t.Error("escaped label missing")
	}
}

func TestSVGLinkWidthIsWeight(t *testing.T) {
	snap := &physics.Snapshot{
		Nodes: []physics.NodeView{{ID: "A", Radius: 1}, {ID: "B", X: 10, Radius: 1}},
		Links: []physics.LinkView{{SourceID: "A", TargetID: "B", Weight: 4.5}},
	}
	out, err := (&SVGRenderer{}).Render(snap, NewDefaultOptions("svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `stroke-width="4.5"`) {
		t.Error("link stroke width should equal its weight")
	}
}

func TestPulse(t *testing.T) {
	still := NewPulse(1, 0)
	if scale, opacity := still.At(3, 99); scale != 1 || opacity != haloOpacity {
		t.Errorf("zero intensity should be still, got %v %v", scale, opacity)
	}

	p := NewPulse(7, 1)
	varied := false
	s0, _ := p.At(0, 0)
	for tick := uint64(1); tick < 200; tick++ {
		scale, opacity := p.At(0, tick)
		if scale < 0.8 || scale > 1.2 || opacity < 0 || opacity > 0.35 {
			t.Fatalf("pulse out of range at tick %d: %v %v", tick, scale, opacity)
		}
		if scale != s0 {
			varied = true
		}
	}
	if !varied {
		t.Error("pulse never changed over 200 ticks")
	}

	a, _ := NewPulse(7, 1).At(5, 42)
	b, _ := p.At(5, 42)
	if a != b {
		t.Error("pulse should be deterministic for a seed")
	}
}

func TestPalette(t *testing.T) {
	p := DefaultPalette()
	tests := map[int]string{1: "#3b82f6", 2: "#10b981", 3: "#f59e0b", 0: "#f59e0b", 42: "#f59e0b"}
	for group, want := range tests {
		if got := p.Color(group); got != want {
			t.Errorf("Color(%d) = %s, want %s", group, got, want)
		}
	}

	legend := p.Legend()
	wantLabels := []string{"Technical Skills", "Soft Skills", "Tools & Tech"}
	if len(legend) != len(wantLabels) {
		t.Fatalf("expected %d legend entries, got %d", len(wantLabels), len(legend))
	}
	for i, want := range wantLabels {
		if legend[i].Label != want {
			t.Errorf("legend[%d] = %s, want %s", i, legend[i].Label, want)
		}
	}
	if p.Category(1) != 0 || p.Category(2) != 1 || p.Category(3) != 2 || p.Category(-1) != 2 {
		t.Error("unexpected category slots")
	}
}

func TestEChartsRenderer(t *testing.T) {
	snap := settled(t, dropScenario(t), 10)
	out, err := (&EChartsRenderer{}).Render(snap, NewDefaultOptions("html"))
	if err != nil {
		t.Fatalf("echarts: %v", err)
	}
	html := string(out)
	for _, want := range []string{"<html", `"layout":"none"`, "Technical Skills", `"name":"A"`} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestDOTRenderer(t *testing.T) {
	snap := settled(t, dropScenario(t), 1)
	out, err := (&DOTRenderer{}).Render(snap, NewDefaultOptions("dot"))
	if err != nil {
		t.Fatal(err)
	}
	dot := string(out)
	if !strings.HasPrefix(dot, "graph G {") {
		t.Errorf("unexpected header: %q", dot[:20])
	}
	if n := strings.Count(dot, " -- "); n != 1 {
		t.Errorf("expected 1 edge, got %d", n)
	}
}

func TestASCIIRenderer(t *testing.T) {
	snap := settled(t, dropScenario(t), 100)
	out, err := (&ASCIIRenderer{}).Render(snap, NewDefaultOptions("ascii"))
	if err != nil {
		t.Fatal(err)
	}
	art := string(out)
	for _, sym := range []string{"@", "*", "#", "Skill Network", "Tools & Tech"} {
		if !strings.Contains(art, sym) {
			t.Errorf("ascii output missing %q", sym)
		}
	}
}

func TestGetRenderer(t *testing.T) {
	for _, format := range []string{"svg", "html", "echarts", "json", "dot", "ASCII"} {
		if _, err := GetRenderer(format); err != nil {
			t.Errorf("GetRenderer(%q): %v", format, err)
		}
	}
	if _, err := GetRenderer("png"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestSettleHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	layout := physics.NewForceDirectedLayout(physics.DefaultParams(), r2.Vec{X: 400, Y: 300}, 1)
	_, err := Settle(ctx, dropScenario(t), layout, 1000)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestGenerateWithOptions(t *testing.T) {
	layout := physics.NewForceDirectedLayout(physics.DefaultParams(), r2.Vec{X: 400, Y: 300}, 1)
	out, err := GenerateWithOptions(context.Background(), dropScenario(t), layout, 50, NewDefaultOptions("json"))
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Tick uint64 `json:"tick"`
	}
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Tick != 50 {
		t.Errorf("expected tick 50, got %d", doc.Tick)
	}
}
