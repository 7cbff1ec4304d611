package ingest

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/TFMV/skillgraph/models"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const sampleNetwork = `{
  "nodes": [
    {"id": "Go", "group": 1, "radius": 9},
    {"id": "Communication", "group": 2, "radius": 6},
    {"id": "Docker", "group": 3, "radius": 7}
  ],
  "links": [
    {"source": "Go", "target": "Docker", "value": 4},
    {"source": "Go", "target": "Kubernetes", "value": 2}
  ]
}`

func TestJSONProcessor(t *testing.T) {
	g, err := NewJSONProcessor(quietLogger()).ProcessData([]byte(sampleNetwork))
	if err != nil {
		t.Fatalf("ProcessData: %v", err)
	}
	if g.Len() != 3 {
		t.Errorf("expected 3 nodes, got %d", g.Len())
	}
	if g.LinkCount() != 1 {
		t.Errorf("expected 1 surviving link, got %d", g.LinkCount())
	}
	if len(g.Dropped()) != 1 {
		t.Errorf("expected 1 dropped link, got %d", len(g.Dropped()))
	}
	n, err := g.FindNodeByID("Docker")
	if err != nil {
		t.Fatal(err)
	}
	if n.Group != 3 || n.Radius != 7 {
		t.Errorf("unexpected node %+v", n)
	}
	if l := g.Link(0); l.Weight != 4 {
		t.Errorf("expected weight 4, got %v", l.Weight)
	}
}

func TestJSONProcessorStripsFence(t *testing.T) {
	fenced := "```json\n" + sampleNetwork + "\n```"
	g, err := NewJSONProcessor(quietLogger()).ProcessData([]byte(fenced))
	if err != nil {
		t.Fatalf("ProcessData: %v", err)
	}
	if g.Len() != 3 {
		t.Errorf("expected 3 nodes, got %d", g.Len())
	}
}

func TestJSONProcessorMissingNumbers(t *testing.T) {
	data := `{"nodes":[{"id":"A"},{"id":"B","radius":"big","group":null}],"links":[{"source":"A","target":"B"}]}`
	g, err := NewJSONProcessor(quietLogger()).ProcessData([]byte(data))
	if err != nil {
		t.Fatalf("ProcessData: %v", err)
	}
	for _, n := range g.Nodes() {
		if n.Radius != models.Epsilon || n.Group != 0 {
			t.Errorf("expected clamped node, got %+v", n)
		}
	}
	if g.Link(0).Weight != models.Epsilon {
		t.Errorf("expected clamped weight, got %v", g.Link(0).Weight)
	}
}

func TestJSONProcessorMalformed(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		index int
	}{
		{"not json", `{"nodes": [`, -1},
		{"nodes missing", `{"links": []}`, -1},
		{"nodes not array", `{"nodes": {"id": "Go"}}`, -1},
		{"entry not object", `{"nodes": [{"id": "Go"}, 42]}`, 1},
		{"id not string", `{"nodes": [{"id": 7}]}`, 0},
		{"id missing", `{"nodes": [{"id": "Go"}, {"group": 1}]}`, 1},
		{"id empty", `{"nodes": [{"id": ""}]}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewJSONProcessor(quietLogger()).ProcessData([]byte(tt.data))
			if !errors.Is(err, models.ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
			var verr *models.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Index != tt.index {
				t.Errorf("expected index %d, got %d", tt.index, verr.Index)
			}
		})
	}
}

func TestJSONProcessorSkipsBadLinks(t *testing.T) {
	data := `{"nodes":[{"id":"A"},{"id":"B"}],"links":[{"source":1,"target":"B"},"junk",{"source":"A","target":"B","value":2}]}`
	g, err := NewJSONProcessor(quietLogger()).ProcessData([]byte(data))
	if err != nil {
		t.Fatalf("ProcessData: %v", err)
	}
	if g.LinkCount() != 1 {
		t.Errorf("expected 1 link, got %d", g.LinkCount())
	}
}

func TestJSONProcessorEmpty(t *testing.T) {
	g, err := NewJSONProcessor(quietLogger()).ProcessData([]byte(`{"nodes": [], "links": []}`))
	if err != nil {
		t.Fatalf("ProcessData: %v", err)
	}
	if g.Len() != 0 || g.LinkCount() != 0 {
		t.Errorf("expected empty graph, got %d nodes %d links", g.Len(), g.LinkCount())
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  ```JSON\n{\"a\":1}```  ", `{"a":1}`},
		{"```json{\"a\":1}```", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := string(StripCodeFence([]byte(tt.in))); got != tt.want {
			t.Errorf("StripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCSVProcessor(t *testing.T) {
	data := "source,target,value,source_group,target_group\n" +
		"Go,Docker,4,1,3\n" +
		"Go,SQL,2,1,1\n" +
		"Go,Git,,1,3\n" +
		"Leadership,Communication,5,2,2\n"

	g, err := NewCSVProcessor(quietLogger()).ProcessData([]byte(data))
	if err != nil {
		t.Fatalf("ProcessData: %v", err)
	}
	if g.Len() != 6 {
		t.Errorf("expected 6 nodes, got %d", g.Len())
	}
	if g.LinkCount() != 4 {
		t.Errorf("expected 4 links, got %d", g.LinkCount())
	}

	goNode, _ := g.FindNodeByID("Go")
	docker, _ := g.FindNodeByID("Docker")
	if goNode.Radius <= docker.Radius {
		t.Errorf("hub should be larger: Go=%v Docker=%v", goNode.Radius, docker.Radius)
	}
	if docker.Group != 3 || goNode.Group != 1 {
		t.Errorf("groups not carried: Go=%d Docker=%d", goNode.Group, docker.Group)
	}
	if g.Link(2).Weight != models.Epsilon {
		t.Errorf("empty value should clamp, got %v", g.Link(2).Weight)
	}
	if g.Node(0).ID != "Go" {
		t.Errorf("nodes should keep first-seen order, got %s first", g.Node(0).ID)
	}
}

func TestCSVProcessorWithoutValueColumn(t *testing.T) {
	g, err := NewCSVProcessor(quietLogger()).ProcessData([]byte("from,to\nA,B\n"))
	if err != nil {
		t.Fatalf("ProcessData: %v", err)
	}
	if g.Link(0).Weight != 1 {
		t.Errorf("unweighted link should default to 1, got %v", g.Link(0).Weight)
	}
}

func TestCSVProcessorRequiresColumns(t *testing.T) {
	if _, err := NewCSVProcessor(quietLogger()).ProcessData([]byte("a,b\n1,2\n")); err == nil {
		t.Error("expected error without source/target columns")
	}
}

func TestTextProcessor(t *testing.T) {
	data := "# skills\nGo -> Docker\nDocker => Kubernetes\nCommunication - Leadership\nnonsense line\n"
	g, err := NewTextProcessor(quietLogger()).ProcessData([]byte(data))
	if err != nil {
		t.Fatalf("ProcessData: %v", err)
	}
	if g.Len() != 5 {
		t.Errorf("expected 5 nodes, got %d", g.Len())
	}
	if g.LinkCount() != 3 {
		t.Errorf("expected 3 links, got %d", g.LinkCount())
	}
	if g.Degree("Docker") != 2 {
		t.Errorf("expected Docker degree 2, got %d", g.Degree("Docker"))
	}
}

func TestGetProcessor(t *testing.T) {
	tests := map[string]string{
		"json": "JSON Processor",
		"CSV":  "CSV Processor",
		"text": "Text Processor",
		"log":  "Text Processor",
	}
	for format, want := range tests {
		p, err := GetProcessor(format, quietLogger(), 0)
		if err != nil {
			t.Fatalf("GetProcessor(%q): %v", format, err)
		}
		if p.GetName() != want {
			t.Errorf("GetProcessor(%q) = %s, want %s", format, p.GetName(), want)
		}
	}
	if _, err := GetProcessor("xml", quietLogger(), 0); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestMaxNodes(t *testing.T) {
	var chain strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&chain, "skill%d -> skill%d\n", i, i+1)
	}
	data := []byte(chain.String()) // 21 skills

	for _, format := range []string{"text", "json", "csv"} {
		t.Run(format, func(t *testing.T) {
			payload := data
			switch format {
			case "json":
				var nodes []string
				for i := 0; i <= 20; i++ {
					nodes = append(nodes, fmt.Sprintf(`{"id": "skill%d"}`, i))
				}
				payload = []byte(`{"nodes": [` + strings.Join(nodes, ",") + `], "links": []}`)
			case "csv":
				payload = []byte("source,target\n" + strings.ReplaceAll(chain.String(), " -> ", ","))
			}

			p, err := GetProcessor(format, quietLogger(), 20)
			if err != nil {
				t.Fatal(err)
			}
			_, err = p.ProcessData(payload)
			var verr *models.ValidationError
			if !errors.As(err, &verr) || verr.Index != -1 {
				t.Fatalf("expected list-level ValidationError, got %v", err)
			}
			if !errors.Is(err, models.ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}

			p, _ = GetProcessor(format, quietLogger(), 21)
			if g, err := p.ProcessData(payload); err != nil || g.Len() != 21 {
				t.Errorf("at the limit: %v", err)
			}

			p, _ = GetProcessor(format, quietLogger(), 0)
			if _, err := p.ProcessData(payload); err != nil {
				t.Errorf("unlimited: %v", err)
			}
		})
	}

	if NewJSONProcessor(nil).MaxNodes != DefaultMaxNodes {
		t.Error("constructors should apply DefaultMaxNodes")
	}
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]string{
		"network.json": "json",
		"links.CSV":    "csv",
		"skills.txt":   "text",
		"noext":        "json",
	}
	for path, want := range tests {
		if got := FormatForPath(path); got != want {
			t.Errorf("FormatForPath(%q) = %q, want %q", path, got, want)
		}
	}
}
