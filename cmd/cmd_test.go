package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/TFMV/skillgraph/models"
)

const network = `{
  "nodes": [
    {"id": "Go", "group": 1, "radius": 8},
    {"id": "Kubernetes", "group": 1, "radius": 6},
    {"id": "Leadership", "group": 2, "radius": 5},
    {"id": "Git", "group": 3}
  ],
  "links": [
    {"source": "Go", "target": "Kubernetes", "value": 2},
    {"source": "Go", "target": "Git"},
    {"source": "Leadership", "target": "Go"}
  ]
}`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yml")}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeNetwork(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "network.json")
	if err := os.WriteFile(path, []byte(network), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLayoutWritesFile(t *testing.T) {
	input := writeNetwork(t)
	output := filepath.Join(t.TempDir(), "network.svg")

	out, err := run(t, "layout", input, "-f", "svg", "-o", output, "-n", "50")
	if err != nil {
		t.Fatalf("layout: %v\n%s", err, out)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Errorf("expected svg document, got %q", data[:min(len(data), 80)])
	}
	for _, want := range []string{"Kubernetes", "Technical Skills", "4 nodes", "after 50 ticks"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestLayoutToStdout(t *testing.T) {
	input := writeNetwork(t)

	out, err := run(t, "layout", input, "-f", "json", "-o", "-", "-n", "10")
	if err != nil {
		t.Fatalf("layout: %v\n%s", err, out)
	}

	var doc struct {
		Nodes []struct {
			ID string `json:"id"`
		} `json:"nodes"`
		Links []json.RawMessage `json:"links"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, out)
	}
	if len(doc.Nodes) != 4 || len(doc.Links) != 3 {
		t.Errorf("expected 4 nodes and 3 links, got %d and %d", len(doc.Nodes), len(doc.Links))
	}
}

func TestLayoutRejectsMalformedInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"links": []}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "layout", path, "-o", "-", "-n", "1"); err == nil {
		t.Fatal("expected error for network without nodes")
	}
}

func TestLayoutHonorsMaxNodes(t *testing.T) {
	t.Setenv("SKILLGRAPH_PHYSICS__MAX_NODES", "3")
	input := writeNetwork(t)

	_, err := run(t, "layout", input, "-o", "-", "-n", "1")
	if !errors.Is(err, models.ErrMalformed) {
		t.Fatalf("expected 4 skills over a limit of 3 to be rejected, got %v", err)
	}
}

func TestDefaultOutput(t *testing.T) {
	tests := []struct {
		input, format, want string
	}{
		{"dir/network.json", "svg", "dir/network.svg"},
		{"links.csv", "html", "links.html"},
		{"links.csv", "echarts", "links.html"},
		{"skills.txt", "ascii", "skills.txt"},
		{"network.json", "json", "network.layout.json"},
		{"network", "dot", "network.dot"},
	}
	for _, tt := range tests {
		if got := defaultOutput(tt.input, tt.format); got != tt.want {
			t.Errorf("defaultOutput(%q, %q) = %q, want %q", tt.input, tt.format, got, tt.want)
		}
	}
}

func TestAnalyzeWithoutCredentials(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("SKILLGRAPH_ANALYSIS__BASE_URL", "")

	resume := filepath.Join(t.TempDir(), "resume.txt")
	if err := os.WriteFile(resume, []byte("Go developer"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "analyze", resume, "-o", ""); !errors.Is(err, errNoCredentials) {
		t.Fatalf("expected errNoCredentials, got %v", err)
	}
}

func TestAnalyzeWritesNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": network},
				"finish_reason": "stop",
			}},
		})
	}))
	defer srv.Close()

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SKILLGRAPH_ANALYSIS__BASE_URL", srv.URL+"/v1")

	dir := t.TempDir()
	resume := filepath.Join(dir, "resume.txt")
	if err := os.WriteFile(resume, []byte("Go developer who leads a platform team"), 0644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "network.json")

	out, err := run(t, "analyze", resume, "-o", output)
	if err != nil {
		t.Fatalf("analyze: %v\n%s", err, out)
	}
	if !strings.Contains(out, "4 skills, 3 links") {
		t.Errorf("unexpected summary:\n%s", out)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !json.Valid(data) {
		t.Errorf("output is not valid JSON: %s", data)
	}
}
