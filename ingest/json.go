package ingest

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/TFMV/skillgraph/models"
)

// JSONProcessor handles the analysis service payload:
//
//	{"nodes": [{"id", "group", "radius"}], "links": [{"source", "target", "value"}]}
type JSONProcessor struct {
	logger *slog.Logger

	// MaxNodes rejects larger networks, 0 for no limit
	MaxNodes int
}

// NewJSONProcessor creates a new JSON processor
func NewJSONProcessor(logger *slog.Logger) *JSONProcessor {
	return &JSONProcessor{logger: defaultLogger(logger), MaxNodes: DefaultMaxNodes}
}

// GetName returns the name of the processor
func (p *JSONProcessor) GetName() string {
	return "JSON Processor"
}

// ProcessData parses and validates a skill network. The node list must be an
// array of objects with string ids; anything else is a *models.ValidationError.
// Link entries that cannot be read are skipped.
func (p *JSONProcessor) ProcessData(data []byte) (*models.Graph, error) {
	var payload struct {
		Nodes json.RawMessage `json:"nodes"`
		Links json.RawMessage `json:"links"`
	}
	if err := json.Unmarshal(StripCodeFence(data), &payload); err != nil {
		return nil, &models.ValidationError{Index: -1, Reason: fmt.Sprintf("error parsing JSON: %v", err)}
	}

	nodes, err := decodeNodes(payload.Nodes)
	if err != nil {
		return nil, err
	}
	links, skipped := decodeLinks(payload.Links)
	if skipped > 0 {
		p.logger.Warn("skipped unreadable links", "skipped", skipped)
	}

	return build(p.logger, "json", p.MaxNodes, nodes, links)
}

func decodeNodes(raw json.RawMessage) ([]models.RawNode, error) {
	var entries []json.RawMessage
	if len(raw) == 0 || string(raw) == "null" {
		return nil, &models.ValidationError{Index: -1, Reason: "nodes is missing"}
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &models.ValidationError{Index: -1, Reason: "nodes is not an array"}
	}

	nodes := make([]models.RawNode, 0, len(entries))
	for i, entry := range entries {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(entry, &fields); err != nil || fields == nil {
			return nil, &models.ValidationError{Index: i, Reason: "not an object"}
		}

		var id string
		if err := json.Unmarshal(fields["id"], &id); err != nil {
			return nil, &models.ValidationError{Index: i, Reason: "id is not a string"}
		}

		nodes = append(nodes, models.RawNode{
			ID:     id,
			Group:  number(fields["group"]),
			Radius: number(fields["radius"]),
		})
	}
	return nodes, nil
}

func decodeLinks(raw json.RawMessage) ([]models.RawLink, int) {
	var entries []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &entries) != nil {
		return nil, 0
	}

	links := make([]models.RawLink, 0, len(entries))
	skipped := 0
	for _, entry := range entries {
		var l struct {
			Source string          `json:"source"`
			Target string          `json:"target"`
			Value  json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(entry, &l); err != nil {
			skipped++
			continue
		}
		links = append(links, models.RawLink{
			Source: l.Source,
			Target: l.Target,
			Value:  number(l.Value),
		})
	}
	return links, skipped
}

// number reads a JSON number, treating anything else as missing
func number(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}
