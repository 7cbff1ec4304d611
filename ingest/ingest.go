// Package ingest turns skill network payloads (the analysis service's JSON,
// CSV link lists, plain "A -> B" text) into validated models.Graph values.
package ingest

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/TFMV/skillgraph/models"
)

// DefaultMaxNodes bounds a network's size. The layout tick is quadratic in
// the node count and a tick cannot be interrupted once started.
const DefaultMaxNodes = 500

// DataProcessor defines the interface that all data processors must implement
type DataProcessor interface {
	// ProcessData takes raw data bytes and returns a validated skill network
	ProcessData(data []byte) (*models.Graph, error)

	// GetName returns the name of the processor
	GetName() string
}

// GetProcessor returns the appropriate processor for the given format.
// maxNodes bounds accepted networks, 0 for no limit.
func GetProcessor(format string, logger *slog.Logger, maxNodes int) (DataProcessor, error) {
	switch strings.ToLower(format) {
	case "json", "":
		p := NewJSONProcessor(logger)
		p.MaxNodes = maxNodes
		return p, nil
	case "csv":
		p := NewCSVProcessor(logger)
		p.MaxNodes = maxNodes
		return p, nil
	case "text", "txt", "log":
		p := NewTextProcessor(logger)
		p.MaxNodes = maxNodes
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// FormatForPath guesses the processor format from a file name
func FormatForPath(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return "csv"
	case strings.HasSuffix(lower, ".txt"), strings.HasSuffix(lower, ".log"):
		return "text"
	default:
		return "json"
	}
}

// StripCodeFence removes a Markdown code fence (```json ... ```) wrapped
// around a payload. Models like to add one even in JSON mode.
func StripCodeFence(data []byte) []byte {
	data = bytes.TrimSpace(data)
	if !bytes.HasPrefix(data, []byte("```")) {
		return data
	}
	data = data[3:]
	if nl := bytes.IndexByte(data, '\n'); nl >= 0 {
		// Drop the info string (json, JSON, ...)
		if info := bytes.TrimSpace(data[:nl]); len(info) == 0 || isWord(info) {
			data = data[nl+1:]
		}
	} else if bytes.HasPrefix(bytes.ToLower(data), []byte("json")) {
		data = data[4:]
	}
	data = bytes.TrimSpace(data)
	data = bytes.TrimSuffix(data, []byte("```"))
	return bytes.TrimSpace(data)
}

func isWord(b []byte) bool {
	for _, c := range b {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_') {
			return false
		}
	}
	return true
}

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// build runs models.Build and reports what normalization threw away
func build(logger *slog.Logger, source string, maxNodes int, nodes []models.RawNode, links []models.RawLink) (*models.Graph, error) {
	g, err := models.Build(nodes, links)
	if err != nil {
		return nil, err
	}
	if maxNodes > 0 && g.Len() > maxNodes {
		logger.Warn("skill network too large", "processor", source, "nodes", g.Len(), "max_nodes", maxNodes)
		return nil, &models.ValidationError{
			Index:  -1,
			Reason: fmt.Sprintf("%d skills exceed the limit of %d", g.Len(), maxNodes),
		}
	}
	if dropped := g.Dropped(); len(dropped) > 0 {
		for _, l := range dropped {
			logger.Debug("dropped link", "source", l.Source, "target", l.Target)
		}
		logger.Warn("dropped links with unknown endpoints",
			"processor", source, "graph", g.ID, "dropped", len(dropped))
	}
	logger.Info("skill network built",
		"processor", source, "graph", g.ID, "nodes", g.Len(), "links", g.LinkCount())
	return g, nil
}
