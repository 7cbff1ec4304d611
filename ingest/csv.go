package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/TFMV/skillgraph/models"
)

// CSVProcessor handles link lists with a header row. Nodes are created
// implicitly from the source and target columns and sized by degree.
type CSVProcessor struct {
	logger *slog.Logger

	// MaxNodes rejects larger networks, 0 for no limit
	MaxNodes int
}

// NewCSVProcessor creates a new CSV processor
func NewCSVProcessor(logger *slog.Logger) *CSVProcessor {
	return &CSVProcessor{logger: defaultLogger(logger), MaxNodes: DefaultMaxNodes}
}

// GetName returns the name of the processor
func (p *CSVProcessor) GetName() string {
	return "CSV Processor"
}

// ProcessData processes CSV data
func (p *CSVProcessor) ProcessData(data []byte) (*models.Graph, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	sourceIdx, targetIdx, weightIdx := -1, -1, -1
	sourceGroupIdx, targetGroupIdx := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "source", "from", "src":
			sourceIdx = i
		case "target", "to", "dst":
			targetIdx = i
		case "value", "weight", "strength":
			weightIdx = i
		case "source_group":
			sourceGroupIdx = i
		case "target_group":
			targetGroupIdx = i
		}
	}
	if sourceIdx == -1 || targetIdx == -1 {
		return nil, fmt.Errorf("CSV must contain source and target columns")
	}

	nb := newNodeBuilder()
	var links []models.RawLink

	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV row: %w", err)
		}

		source := cell(row, sourceIdx)
		target := cell(row, targetIdx)
		if source == "" || target == "" {
			p.logger.Warn("skipping CSV row without endpoints", "line", line)
			continue
		}

		nb.touch(source, parseCell(row, sourceGroupIdx))
		nb.touch(target, parseCell(row, targetGroupIdx))

		weight := 1.0
		value := &weight
		if weightIdx >= 0 {
			value = parseCell(row, weightIdx)
		}
		links = append(links, models.RawLink{Source: source, Target: target, Value: value})
	}

	return build(p.logger, "csv", p.MaxNodes, nb.nodes(), links)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseCell returns nil for a missing or non-numeric cell
func parseCell(row []string, idx int) *float64 {
	s := cell(row, idx)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// nodeBuilder collects implicitly declared nodes in first-seen order
type nodeBuilder struct {
	order  []string
	degree map[string]int
	group  map[string]*float64
}

func newNodeBuilder() *nodeBuilder {
	return &nodeBuilder{
		degree: make(map[string]int),
		group:  make(map[string]*float64),
	}
}

func (nb *nodeBuilder) touch(id string, group *float64) {
	if _, ok := nb.degree[id]; !ok {
		nb.order = append(nb.order, id)
	}
	nb.degree[id]++
	if group != nil {
		nb.group[id] = group
	}
}

// Radius grows with degree and is capped at the importance scale's top (10)
const (
	minImplicitRadius = 2.0
	maxImplicitRadius = 10.0
)

func (nb *nodeBuilder) nodes() []models.RawNode {
	nodes := make([]models.RawNode, 0, len(nb.order))
	for _, id := range nb.order {
		radius := minImplicitRadius + float64(nb.degree[id]-1)
		if radius > maxImplicitRadius {
			radius = maxImplicitRadius
		}
		nodes = append(nodes, models.RawNode{ID: id, Group: nb.group[id], Radius: &radius})
	}
	return nodes
}
