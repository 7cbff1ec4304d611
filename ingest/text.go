package ingest

import (
	"bufio"
	"bytes"
	"log/slog"
	"strings"

	"github.com/TFMV/skillgraph/models"
)

// TextProcessor handles one relationship per line, e.g. "Go -> Docker" or
// "Communication - Leadership". Lines that match no separator are ignored.
type TextProcessor struct {
	logger *slog.Logger

	// MaxNodes rejects larger networks, 0 for no limit
	MaxNodes int
}

// NewTextProcessor creates a new text processor
func NewTextProcessor(logger *slog.Logger) *TextProcessor {
	return &TextProcessor{logger: defaultLogger(logger), MaxNodes: DefaultMaxNodes}
}

// GetName returns the name of the processor
func (p *TextProcessor) GetName() string {
	return "Text Processor"
}

var separators = []string{
	" -> ",
	" => ",
	" connected to ",
	" connects to ",
	" relates to ",
	" - ",
}

// ProcessData processes text data
func (p *TextProcessor) ProcessData(data []byte) (*models.Graph, error) {
	nb := newNodeBuilder()
	var links []models.RawLink
	ignored := 0

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		source, target, ok := splitRelation(line)
		if !ok {
			ignored++
			continue
		}

		nb.touch(source, nil)
		nb.touch(target, nil)
		weight := 1.0
		links = append(links, models.RawLink{Source: source, Target: target, Value: &weight})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if ignored > 0 {
		p.logger.Debug("ignored unrecognized lines", "lines", ignored)
	}

	return build(p.logger, "text", p.MaxNodes, nb.nodes(), links)
}

func splitRelation(line string) (string, string, bool) {
	for _, sep := range separators {
		parts := strings.Split(line, sep)
		if len(parts) != 2 {
			continue
		}
		source := strings.TrimSpace(parts[0])
		target := strings.TrimSpace(parts[1])
		if source == "" || target == "" {
			return "", "", false
		}
		return source, target, true
	}
	return "", "", false
}
