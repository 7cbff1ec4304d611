package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/TFMV/skillgraph/ingest"
	"github.com/TFMV/skillgraph/models"
)

var (
	// ErrEmptyResume is returned when there is no text to analyze.
	ErrEmptyResume = errors.New("resume text is empty")
	// ErrBadResponse is returned when the model's answer is not JSON.
	ErrBadResponse = errors.New("analysis response is not valid JSON")
)

const systemPrompt = `You extract skill networks from resumes. Reply with a single JSON object:
{"nodes": [{"id": string, "group": number, "radius": number}],
 "links": [{"source": string, "target": string, "value": number}]}
id is the name of the skill. group is 1 for technical skills, 2 for soft skills, 3 for tools and technologies.
radius is the skill's importance from 1 to 10. source and target must match a node id.
value is the strength of the relationship from 1 to 5.`

const networkPrompt = "Analyze the skills in this resume. Identify clusters of related skills and how they connect. " +
	"Return a network graph structure with nodes (skills) and links (relationships). " +
	"Keep it to the top 15-20 most important skills.\n\nResume: %s"

// Client turns resume text into skill networks
type Client struct {
	provider Provider
	model    string
	logger   *slog.Logger

	// MaxNodes bounds the networks SkillNetwork accepts, 0 for no limit
	MaxNodes int
}

// NewClient wraps a provider. An empty model leaves the choice to the provider.
func NewClient(provider Provider, model string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{provider: provider, model: model, logger: logger, MaxNodes: ingest.DefaultMaxNodes}
}

// Raw asks the model for a skill network and returns its JSON with any
// Markdown fence removed.
func (c *Client) Raw(ctx context.Context, resumeText string) ([]byte, error) {
	resumeText = strings.TrimSpace(resumeText)
	if resumeText == "" {
		return nil, ErrEmptyResume
	}

	resp, err := c.provider.Complete(ctx, CompletionRequest{
		Model: c.model,
		Messages: []Message{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: fmt.Sprintf(networkPrompt, resumeText)},
		},
		Temperature: 0.2,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("%s completion: %w", c.provider.Name(), err)
	}

	c.logger.Info("skill network analyzed",
		"provider", c.provider.Name(),
		"model", resp.Model,
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens)

	content := ingest.StripCodeFence([]byte(resp.Content))
	if len(content) == 0 {
		content = []byte("{}")
	}
	if !json.Valid(content) {
		return nil, fmt.Errorf("%w (finish reason %q)", ErrBadResponse, resp.FinishReason)
	}
	return content, nil
}

// SkillNetwork analyzes resume text and validates the result into a Graph
func (c *Client) SkillNetwork(ctx context.Context, resumeText string) (*models.Graph, error) {
	raw, err := c.Raw(ctx, resumeText)
	if err != nil {
		return nil, err
	}
	proc := ingest.NewJSONProcessor(c.logger)
	proc.MaxNodes = c.MaxNodes
	return proc.ProcessData(raw)
}
