package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/TFMV/skillgraph/analysis"
	"github.com/TFMV/skillgraph/config"
	"github.com/TFMV/skillgraph/ingest"
	"github.com/TFMV/skillgraph/ui"
)

var errNoCredentials = errors.New("no analysis credentials: set the API key variable or a base_url")

func analyzeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "analyze <resume-file | ->",
		Short: "Extract a skill network from resume text",
		Long: `Send resume text to the configured chat model and write the skill
network it returns as JSON. The result can be fed to "skillgraph layout".

  skillgraph analyze resume.txt -o network.json
  cat resume.txt | skillgraph analyze -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			client, err := newAnalyzer(cfg, logger)
			if err != nil {
				return err
			}

			var resume []byte
			if args[0] == "-" {
				resume, err = io.ReadAll(cmd.InOrStdin())
			} else {
				resume, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to read resume: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			raw, err := client.Raw(ctx, string(resume))
			if err != nil {
				return err
			}
			proc := ingest.NewJSONProcessor(logger)
			proc.MaxNodes = cfg.Physics.MaxNodes
			g, err := proc.ProcessData(raw)
			if err != nil {
				return fmt.Errorf("%w: %v", analysis.ErrBadResponse, err)
			}

			if output == "" || output == "-" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
				return err
			}
			if err := os.WriteFile(output, raw, 0644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}

			w := cmd.OutOrStdout()
			ui.Banner(w, "analysis via "+cfg.Analysis.Model)
			fmt.Fprintf(w, "  %s %d skills, %d links %s %s\n",
				ui.StatusIcon(true), g.Len(), g.LinkCount(), ui.Subtle.Sprint("written to"), ui.Info.Sprint(output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// newAnalyzer builds the analysis client from config. A base URL without a
// key is allowed for local OpenAI-compatible servers.
func newAnalyzer(cfg *config.Config, logger *slog.Logger) (*analysis.Client, error) {
	key := cfg.APIKey()
	if key == "" && cfg.Analysis.BaseURL == "" {
		return nil, errNoCredentials
	}
	provider := analysis.NewOpenAIProvider(key, cfg.Analysis.Model, cfg.Analysis.BaseURL)
	client := analysis.NewClient(provider, cfg.Analysis.Model, logger)
	client.MaxNodes = cfg.Physics.MaxNodes
	return client, nil
}
