package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/TFMV/skillgraph/ingest"
	"github.com/TFMV/skillgraph/models"
	"github.com/TFMV/skillgraph/physics"
	"github.com/TFMV/skillgraph/render"
	"github.com/TFMV/skillgraph/ui"
)

func layoutCmd() *cobra.Command {
	var (
		format      string
		inputFormat string
		output      string
		iterations  int
		seed        int64
		noise       float64
		timestamp   bool
	)

	cmd := &cobra.Command{
		Use:   "layout <network-file>",
		Short: "Lay out a skill network headlessly and render it",
		Long: `Run the force simulation for a fixed number of ticks (or until it
settles, when settle detection is configured) and render the final frame.

  skillgraph layout network.json                 # writes network.svg
  skillgraph layout links.csv -f html -o out.html
  skillgraph layout skills.txt -f ascii -o -      # print to stdout`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("iterations") {
				iterations = cfg.Iterations
			}
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Seed
			}

			renderer, err := render.GetRenderer(format)
			if err != nil {
				return err
			}

			g, err := readNetwork(args[0], inputFormat, cfg.Physics.MaxNodes)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			options := render.NewDefaultOptions(format)
			options.Width = cfg.Viewport.Width
			options.Height = cfg.Viewport.Height
			options.NoiseIntensity = noise
			options.NoiseSeed = seed
			options.Timestamp = timestamp

			layout := physics.NewForceDirectedLayout(cfg.Params(), cfg.Center(), seed)
			out, err := render.GenerateWithOptions(ctx, g, layout, iterations, options)
			if err != nil {
				return fmt.Errorf("layout failed: %w", err)
			}
			snap := layout.Snapshot()
			logger.Debug("layout finished", "ticks", layout.Iterations(), "energy", snap.Energy, "resets", layout.State().Resets)

			if output == "" {
				output = defaultOutput(args[0], format)
			}
			if output == "-" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}

			w := cmd.OutOrStdout()
			ui.Banner(w, renderer.Description())
			printSummary(w, g, snap, layout.Iterations())
			fmt.Fprintf(w, "\n  %s %s %s\n", ui.StatusIcon(true), "wrote", ui.Info.Sprint(output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg, html, json, dot, ascii")
	cmd.Flags().StringVar(&inputFormat, "input-format", "", "input format: json, csv, text (default from file extension)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default <input>.<format>)")
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 300, "ticks to simulate")
	cmd.Flags().Int64Var(&seed, "seed", 1, "seed for initial placement and halo noise")
	cmd.Flags().Float64Var(&noise, "noise", 0, "halo pulse intensity (0 disables)")
	cmd.Flags().BoolVar(&timestamp, "timestamp", false, "stamp the render time into svg and ascii output")

	return cmd
}

// readNetwork reads and processes the input file based on its extension
func readNetwork(path, format string, maxNodes int) (*models.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if format == "" {
		format = ingest.FormatForPath(path)
	}
	proc, err := ingest.GetProcessor(format, nil, maxNodes)
	if err != nil {
		return nil, err
	}
	g, err := proc.ProcessData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to process %s: %w", path, err)
	}
	return g, nil
}

func defaultOutput(input, format string) string {
	ext := map[string]string{
		"svg":     ".svg",
		"html":    ".html",
		"echarts": ".html",
		"json":    ".layout.json",
		"dot":     ".dot",
		"ascii":   ".txt",
	}[strings.ToLower(format)]
	if ext == "" {
		ext = "." + format
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ext
}

// printSummary lists skills by connectedness, with each group's size
func printSummary(w io.Writer, g *models.Graph, snap *physics.Snapshot, ticks uint64) {
	palette := render.DefaultPalette()

	nodes := g.Nodes()
	sort.SliceStable(nodes, func(i, j int) bool {
		return g.Degree(nodes[i].ID) > g.Degree(nodes[j].ID)
	})

	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		view, _ := snap.Node(n.ID)
		rows = append(rows, []string{
			n.ID,
			palette.Label(n.Group),
			strconv.FormatFloat(n.Radius, 'g', 3, 64),
			strconv.Itoa(g.Degree(n.ID)),
			fmt.Sprintf("(%.0f, %.0f)", view.X, view.Y),
			strings.Join(g.Neighbors(n.ID), ", "),
		})
	}
	ui.Table(w, []string{"Skill", "Group", "Radius", "Degree", "Position", "Neighbors"}, rows)

	fmt.Fprintln(w)
	for _, e := range palette.Legend() {
		count := len(g.FilterNodes(func(n models.Node) bool { return palette.Label(n.Group) == e.Label }))
		fmt.Fprintf(w, "  %-18s %d\n", e.Label, count)
	}

	fmt.Fprintf(w, "\n  %s nodes, %s links", ui.Info.Sprint(g.Len()), ui.Info.Sprint(g.LinkCount()))
	if dropped := len(g.Dropped()); dropped > 0 {
		fmt.Fprintf(w, ", %s", ui.Warn.Sprintf("%d dropped", dropped))
	}
	fmt.Fprintf(w, " %s\n", ui.Subtle.Sprintf("after %d ticks, kinetic energy %.3g", ticks, snap.Energy))
}
