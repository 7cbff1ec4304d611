package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/TFMV/skillgraph/analysis"
	"github.com/TFMV/skillgraph/physics"
	"github.com/TFMV/skillgraph/scheduler"
	"github.com/TFMV/skillgraph/server"
	"github.com/TFMV/skillgraph/ui"
)

func serveCmd() *cobra.Command {
	var (
		host  string
		port  int
		load  string
		input string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live layout over HTTP and websocket",
		Long: `Start the HTTP server. Networks are loaded with POST /api/network (or
POST /api/network/analyze for resume text) and every tick is pushed to
websocket clients on /ws.

  skillgraph serve
  skillgraph serve --port 9090 --load network.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			params, center, seed := cfg.Params(), cfg.Center(), cfg.Seed
			sched := scheduler.New(scheduler.Config{
				Frames: scheduler.NewTickerSource(cfg.FrameRate),
				NewLayout: func() physics.LayoutAlgorithm {
					return physics.NewForceDirectedLayout(params, center, seed)
				},
				Logger: logger,
			})

			var analyzer *analysis.Client
			if a, err := newAnalyzer(cfg, logger); err == nil {
				analyzer = a
			} else {
				logger.Warn("analysis disabled", "error", err)
			}

			if load != "" {
				g, err := readNetwork(load, input, cfg.Physics.MaxNodes)
				if err != nil {
					return err
				}
				sched.Load(g)
			}

			srv := server.New(server.Config{
				Host:      cfg.Server.Host,
				Port:      cfg.Server.Port,
				AllowAll:  cfg.Server.AllowAllOrigins,
				Timeout:   time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
				FrameRate: cfg.FrameRate,
				MaxNodes:  cfg.Physics.MaxNodes,
				Width:     cfg.Viewport.Width,
				Height:    cfg.Viewport.Height,
			}, sched, analyzer, logger)

			w := cmd.OutOrStdout()
			ui.Banner(w, "live layout server")
			fmt.Fprintf(w, "  %s http://%s\n\n", ui.StatusIcon(true), ui.Info.Sprint(srv.Addr()))

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides config)")
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "listen port (overrides config)")
	cmd.Flags().StringVar(&load, "load", "", "network file to start with")
	cmd.Flags().StringVar(&input, "input-format", "", "format of --load: json, csv, text (default from file extension)")

	return cmd
}
