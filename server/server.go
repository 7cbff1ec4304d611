// Package server exposes the running skill network over HTTP: load or
// analyze a network, fetch rendered snapshots and stream ticks over a
// websocket.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/TFMV/skillgraph/analysis"
	"github.com/TFMV/skillgraph/render"
	"github.com/TFMV/skillgraph/scheduler"
)

// Config holds server configuration.
type Config struct {
	Host      string
	Port      int
	AllowAll  bool          // allow all CORS and websocket origins (dev mode)
	Timeout   time.Duration // per-request timeout for the API, 0 for 60s
	FrameRate int           // websocket push rate, 0 for 60
	MaxNodes  int           // largest network POST /api/network accepts, 0 for no limit
	Width     float64       // viewport used by the renderers
	Height    float64
}

// Server serves one scheduler
type Server struct {
	cfg        Config
	sched      *scheduler.Scheduler
	analyzer   *analysis.Client
	logger     *slog.Logger
	router     chi.Router
	httpServer *http.Server

	done     chan struct{} // closed by Shutdown, ends websocket streams
	doneOnce sync.Once
}

// New creates a server. analyzer may be nil, in which case the analyze
// endpoint answers 503.
func New(cfg Config, sched *scheduler.Scheduler, analyzer *analysis.Client, logger *slog.Logger) *Server {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.FrameRate <= 0 || cfg.FrameRate > scheduler.MaxFrameRate {
		cfg.FrameRate = 60
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 800, 600
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:      cfg,
		sched:    sched,
		analyzer: analyzer,
		logger:   logger,
		done:     make(chan struct{}),
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/", s.handleIndex)

	// The stream outlives any request timeout
	r.Get("/ws", s.handleStream)

	r.Route("/api/network", func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.Timeout))
		r.Post("/", s.handleLoad)
		r.Delete("/", s.handleStop)
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/status", s.handleStatus)
		r.Get("/snapshot", s.handleSnapshot)
		r.Get("/svg", s.handleRender("svg", "image/svg+xml"))
		r.Get("/chart", s.handleRender("html", "text/html; charset=utf-8"))
		r.Get("/dot", s.handleRender("dot", "text/vnd.graphviz"))
	})

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Addr is the address Start listens on
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
}

// Start listens until ctx is cancelled, then shuts down gracefully and stops
// the scheduler.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("skillgraph server listening", "addr", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.Shutdown(shutdownCtx)
	s.sched.Stop()
	if err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server. Open websocket streams are
// closed; http.Server.Shutdown does not track hijacked connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.doneOnce.Do(func() { close(s.done) })
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *Server) renderOptions(format string) *render.OutputOptions {
	opts := render.NewDefaultOptions(format)
	opts.Width = s.cfg.Width
	opts.Height = s.cfg.Height
	return opts
}

// requestLogger logs one line per request through slog
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}
