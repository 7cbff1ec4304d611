// Package scheduler drives a layout one tick per display refresh and owns
// its start and stop lifecycle.
package scheduler

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/TFMV/skillgraph/models"
	"github.com/TFMV/skillgraph/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// Status is the lifecycle state of a Scheduler
type Status int32

const (
	Idle         Status = iota // no graph loaded yet
	Initializing               // state being built
	Running                    // one tick per frame
	Settled                    // loop ended by settle detection
	Stopped                    // torn down
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Initializing:
		return "initializing"
	case Running:
		return "running"
	case Settled:
		return "settled"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Config wires a Scheduler. Zero fields get defaults.
type Config struct {
	Frames    FrameSource
	NewLayout func() physics.LayoutAlgorithm
	Logger    *slog.Logger

	// OnTick, when set, receives every snapshot from the tick goroutine.
	// It must not block and must not call Stop or Load.
	OnTick func(*physics.Snapshot)
}

// Scheduler owns the running layout. The layout is only ever touched by the
// frame callback; everyone else reads published snapshots.
type Scheduler struct {
	frames    FrameSource
	newLayout func() physics.LayoutAlgorithm
	logger    *slog.Logger
	onTick    func(*physics.Snapshot)

	mu   sync.Mutex // serializes Load and Stop
	stop func()

	status atomic.Int32
	ticks  atomic.Uint64
	snap   atomic.Pointer[physics.Snapshot]
}

// New creates an idle scheduler
func New(cfg Config) *Scheduler {
	if cfg.Frames == nil {
		cfg.Frames = NewTickerSource(60)
	}
	if cfg.NewLayout == nil {
		cfg.NewLayout = func() physics.LayoutAlgorithm {
			return physics.NewForceDirectedLayout(physics.DefaultParams(), r2.Vec{X: 400, Y: 300}, 1)
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Scheduler{
		frames:    cfg.Frames,
		newLayout: cfg.NewLayout,
		logger:    cfg.Logger,
		onTick:    cfg.OnTick,
	}
}

// Load replaces whatever is running with a fresh simulation of model and
// starts ticking it. The previous simulation is stopped before the new
// one is built; nothing carries over. A nil model runs as an empty graph.
func (s *Scheduler) Load(model *models.Graph) {
	if model == nil {
		model, _ = models.Build(nil, nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.teardown()

	s.status.Store(int32(Initializing))
	layout := s.newLayout()
	layout.Initialize(model)
	s.ticks.Store(0)
	s.snap.Store(layout.Snapshot())

	s.status.Store(int32(Running))
	s.stop = s.frames.Start(func() bool {
		return s.tick(layout)
	})

	s.logger.Info("simulation started",
		"graph", model.ID,
		"layout", layout.GetName(),
		"nodes", model.Len(),
		"links", model.LinkCount())
}

// tick runs on the frame source's goroutine
func (s *Scheduler) tick(layout physics.LayoutAlgorithm) bool {
	settled := layout.Step()
	snap := layout.Snapshot()
	s.snap.Store(snap)
	s.ticks.Add(1)

	if s.onTick != nil {
		s.onTick(snap)
	}

	if settled {
		s.status.CompareAndSwap(int32(Running), int32(Settled))
		s.logger.Info("simulation settled", "graph", snap.GraphID, "ticks", snap.Tick, "energy", snap.Energy)
		return false
	}
	return true
}

// Stop cancels the frame loop. When it returns no tick is running and none
// will run until the next Load. Stopping an idle or stopped scheduler is a
// no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardown()
}

func (s *Scheduler) teardown() {
	if s.stop == nil {
		return
	}
	s.stop()
	s.stop = nil
	s.snap.Store(nil)
	s.status.Store(int32(Stopped))
	s.logger.Info("simulation stopped", "ticks", s.ticks.Load())
}

// Snapshot returns the latest complete snapshot, or nil when nothing is loaded
func (s *Scheduler) Snapshot() *physics.Snapshot {
	return s.snap.Load()
}

// Status returns the current lifecycle state
func (s *Scheduler) Status() Status {
	return Status(s.status.Load())
}

// Ticks returns the number of ticks run since the last Load
func (s *Scheduler) Ticks() uint64 {
	return s.ticks.Load()
}
