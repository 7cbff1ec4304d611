package scheduler

import (
	"sync"
	"time"
)

// FrameSource delivers display-refresh callbacks.
//
// Start calls frame once per refresh until frame returns false or the
// returned stop function is called. Calls never overlap. Once stop returns no
// call is in progress and none will follow. stop is idempotent and must not
// be called from inside frame.
type FrameSource interface {
	Start(frame func() bool) (stop func())
}

// TickerSource drives frames from a time.Ticker on its own goroutine
type TickerSource struct {
	Interval time.Duration
}

// MaxFrameRate is the fastest refresh a TickerSource will run at
const MaxFrameRate = 1000

// FrameInterval converts a refresh rate into a ticker period. Rates outside
// 1..MaxFrameRate fall back to 60 or are capped.
func FrameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	if fps > MaxFrameRate {
		fps = MaxFrameRate
	}
	return time.Second / time.Duration(fps)
}

// NewTickerSource returns a source firing fps times per second
func NewTickerSource(fps int) *TickerSource {
	return &TickerSource{Interval: FrameInterval(fps)}
}

// Start implements FrameSource. A non-positive Interval runs at 60 fps.
func (ts *TickerSource) Start(frame func() bool) func() {
	interval := ts.Interval
	if interval <= 0 {
		interval = FrameInterval(0)
	}
	ticker := time.NewTicker(interval)
	quit := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-ticker.C:
				// Both may be ready; quit wins
				select {
				case <-quit:
					return
				default:
				}
				if !frame() {
					return
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(quit) })
		<-done
	}
}

// ManualSource delivers a frame only when Fire is called. Tests use it to
// step a scheduler deterministically.
type ManualSource struct {
	mu    sync.Mutex
	frame func() bool
	gen   uint64
}

// Start implements FrameSource
func (m *ManualSource) Start(frame func() bool) func() {
	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.frame = frame
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.gen == gen {
			m.frame = nil
		}
	}
}

// Fire delivers one frame and reports whether a callback ran
func (m *ManualSource) Fire() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.frame == nil {
		return false
	}
	if !m.frame() {
		m.frame = nil
	}
	return true
}
