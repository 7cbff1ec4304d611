package render

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Node drawing geometry, in viewport units, as a function of node radius.

// HaloRadius is the radius of the translucent halo behind a node
func HaloRadius(r float64) float64 { return r*2.5 + 10 }

// BodyRadius is the radius of the solid node circle
func BodyRadius(r float64) float64 { return r*1.5 + 5 }

// LabelOffset is how far below the node center its label sits
func LabelOffset(r float64) float64 { return r*1.5 + 20 }

const (
	haloOpacity = 0.2
	pulseRate   = 0.05 // noise units per tick
	pulseSpread = 0.7  // noise units between consecutive nodes
)

// Pulse animates node halos with a simplex noise field sampled along
// (node index, tick), so neighbouring ticks breathe smoothly and nodes
// drift out of phase with each other.
type Pulse struct {
	noise     opensimplex.Noise
	intensity float64
}

// NewPulse creates a pulse. Intensity 0 gives a still halo.
func NewPulse(seed int64, intensity float64) *Pulse {
	return &Pulse{
		noise:     opensimplex.New(seed),
		intensity: intensity,
	}
}

// At returns the halo radius scale and fill opacity of node i at tick
func (p *Pulse) At(i int, tick uint64) (scale, opacity float64) {
	if p == nil || p.intensity == 0 {
		return 1, haloOpacity
	}
	n := p.noise.Eval2(float64(i)*pulseSpread, float64(tick)*pulseRate)
	scale = 1 + 0.15*p.intensity*n
	opacity = haloOpacity * (1 + 0.5*p.intensity*n)
	if opacity < 0 {
		opacity = 0
	}
	return scale, opacity
}
