// Package physics implements the force-directed layout of the skill network:
// the kinematic state of every node, the per-tick force computation and the
// damped explicit-Euler integrator that advances it.
package physics

import (
	"github.com/TFMV/skillgraph/models"
	"gonum.org/v1/gonum/spatial/r2"
)

// LayoutAlgorithm defines an interface for layout algorithms
type LayoutAlgorithm interface {
	Initialize(model *models.Graph)
	Step() bool // Returns true once the layout reports itself settled
	Snapshot() *Snapshot
	GetName() string
}

// Params holds the simulation constants. They are fixed for the lifetime of
// a simulation.
type Params struct {
	Repulsion   float64 // k_r
	RestLength  float64 // L0
	Spring      float64 // k_s
	Centering   float64 // k_c
	Damping     float64 // per-tick velocity multiplier, < 1
	MinDistance float64 // floor for force denominators
	SeedRadius  float64 // radius of the initial placement disk

	// SettleEnergy enables settle detection when > 0: Step reports true once
	// total kinetic energy drops below it.
	SettleEnergy float64
}

// DefaultParams returns the constants the skill network view has always used
func DefaultParams() Params {
	return Params{
		Repulsion:   400,
		RestLength:  100,
		Spring:      0.05,
		Centering:   0.02,
		Damping:     0.9,
		MinDistance: 1,
		SeedRadius:  200,
	}
}

// ForceDirectedLayout owns one simulation: the model it was initialized with
// and the kinematic state derived from it. It is not safe for concurrent
// use; the scheduler is its only caller.
type ForceDirectedLayout struct {
	params     Params
	center     r2.Vec
	seed       int64
	model      *models.Graph
	state      *State
	iterations uint64
	stable     bool
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(params Params, center r2.Vec, seed int64) *ForceDirectedLayout {
	return &ForceDirectedLayout{
		params: params,
		center: center,
		seed:   seed,
	}
}

// GetName returns the name of the layout algorithm
func (fd *ForceDirectedLayout) GetName() string {
	return "Force-Directed Layout"
}

// Initialize discards any previous state and seeds a fresh one from model
func (fd *ForceDirectedLayout) Initialize(model *models.Graph) {
	fd.model = model
	fd.state = InitWithin(model, fd.center, fd.seed, fd.params.SeedRadius)
	fd.iterations = 0
	fd.stable = false
}

// Step performs one tick: all forces are computed from the current state
// before any body moves.
func (fd *ForceDirectedLayout) Step() bool {
	if fd.state == nil {
		return true
	}

	forces := ComputeForces(fd.state, fd.model, fd.params)
	Integrate(fd.state, forces, fd.params)
	fd.iterations++

	if fd.params.SettleEnergy > 0 {
		fd.stable = fd.state.KineticEnergy() < fd.params.SettleEnergy
	}
	return fd.stable
}

// Snapshot copies the current positions into a read-only view
func (fd *ForceDirectedLayout) Snapshot() *Snapshot {
	return NewSnapshot(fd.model, fd.state, fd.iterations)
}

// Iterations returns the number of ticks since Initialize
func (fd *ForceDirectedLayout) Iterations() uint64 {
	return fd.iterations
}

// State exposes the live state. Callers other than tests should use Snapshot.
func (fd *ForceDirectedLayout) State() *State {
	return fd.state
}
