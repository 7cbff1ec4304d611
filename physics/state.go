package physics

import (
	"math"
	"math/rand"

	"github.com/TFMV/skillgraph/models"
	"gonum.org/v1/gonum/spatial/r2"
)

// Body is the kinematic state of one node
type Body struct {
	ID  string
	Pos r2.Vec
	Vel r2.Vec
}

// State is the mutable kinematic state of a whole graph. Bodies are stored in
// the model's node order.
type State struct {
	Center r2.Vec
	Bodies []Body
	Resets int // bodies reset after going non-finite

	index map[string]int
}

// Init seeds a state for model around center using the default placement
// radius.
func Init(model *models.Graph, center r2.Vec, seed int64) *State {
	return InitWithin(model, center, seed, DefaultParams().SeedRadius)
}

// InitWithin seeds a state for model. Node i is placed at center plus an
// offset drawn uniformly from a disk of the given radius; offsets are drawn in
// node order from a source seeded with seed, so equal arguments always yield
// identical states. Velocities start at zero.
func InitWithin(model *models.Graph, center r2.Vec, seed int64, radius float64) *State {
	n := 0
	if model != nil {
		n = model.Len()
	}

	s := &State{
		Center: center,
		Bodies: make([]Body, n),
		index:  make(map[string]int, n),
	}

	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < n; i++ {
		id := model.Node(i).ID
		s.Bodies[i] = Body{
			ID:  id,
			Pos: r2.Add(center, diskOffset(rng, radius)),
		}
		s.index[id] = i
	}

	return s
}

// diskOffset draws a point uniformly from a disk of radius r
func diskOffset(rng *rand.Rand, r float64) r2.Vec {
	angle := rng.Float64() * 2 * math.Pi
	dist := r * math.Sqrt(rng.Float64())
	return r2.Vec{X: dist * math.Cos(angle), Y: dist * math.Sin(angle)}
}

// Index resolves a node id to its body
func (s *State) Index(id string) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// Clone returns a deep copy of the state
func (s *State) Clone() *State {
	c := &State{
		Center: s.Center,
		Bodies: make([]Body, len(s.Bodies)),
		Resets: s.Resets,
		index:  s.index, // read-only after Init
	}
	copy(c.Bodies, s.Bodies)
	return c
}

// KineticEnergy returns the sum of squared speeds (unit mass)
func (s *State) KineticEnergy() float64 {
	total := 0.0
	for _, b := range s.Bodies {
		total += r2.Norm2(b.Vel)
	}
	return total
}
