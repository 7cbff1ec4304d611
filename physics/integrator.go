package physics

import (
	"math"

	"github.com/TFMV/skillgraph/models"
	"gonum.org/v1/gonum/spatial/r2"
)

// resetRadius bounds where non-finite bodies are put back
const resetRadius = 10.0

// Integrate advances s by one damped explicit-Euler step with unit mass and
// unit timestep:
//
//	vel = (vel + force) * damping
//	pos = pos + vel
//
// Bodies whose position or velocity became non-finite are put back near the
// center at rest so they cannot poison the next tick's pairwise forces. It
// returns the number of bodies reset.
func Integrate(s *State, forces []r2.Vec, p Params) int {
	resets := 0
	for i := range s.Bodies {
		b := &s.Bodies[i]

		b.Vel = r2.Scale(p.Damping, r2.Add(b.Vel, forces[i]))
		b.Pos = r2.Add(b.Pos, b.Vel)

		if !finite(b.Pos) || !finite(b.Vel) {
			angle := float64(i) * goldenAngle
			b.Pos = r2.Add(s.Center, r2.Vec{X: resetRadius * math.Cos(angle), Y: resetRadius * math.Sin(angle)})
			b.Vel = r2.Vec{}
			resets++
		}
	}
	s.Resets += resets
	return resets
}

// Tick is the pure form of one simulation step: it returns the successor of s
// and leaves s untouched.
func Tick(s *State, model *models.Graph, p Params) *State {
	next := s.Clone()
	Integrate(next, ComputeForces(s, model, p), p)
	return next
}

func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
