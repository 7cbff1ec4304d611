package physics

import (
	"math"

	"github.com/TFMV/skillgraph/models"
	"gonum.org/v1/gonum/spatial/r2"
)

// goldenAngle spreads tie-break directions for coincident bodies
const goldenAngle = 2.399963229728653

// RepulsionMagnitude is k_r / max(d, d_min)^2
func RepulsionMagnitude(d float64, p Params) float64 {
	d = math.Max(d, p.MinDistance)
	return p.Repulsion / (d * d)
}

// SpringMagnitude is (d - L0) * k_s. Positive values pull the endpoints
// together, negative values push them apart. Link weight does not enter.
func SpringMagnitude(d float64, p Params) float64 {
	return (d - p.RestLength) * p.Spring
}

// ComputeForces returns the net force on every body for one tick. It reads
// s and model and writes nothing else. Cost is O(n² + m): every pair repels,
// every link springs, every body is pulled toward the center.
func ComputeForces(s *State, model *models.Graph, p Params) []r2.Vec {
	forces := make([]r2.Vec, len(s.Bodies))

	// Repulsion between every pair, equal and opposite
	for i := range s.Bodies {
		for j := i + 1; j < len(s.Bodies); j++ {
			// Vector from j to i
			dir, d := direction(s.Bodies[j].Pos, s.Bodies[i].Pos, i, j)
			f := r2.Scale(RepulsionMagnitude(d, p), dir)
			forces[i] = r2.Add(forces[i], f)
			forces[j] = r2.Sub(forces[j], f)
		}
	}

	// Springs, resolved by id on every tick
	if model != nil {
		for k := 0; k < model.LinkCount(); k++ {
			link := model.Link(k)
			i, sourceExists := s.Index(link.Source)
			j, targetExists := s.Index(link.Target)
			if !sourceExists || !targetExists || i == j {
				continue
			}

			// Vector from i to j
			dir, d := direction(s.Bodies[i].Pos, s.Bodies[j].Pos, j, i)
			f := r2.Scale(SpringMagnitude(d, p), dir)
			forces[i] = r2.Add(forces[i], f)
			forces[j] = r2.Sub(forces[j], f)
		}
	}

	// Centering
	for i, b := range s.Bodies {
		pull := r2.Scale(p.Centering, r2.Sub(s.Center, b.Pos))
		forces[i] = r2.Add(forces[i], pull)
	}

	return forces
}

// direction returns the unit vector from a to b and the distance between
// them. Coincident points get a deterministic direction derived from the
// pair's indices so they can separate; swapping the indices flips it.
func direction(a, b r2.Vec, i, j int) (r2.Vec, float64) {
	delta := r2.Sub(b, a)
	d := r2.Norm(delta)
	if d > 0 && !math.IsInf(d, 0) {
		return r2.Scale(1/d, delta), d
	}

	lo, hi, sign := i, j, 1.0
	if lo > hi {
		lo, hi, sign = hi, lo, -1.0
	}
	angle := float64(lo)*goldenAngle + float64(hi)
	return r2.Vec{X: sign * math.Cos(angle), Y: sign * math.Sin(angle)}, d
}
