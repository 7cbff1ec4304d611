package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Build validates raw nodes and links into an immutable Graph.
//
// A node without an id makes the whole input malformed and Build returns a
// *ValidationError. Everything else is normalized: duplicate ids keep the
// first slot but take the attributes of the last occurrence, links whose
// endpoints are unknown are dropped and recorded, and non-positive radii and
// weights are clamped to Epsilon.
func Build(rawNodes []RawNode, rawLinks []RawLink) (*Graph, error) {
	g := &Graph{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		nodes:     make([]Node, 0, len(rawNodes)),
		links:     make([]Link, 0, len(rawLinks)),
		index:     make(map[string]int, len(rawNodes)),
	}

	for i, rn := range rawNodes {
		if rn.ID == "" {
			return nil, &ValidationError{Index: i, Reason: "missing id"}
		}

		node := Node{
			ID:     rn.ID,
			Group:  groupOf(rn.Group),
			Radius: positive(rn.Radius),
		}

		// Last-seen wins
		if slot, ok := g.index[rn.ID]; ok {
			g.nodes[slot] = node
			continue
		}
		g.index[rn.ID] = len(g.nodes)
		g.nodes = append(g.nodes, node)
	}

	for _, rl := range rawLinks {
		_, sourceExists := g.index[rl.Source]
		_, targetExists := g.index[rl.Target]
		if !sourceExists || !targetExists {
			g.dropped = append(g.dropped, rl)
			continue
		}

		g.links = append(g.links, Link{
			Source: rl.Source,
			Target: rl.Target,
			Weight: positive(rl.Value),
		})
	}

	return g, nil
}

// positive clamps a possibly missing value to at least Epsilon
func positive(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v < Epsilon {
		return Epsilon
	}
	return *v
}

// groupOf truncates the numeric group tag; missing or non-finite tags map to 0
func groupOf(v *float64) int {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0
	}
	return int(*v)
}
