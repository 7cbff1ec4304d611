package physics

import (
	"github.com/TFMV/skillgraph/models"
)

// NodeView is a node as handed to renderers
type NodeView struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Group  int     `json:"group"`
}

// LinkView is a surviving link as handed to renderers
type LinkView struct {
	SourceID string  `json:"sourceId"`
	TargetID string  `json:"targetId"`
	Weight   float64 `json:"weight"`
}

// Snapshot is a copy of the simulation after a complete tick. Nothing in it
// points back into the live state.
type Snapshot struct {
	GraphID string     `json:"graphId"`
	Tick    uint64     `json:"tick"`
	Energy  float64    `json:"energy"`
	Nodes   []NodeView `json:"nodes"`
	Links   []LinkView `json:"links"`
}

// NewSnapshot copies positions from s and attributes from model
func NewSnapshot(model *models.Graph, s *State, tick uint64) *Snapshot {
	snap := &Snapshot{
		Tick:  tick,
		Nodes: []NodeView{},
		Links: []LinkView{},
	}
	if model == nil || s == nil {
		return snap
	}

	snap.GraphID = model.ID
	snap.Energy = s.KineticEnergy()

	snap.Nodes = make([]NodeView, 0, len(s.Bodies))
	for i, b := range s.Bodies {
		node := model.Node(i)
		snap.Nodes = append(snap.Nodes, NodeView{
			ID:     b.ID,
			X:      b.Pos.X,
			Y:      b.Pos.Y,
			Radius: node.Radius,
			Group:  node.Group,
		})
	}

	snap.Links = make([]LinkView, 0, model.LinkCount())
	for k := 0; k < model.LinkCount(); k++ {
		link := model.Link(k)
		snap.Links = append(snap.Links, LinkView{
			SourceID: link.Source,
			TargetID: link.Target,
			Weight:   link.Weight,
		})
	}

	return snap
}

// Node returns the view for id, if present
func (s *Snapshot) Node(id string) (NodeView, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeView{}, false
}
