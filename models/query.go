package models

import (
	"fmt"
)

// NodeFilter is a function type used to filter nodes in queries
type NodeFilter func(node Node) bool

// Len returns the number of nodes
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node at position i in insertion order
func (g *Graph) Node(i int) Node {
	return g.nodes[i]
}

// Nodes returns a copy of the node sequence
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Links returns a copy of the surviving links
func (g *Graph) Links() []Link {
	out := make([]Link, len(g.links))
	copy(out, g.links)
	return out
}

// LinkCount returns the number of surviving links
func (g *Graph) LinkCount() int {
	return len(g.links)
}

// Link returns the surviving link at position i
func (g *Graph) Link(i int) Link {
	return g.links[i]
}

// Dropped returns the links that referenced unknown node ids
func (g *Graph) Dropped() []RawLink {
	out := make([]RawLink, len(g.dropped))
	copy(out, g.dropped)
	return out
}

// Index resolves a node id to its position in the node sequence
func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// FindNodeByID returns a node by its ID
func (g *Graph) FindNodeByID(id string) (Node, error) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, fmt.Errorf("node with ID %s not found", id)
	}
	return g.nodes[i], nil
}

// Neighbors returns the ids of all nodes directly linked to id, in link order
func (g *Graph) Neighbors(id string) []string {
	var result []string
	seen := make(map[string]bool)

	for _, link := range g.links {
		var other string
		switch id {
		case link.Source:
			other = link.Target
		case link.Target:
			other = link.Source
		default:
			continue
		}
		if other == id || seen[other] {
			continue
		}
		seen[other] = true
		result = append(result, other)
	}

	return result
}

// Degree returns the number of links touching id
func (g *Graph) Degree(id string) int {
	degree := 0
	for _, link := range g.links {
		if link.Source == id {
			degree++
		}
		if link.Target == id {
			degree++
		}
	}
	return degree
}

// FilterNodes returns nodes that match the provided filter function
func (g *Graph) FilterNodes(filter NodeFilter) []Node {
	var result []Node
	for _, node := range g.nodes {
		if filter(node) {
			result = append(result, node)
		}
	}
	return result
}
