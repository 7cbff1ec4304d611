// Package models provides the data structures for the skillgraph application.
// It defines the validated, immutable skill network that the layout engine
// simulates.
package models

import (
	"errors"
	"fmt"
	"time"
)

// Epsilon is the smallest positive value a radius or weight may take.
// Missing or non-conforming values are clamped to it rather than rejected.
const Epsilon = 0.001

// ErrMalformed is returned, wrapped in a ValidationError, when the node list
// cannot be interpreted as a sequence of objects with string ids.
var ErrMalformed = errors.New("malformed skill network")

// ValidationError describes why a node list was rejected.
type ValidationError struct {
	Index  int // position of the offending node, -1 for the list itself
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%v: %s", ErrMalformed, e.Reason)
	}
	return fmt.Sprintf("%v: node %d: %s", ErrMalformed, e.Index, e.Reason)
}

// Unwrap lets callers test with errors.Is(err, ErrMalformed).
func (e *ValidationError) Unwrap() error {
	return ErrMalformed
}

// Node represents one skill in the network
type Node struct {
	ID     string  `json:"id"`
	Group  int     `json:"group"`  // Category tag, used for coloring only
	Radius float64 `json:"radius"` // Visual importance, always > 0
}

// Link represents a weighted relationship between two node ids
type Link struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"` // Stroke width hint, always > 0
}

// RawNode is a node as delivered by the analysis service, before validation.
// Nil numeric fields were missing from the payload.
type RawNode struct {
	ID     string
	Group  *float64
	Radius *float64
}

// RawLink is a link as delivered by the analysis service, before validation.
type RawLink struct {
	Source string
	Target string
	Value  *float64
}

// Graph is the validated skill network. It is built once per analysis
// result by Build and never modified afterwards; all accessors return copies.
type Graph struct {
	ID        string
	CreatedAt time.Time

	nodes   []Node
	links   []Link
	index   map[string]int
	dropped []RawLink
}

