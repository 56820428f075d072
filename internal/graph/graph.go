// Package graph provides the decorative "knowledge graph" panel.
//
// The panel is illustration only: a fixed set of labeled concept nodes
// scattered at pseudo-random positions, with a handful of constant lines
// drawn behind them. Nothing here models relationships between nodes.
package graph

import "math/rand/v2"

// Node is a static concept label.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Placed is a node positioned on the panel. X and Y are percentages of the
// panel width and height.
type Placed struct {
	Node
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Line is a decorative stroke in panel percentages.
type Line struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Layout is one rendering of the panel.
type Layout struct {
	Nodes []Placed `json:"nodes"`
	Lines []Line   `json:"lines"`
}

// Margin keeps node labels inside the panel edges, in percent.
const Margin = 10.0

var nodes = []Node{
	{ID: "perception", Label: "Perception", Color: "#60a5fa"},
	{ID: "memory", Label: "Memory", Color: "#a78bfa"},
	{ID: "reasoning", Label: "Reasoning", Color: "#FB326E"},
	{ID: "language", Label: "Language", Color: "#34d399"},
	{ID: "planning", Label: "Planning", Color: "#fbbf24"},
	{ID: "learning", Label: "Learning", Color: "#f472b6"},
}

var lines = []Line{
	{X1: 15, Y1: 20, X2: 50, Y2: 50},
	{X1: 85, Y1: 20, X2: 50, Y2: 50},
	{X1: 15, Y1: 80, X2: 50, Y2: 50},
	{X1: 85, Y1: 80, X2: 50, Y2: 50},
	{X1: 15, Y1: 20, X2: 85, Y2: 20},
	{X1: 15, Y1: 80, X2: 85, Y2: 80},
}

// Rand is the random source used for positions. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Nodes returns a copy of the fixed node list.
func Nodes() []Node {
	out := make([]Node, len(nodes))
	copy(out, nodes)
	return out
}

// Render places every node at a fresh random position. A nil rng uses the
// global source.
func Render(rng Rand) Layout {
	pos := rand.Float64
	if rng != nil {
		pos = rng.Float64
	}

	span := 100 - 2*Margin
	placed := make([]Placed, len(nodes))
	for i, n := range nodes {
		placed[i] = Placed{
			Node: n,
			X:    Margin + pos()*span,
			Y:    Margin + pos()*span,
		}
	}

	ls := make([]Line, len(lines))
	copy(ls, lines)
	return Layout{Nodes: placed, Lines: ls}
}
