package canopy

import (
	"fmt"
	"os"
)

// DebugMode selects diagnostic output. Modes combine with bitwise OR.
type DebugMode uint8

const (
	// DebugNodes outlines every drawn node with a per-node color.
	DebugNodes DebugMode = 1 << iota
	// DebugContainers outlines every child container.
	DebugContainers
	// DebugClipRegion outlines each damaged rectangle after Draw.
	DebugClipRegion
	// DebugTree warns on stderr about very deep or very wide trees.
	DebugTree
)

// DebugMode returns the active debug modes.
func (s *Surface) DebugMode() DebugMode { return s.debug }

// SetDebugMode changes the active debug modes and repaints everything.
func (s *Surface) SetDebugMode(m DebugMode) {
	if m != s.debug {
		s.debug = m
		s.MarkRedraw()
	}
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[canopy] warning: tree depth %d exceeds %d (node %q)\n",
			depth, debugMaxTreeDepth, n.name)
	}
}

// debugCheckChildCount warns on stderr if a container holds more than 1000
// children.
const debugMaxChildCount = 1000

func debugCheckChildCount(c *Container) {
	if len(c.nodes) > debugMaxChildCount {
		owner := "<surface>"
		if c.owner != nil {
			owner = c.owner.name
		}
		_, _ = fmt.Fprintf(os.Stderr, "[canopy] warning: node %q has %d children (threshold %d)\n",
			owner, len(c.nodes), debugMaxChildCount)
	}
}

var debugClipColor = Color{1, 0, 1, 0.8}

var debugPalette = [...]Color{
	{1, 0.2, 0.2, 0.8},
	{0.2, 0.8, 0.2, 0.8},
	{0.2, 0.4, 1, 0.8},
	{1, 0.8, 0.1, 0.8},
	{0.1, 0.8, 0.9, 0.8},
	{0.9, 0.3, 0.9, 0.8},
}

// debugColor picks a stable outline color for a node.
func debugColor(tint int) Color {
	if tint < 0 {
		tint = -tint
	}
	return debugPalette[tint%len(debugPalette)]
}
