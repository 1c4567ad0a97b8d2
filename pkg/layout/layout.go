// Package layout computes 2D coordinates for a commit store whose lanes and
// depths are final, and provides the collision diagnostic used by tests and
// developer warnings.
package layout

import (
	"github.com/matzehuels/gitscape/pkg/dag"
)

// Grid constants shared by the layout engine, the SVG renderer, and the
// collision checker so lane/depth deltas always map to the same pixel deltas.
const (
	LaneWidth = 120.0
	RowHeight = 80.0
	Padding   = 50.0

	// Minimum canvas so an empty or tiny graph still renders usably.
	MinWidth  = 600.0
	MinHeight = 400.0
)

// PositionedCommit is a commit with resolved canvas coordinates.
type PositionedCommit struct {
	dag.Commit
	X float64
	Y float64
}

// Edge is a render edge from a commit to one of its parents. Incoming marks
// the second parent of a merge commit so the renderer can distinguish the
// merged-in branch.
type Edge struct {
	ChildID  string
	ParentID string
	Incoming bool
}

// Result is the full output of a layout pass.
type Result struct {
	Commits []PositionedCommit
	Edges   []Edge
	Width   float64
	Height  float64
}

// Compute positions every commit on the lane/depth grid and builds one render
// edge per (commit, parent) pair whose parent exists in the store. Dangling
// parent references are dropped silently — they represent a partially loaded
// graph, not an error.
//
// Commits are emitted in (depth, timestamp, lane) order, which fixes
// rendering order for key stability in the UI collaborator.
func Compute(s *dag.Store) Result {
	sorted := s.SortedCommits()

	res := Result{
		Commits: make([]PositionedCommit, 0, len(sorted)),
	}

	maxX, maxY := 0.0, 0.0
	for _, c := range sorted {
		pc := PositionedCommit{
			Commit: c,
			X:      float64(c.Lane)*LaneWidth + Padding,
			Y:      float64(c.Depth)*RowHeight + Padding,
		}
		res.Commits = append(res.Commits, pc)
		if pc.X > maxX {
			maxX = pc.X
		}
		if pc.Y > maxY {
			maxY = pc.Y
		}

		for i, p := range c.ParentIDs {
			if _, ok := s.Commit(p); !ok {
				continue
			}
			res.Edges = append(res.Edges, Edge{
				ChildID:  c.ID,
				ParentID: p,
				Incoming: i == 1 && c.IsMerge(),
			})
		}
	}

	res.Width = maxX + LaneWidth
	res.Height = maxY + RowHeight
	if res.Width < MinWidth {
		res.Width = MinWidth
	}
	if res.Height < MinHeight {
		res.Height = MinHeight
	}
	return res
}
