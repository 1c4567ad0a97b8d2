package dag

import (
	"errors"
	"fmt"
)

var (
	// ErrSelfParent is returned by [Store.Validate] when a commit lists
	// itself among its parents.
	ErrSelfParent = errors.New("commit is its own parent")

	// ErrDepthMismatch is returned by [Store.Validate] when a commit's depth
	// is not one greater than the maximum depth of its existing parents
	// (or nonzero for a root).
	ErrDepthMismatch = errors.New("depth must be max(parent depth) + 1")

	// ErrGraphHasCycle is returned by [Store.Validate] when the parent
	// relation contains a cycle. Cycles are detected with depth-first search
	// using white/gray/black coloring.
	ErrGraphHasCycle = errors.New("graph contains a cycle")

	// ErrDanglingHead is returned by [Store.Validate] when a branch points
	// at a commit that does not exist. This can follow external edits to a
	// deserialized store; the mutation engine never produces it.
	ErrDanglingHead = errors.New("branch head commit not found")

	// ErrDuplicateLane is returned by [Store.Validate] when two live
	// branches hold the same lane after assignment.
	ErrDuplicateLane = errors.New("duplicate branch lane")
)

// Validate checks store integrity and returns nil if valid. It verifies:
//
//  1. No commit is its own parent
//  2. The full parent relation is acyclic
//  3. Every commit's depth equals max(parent depth) + 1, roots at 0
//  4. Every branch head resolves to an existing commit
//  5. No two branches share a lane
//
// Dangling parent references are ignored here: a commit may legitimately
// reference a parent not present in the current view, and the layout engine
// drops such edges silently.
//
// Validate is a diagnostic for tests and developer warnings; the engines do
// not depend on it for correctness.
func (s *Store) Validate() error {
	for _, c := range s.Commits {
		for _, p := range c.ParentIDs {
			if p == c.ID {
				return fmt.Errorf("commit %s: %w", c.ID, ErrSelfParent)
			}
		}
	}
	if err := s.detectCycles(); err != nil {
		return err
	}
	if err := s.checkDepths(); err != nil {
		return err
	}
	for name, b := range s.Branches {
		if _, ok := s.Commits[b.Head]; !ok {
			return fmt.Errorf("branch %s -> %s: %w", name, b.Head, ErrDanglingHead)
		}
	}
	byLane := make(map[int]string, len(s.Branches))
	for _, name := range s.BranchNames() {
		lane := s.Branches[name].Lane
		if other, taken := byLane[lane]; taken {
			return fmt.Errorf("branches %s and %s on lane %d: %w", other, name, lane, ErrDuplicateLane)
		}
		byLane[lane] = name
	}
	return nil
}

func (s *Store) checkDepths() error {
	for _, c := range s.Commits {
		maxParent := -1
		known := false
		for _, p := range c.ParentIDs {
			parent, ok := s.Commits[p]
			if !ok {
				continue
			}
			known = true
			if parent.Depth > maxParent {
				maxParent = parent.Depth
			}
		}
		if !known {
			// Roots and commits whose parents are all missing from the view.
			if len(c.ParentIDs) == 0 && c.Depth != 0 {
				return fmt.Errorf("root %s at depth %d: %w", c.ID, c.Depth, ErrDepthMismatch)
			}
			continue
		}
		if c.Depth != maxParent+1 {
			return fmt.Errorf("commit %s at depth %d, parents reach %d: %w", c.ID, c.Depth, maxParent, ErrDepthMismatch)
		}
	}
	return nil
}

func (s *Store) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	children := s.ChildIndex()
	color := make(map[string]int, len(s.Commits))
	var hasCycle bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range children[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
				return
			}
		}
		color[id] = black
	}

	for id := range s.Commits {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}
