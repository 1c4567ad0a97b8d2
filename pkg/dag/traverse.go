package dag

// Direction selects which adjacency a traversal follows.
type Direction int

const (
	// ToParents walks backward through ParentIDs, toward roots.
	ToParents Direction = iota
	// ToChildren walks forward through the derived child relation: C is a
	// child of P when P appears in C.ParentIDs.
	ToChildren
)

// Walk runs a breadth-first traversal from start, following the given
// direction. For every reached commit (including start, if present) it calls
// visit; returning false stops traversal past that commit without aborting
// the rest of the frontier. Missing references are skipped silently.
//
// Walk is the shared traversal behind cycle detection, ancestor checks, and
// lane propagation. It never mutates the store.
func (s *Store) Walk(start string, dir Direction, visit func(Commit) bool) {
	var children map[string][]string
	if dir == ToChildren {
		children = s.ChildIndex()
	}

	seen := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		c, ok := s.Commits[id]
		if !ok {
			continue
		}
		if !visit(c) {
			continue
		}

		var next []string
		if dir == ToParents {
			next = c.ParentIDs
		} else {
			next = children[id]
		}
		for _, n := range next {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
}

// IsAncestor reports whether ancestor is reachable from descendant by walking
// parent edges (a commit counts as its own ancestor).
func (s *Store) IsAncestor(ancestor, descendant string) bool {
	found := false
	s.Walk(descendant, ToParents, func(c Commit) bool {
		if c.ID == ancestor {
			found = true
			return false
		}
		return true
	})
	return found
}

// Reaches reports whether target is reachable from start by walking the child
// relation. Used by the mutation engine's cycle check: re-parenting start onto
// one of its own descendants would close a cycle.
func (s *Store) Reaches(start, target string) bool {
	found := false
	s.Walk(start, ToChildren, func(c Commit) bool {
		if c.ID == target {
			found = true
			return false
		}
		return true
	})
	return found
}

// ChildIndex builds the forward adjacency: commit ID to the IDs of commits
// listing it as a parent. Child lists are ordered by the children's
// timestamps so traversal order is deterministic.
func (s *Store) ChildIndex() map[string][]string {
	idx := make(map[string][]string)
	for _, c := range s.SortedCommits() {
		for _, p := range c.ParentIDs {
			idx[p] = append(idx[p], c.ID)
		}
	}
	return idx
}
