// Package lanes implements the lane assignment engine.
//
// Assign is a pure function of the store: given commits and branches it
// deterministically recomputes one lane per branch and propagates a lane onto
// every commit reachable from a branch head. It is total (never fails) and
// idempotent — assigning an already-assigned store changes nothing.
//
// # Branch ordering
//
// Branches other than the initial one are ordered by their fork signature:
// the depth of the head commit's first parent, then the head's logical
// timestamp, both descending. Branches forking deeper into history and with
// more recently created heads claim the innermost free lanes, which keeps the
// rendering reading as "most recent branch closest to the mainline" and
// minimizes visual crossing.
//
// # Commit propagation
//
// The initial branch stamps its entire ancestry with lane 0 first. Remaining
// branches walk backward from their heads in ascending lane order; a commit
// already holding a strictly smaller lane stops the walk, anything else is
// overwritten. First claim wins, ties broken by processing order, so shared
// ancestry always belongs to the nearer branch.
package lanes

import (
	"slices"

	"github.com/matzehuels/gitscape/pkg/dag"
)

// forkSignature orders branches for lane numbering. Dangling heads get the
// zero signature {-1, -1}, which sorts last under the descending comparison.
type forkSignature struct {
	forkParentDepth int
	headTimestamp   int64
}

// Assign recomputes branch and commit lanes and returns a new snapshot.
// The input store is never modified.
func Assign(s *dag.Store) *dag.Store {
	out := s.Clone()

	ordered := orderBranches(out)

	// Lane numbering: initial branch fixed at 0, the rest 1..n in fork order.
	if b, ok := out.Branches[dag.DefaultBranch]; ok {
		b.Lane = 0
		out.Branches[dag.DefaultBranch] = b
	}
	for i, name := range ordered {
		b := out.Branches[name]
		b.Lane = i + 1
		out.Branches[name] = b
	}

	// Propagation. claimed tracks which commits have been stamped during
	// this pass; unreachable commits keep their stale lane.
	claimed := make(map[string]int, len(out.Commits))

	if b, ok := out.Branches[dag.DefaultBranch]; ok {
		stamp(out, b.Head, 0, claimed)
	}
	for _, name := range ordered {
		b := out.Branches[name]
		stamp(out, b.Head, b.Lane, claimed)
	}

	return out
}

// orderBranches returns every branch except the initial one, sorted by fork
// signature descending, name ascending as the final tie-break.
func orderBranches(s *dag.Store) []string {
	names := make([]string, 0, len(s.Branches))
	for _, name := range s.BranchNames() {
		if name != dag.DefaultBranch {
			names = append(names, name)
		}
	}

	sigs := make(map[string]forkSignature, len(names))
	for _, name := range names {
		sigs[name] = signature(s, s.Branches[name])
	}

	slices.SortStableFunc(names, func(a, b string) int {
		sa, sb := sigs[a], sigs[b]
		if sa.forkParentDepth != sb.forkParentDepth {
			return sb.forkParentDepth - sa.forkParentDepth
		}
		if sa.headTimestamp != sb.headTimestamp {
			if sb.headTimestamp > sa.headTimestamp {
				return 1
			}
			return -1
		}
		if a < b {
			return -1
		}
		return 1
	})
	return names
}

// signature computes a branch's fork signature: the depth of the head's
// first parent, or head depth - 1 when the head is itself a root, or -1 for
// a dangling head.
func signature(s *dag.Store, b dag.Branch) forkSignature {
	head, ok := s.Commit(b.Head)
	if !ok {
		return forkSignature{forkParentDepth: -1, headTimestamp: -1}
	}
	depth := head.Depth - 1
	if len(head.ParentIDs) > 0 {
		if parent, ok := s.Commit(head.ParentIDs[0]); ok {
			depth = parent.Depth
		} else {
			depth = -1
		}
	}
	return forkSignature{forkParentDepth: depth, headTimestamp: head.Timestamp}
}

// stamp walks backward from head claiming commits for lane. A commit already
// claimed with a strictly smaller lane wins and blocks further traversal;
// equal or larger claims are overwritten and walked through.
func stamp(s *dag.Store, head string, lane int, claimed map[string]int) {
	s.Walk(head, dag.ToParents, func(c dag.Commit) bool {
		if prev, ok := claimed[c.ID]; ok && prev < lane {
			return false
		}
		claimed[c.ID] = lane
		c.Lane = lane
		s.Commits[c.ID] = c
		return true
	})
}
