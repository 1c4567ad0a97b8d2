// Package mutate implements the five state-changing operations on a commit
// store: append commit, create branch, batch-append custom commits, merge
// branches, and move (re-parent) a commit.
//
// Every operation takes the current snapshot and either returns a brand-new
// snapshot or a typed error from pkg/errors with the input untouched — there
// are no partial applications. Operations that change branch topology run the
// lane engine before returning; a plain append to an existing head skips the
// recomputation because it cannot move any existing commit's lane (it only
// extends the branch's own lane downward).
package mutate

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/gitscape/pkg/dag"
	"github.com/matzehuels/gitscape/pkg/dag/lanes"
	"github.com/matzehuels/gitscape/pkg/errors"
)

// DefaultCustomCount is the chain length used by [AddCustomCommits] when the
// caller passes a non-positive count.
const DefaultCustomCount = 4

// AddCommit appends one commit to the named branch and advances its head.
//
// This is the fast path: the new commit inherits the branch's lane and sits
// at head depth + 1, so no lane recomputation is needed.
func AddCommit(s *dag.Store, branch string) (*dag.Store, error) {
	b, ok := s.Branch(branch)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownBranch, "no branch named %q", branch)
	}
	head, ok := s.Commit(b.Head)
	if !ok {
		return nil, errors.New(errors.ErrCodeMissingHead, "branch %q points at missing commit %s", branch, b.Head)
	}

	out := s.Clone()
	c := dag.Commit{
		ID:        out.NextID(),
		ParentIDs: []string{head.ID},
		Timestamp: out.Tick(),
		Depth:     head.Depth + 1,
		Lane:      b.Lane,
	}
	out.Commits[c.ID] = c
	b.Head = c.ID
	out.Branches[branch] = b
	return out, nil
}

// CreateBranch forks a new branch from the given commit. The branch head is a
// brand-new commit one depth below the fork point. If name is empty a unique
// name is generated. Lanes are recomputed before returning.
func CreateBranch(s *dag.Store, commitID, name string) (*dag.Store, error) {
	base, ok := s.Commit(commitID)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownCommit, "no commit %q", commitID)
	}
	if name == "" {
		name = generateName("feature")
	}
	if err := errors.ValidateBranchName(name); err != nil {
		return nil, err
	}
	if _, exists := s.Branch(name); exists {
		return nil, errors.New(errors.ErrCodeInvalidName, "branch %q already exists", name)
	}

	out := s.Clone()
	c := dag.Commit{
		ID:        out.NextID(),
		ParentIDs: []string{base.ID},
		Timestamp: out.Tick(),
		Depth:     base.Depth + 1,
	}
	out.Commits[c.ID] = c
	// Lane 0 is a placeholder until the reassignment below.
	out.Branches[name] = dag.Branch{Name: name, Head: c.ID}
	return lanes.Assign(out), nil
}

// AddCustomCommits inserts a linear chain of count commits rooted at the
// given commit, on a dedicated generated branch. A non-positive count falls
// back to DefaultCustomCount. Lanes are recomputed before returning.
func AddCustomCommits(s *dag.Store, commitID string, count int) (*dag.Store, error) {
	base, ok := s.Commit(commitID)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownCommit, "no commit %q", commitID)
	}
	if count <= 0 {
		count = DefaultCustomCount
	}

	out := s.Clone()
	name := generateName("custom")
	parent := base
	for i := 0; i < count; i++ {
		c := dag.Commit{
			ID:        out.NextID(),
			ParentIDs: []string{parent.ID},
			Timestamp: out.Tick(),
			Depth:     parent.Depth + 1,
			Label:     fmt.Sprintf("%s %d/%d", name, i+1, count),
			Custom:    true,
		}
		out.Commits[c.ID] = c
		parent = c
	}
	out.Branches[name] = dag.Branch{Name: name, Head: parent.ID}
	return lanes.Assign(out), nil
}

// MoveCommit re-parents an existing commit onto a new parent.
//
// The move is rejected with CYCLE_DETECTED when the new parent is reachable
// from the moved commit over the pre-mutation child relation: re-parenting
// would make an ancestor its own descendant. On success the commit's subtree
// is restamped top-down — depth from the new ancestry, lane inherited from
// each commit's (possibly changed) first parent — using fresh logical
// timestamps so sibling ordering among touched descendants stays
// deterministic. Lanes are recomputed before returning.
//
// Branch heads detached from their former ancestry by the move are left
// stale. This is a documented limitation, not an oversight: repairing heads
// would require choosing between re-pointing and invalidating them, and the
// session layer surfaces the condition via Store.Validate instead.
func MoveCommit(s *dag.Store, commitID, newParentID string) (*dag.Store, error) {
	c, ok := s.Commit(commitID)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownCommit, "no commit %q", commitID)
	}
	newParent, ok := s.Commit(newParentID)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownCommit, "no commit %q", newParentID)
	}
	if commitID == newParentID {
		return nil, errors.New(errors.ErrCodeSelfParent, "cannot make %q its own parent", commitID)
	}
	if s.Reaches(commitID, newParentID) {
		return nil, errors.New(errors.ErrCodeCycleDetected,
			"%q is a descendant of %q; moving would create a cycle", newParentID, commitID)
	}

	out := s.Clone()
	c.ParentIDs = []string{newParentID}
	c.Depth = newParent.Depth + 1
	c.Lane = newParent.Lane
	c.Timestamp = out.Tick()
	out.Commits[commitID] = c

	// Restamp every descendant breadth-first from the moved commit. The
	// traversal is Kahn-style over the affected subgraph so that a commit is
	// only restamped once all of its affected parents are: merge commits
	// inside the moved subtree would otherwise pick up stale depths.
	affected := map[string]bool{commitID: true}
	out.Walk(commitID, dag.ToChildren, func(dc dag.Commit) bool {
		affected[dc.ID] = true
		return true
	})

	children := out.ChildIndex()
	pending := make(map[string]int, len(affected))
	for id := range affected {
		for _, p := range out.Commits[id].ParentIDs {
			if affected[p] {
				pending[id]++
			}
		}
	}

	queue := []string{commitID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if id != commitID {
			child := out.Commits[id]
			child.Depth = maxParentDepth(out, child) + 1
			if p, ok := out.Commit(child.ParentIDs[0]); ok {
				child.Lane = p.Lane
			}
			child.Timestamp = out.Tick()
			out.Commits[id] = child
		}
		for _, childID := range children[id] {
			if !affected[childID] {
				continue
			}
			pending[childID]--
			if pending[childID] == 0 {
				queue = append(queue, childID)
			}
		}
	}

	return lanes.Assign(out), nil
}

// MergeBranch merges source into target by creating a merge commit with
// parents [targetHead, sourceHead] and advancing target's head. The source
// branch is left untouched.
//
// When the source head is already an ancestor of the target head the merge
// is a no-op and ALREADY_MERGED is returned; callers should present it as a
// notice, not a failure.
func MergeBranch(s *dag.Store, target, source string) (*dag.Store, error) {
	if target == source {
		return nil, errors.New(errors.ErrCodeSameBranch, "cannot merge %q into itself", target)
	}
	tb, ok := s.Branch(target)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownBranch, "no branch named %q", target)
	}
	sb, ok := s.Branch(source)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownBranch, "no branch named %q", source)
	}
	targetHead, ok := s.Commit(tb.Head)
	if !ok {
		return nil, errors.New(errors.ErrCodeMissingHead, "branch %q points at missing commit %s", target, tb.Head)
	}
	sourceHead, ok := s.Commit(sb.Head)
	if !ok {
		return nil, errors.New(errors.ErrCodeMissingHead, "branch %q points at missing commit %s", source, sb.Head)
	}

	if s.IsAncestor(sourceHead.ID, targetHead.ID) {
		return nil, errors.New(errors.ErrCodeAlreadyMerged, "%q is already an ancestor of %q", source, target)
	}

	out := s.Clone()
	c := dag.Commit{
		ID:        out.NextID(),
		ParentIDs: []string{targetHead.ID, sourceHead.ID},
		Timestamp: out.Tick(),
		Depth:     max(targetHead.Depth, sourceHead.Depth) + 1,
		Lane:      tb.Lane,
		Label:     fmt.Sprintf("merge %s into %s", source, target),
	}
	out.Commits[c.ID] = c
	tb.Head = c.ID
	out.Branches[target] = tb
	return lanes.Assign(out), nil
}

func maxParentDepth(s *dag.Store, c dag.Commit) int {
	depth := -1
	for _, p := range c.ParentIDs {
		if parent, ok := s.Commit(p); ok && parent.Depth > depth {
			depth = parent.Depth
		}
	}
	return depth
}

// generateName derives a short unique branch name like "feature-3f2a1b".
func generateName(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s-%s", prefix, id[:6])
}
