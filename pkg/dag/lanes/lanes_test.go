package lanes

import (
	"reflect"
	"testing"

	"github.com/matzehuels/gitscape/pkg/dag"
)

// forkedStore builds a graph with two branches off the mainline:
//
//	c0 (root) <- c1 (master head)
//	c0 <- c2 (alpha head, forks at depth 0)
//	c1 <- c3 (beta head, forks at depth 1)
func forkedStore() *dag.Store {
	s := dag.Empty()
	s.Commits["c0"] = dag.Commit{ID: "c0", Timestamp: 1}
	s.Commits["c1"] = dag.Commit{ID: "c1", ParentIDs: []string{"c0"}, Depth: 1, Timestamp: 2}
	s.Commits["c2"] = dag.Commit{ID: "c2", ParentIDs: []string{"c0"}, Depth: 1, Timestamp: 3}
	s.Commits["c3"] = dag.Commit{ID: "c3", ParentIDs: []string{"c1"}, Depth: 2, Timestamp: 4}
	s.Branches[dag.DefaultBranch] = dag.Branch{Name: dag.DefaultBranch, Head: "c1"}
	s.Branches["alpha"] = dag.Branch{Name: "alpha", Head: "c2"}
	s.Branches["beta"] = dag.Branch{Name: "beta", Head: "c3"}
	return s
}

func branchLanes(s *dag.Store) map[string]int {
	out := make(map[string]int, len(s.Branches))
	for name, b := range s.Branches {
		out[name] = b.Lane
	}
	return out
}

func commitLanes(s *dag.Store) map[string]int {
	out := make(map[string]int, len(s.Commits))
	for id, c := range s.Commits {
		out[id] = c.Lane
	}
	return out
}

func TestAssignBranchOrdering(t *testing.T) {
	s := Assign(forkedStore())

	// beta forks deeper (depth 1 vs 0) so it takes the inner lane.
	want := map[string]int{dag.DefaultBranch: 0, "beta": 1, "alpha": 2}
	if got := branchLanes(s); !reflect.DeepEqual(got, want) {
		t.Errorf("branch lanes = %v, want %v", got, want)
	}
}

func TestAssignCommitPropagation(t *testing.T) {
	s := Assign(forkedStore())

	// Shared ancestry belongs to the mainline: the smaller lane blocks the
	// backward walk of every later branch.
	want := map[string]int{"c0": 0, "c1": 0, "c2": 2, "c3": 1}
	if got := commitLanes(s); !reflect.DeepEqual(got, want) {
		t.Errorf("commit lanes = %v, want %v", got, want)
	}
}

func TestAssignTimestampTieBreak(t *testing.T) {
	s := dag.Empty()
	s.Commits["c0"] = dag.Commit{ID: "c0", Timestamp: 1}
	s.Commits["c1"] = dag.Commit{ID: "c1", ParentIDs: []string{"c0"}, Depth: 1, Timestamp: 2}
	s.Commits["c2"] = dag.Commit{ID: "c2", ParentIDs: []string{"c0"}, Depth: 1, Timestamp: 9}
	s.Commits["c3"] = dag.Commit{ID: "c3", ParentIDs: []string{"c0"}, Depth: 1, Timestamp: 5}
	s.Branches[dag.DefaultBranch] = dag.Branch{Name: dag.DefaultBranch, Head: "c1"}
	s.Branches["older"] = dag.Branch{Name: "older", Head: "c3"}
	s.Branches["newer"] = dag.Branch{Name: "newer", Head: "c2"}

	got := branchLanes(Assign(s))
	// Same fork depth: the more recently created head sorts first.
	want := map[string]int{dag.DefaultBranch: 0, "newer": 1, "older": 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("branch lanes = %v, want %v", got, want)
	}
}

func TestAssignNameTieBreak(t *testing.T) {
	s := dag.Empty()
	s.Commits["c0"] = dag.Commit{ID: "c0", Timestamp: 1}
	s.Branches[dag.DefaultBranch] = dag.Branch{Name: dag.DefaultBranch, Head: "c0"}
	// Both branches share the head, so fork depth and timestamp tie.
	s.Branches["bravo"] = dag.Branch{Name: "bravo", Head: "c0"}
	s.Branches["alpha"] = dag.Branch{Name: "alpha", Head: "c0"}

	got := branchLanes(Assign(s))
	want := map[string]int{dag.DefaultBranch: 0, "alpha": 1, "bravo": 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("branch lanes = %v, want %v", got, want)
	}
}

func TestAssignIdempotent(t *testing.T) {
	once := Assign(forkedStore())
	twice := Assign(once)

	if !reflect.DeepEqual(branchLanes(once), branchLanes(twice)) {
		t.Errorf("branch lanes changed on reassignment: %v vs %v", branchLanes(once), branchLanes(twice))
	}
	if !reflect.DeepEqual(commitLanes(once), commitLanes(twice)) {
		t.Errorf("commit lanes changed on reassignment: %v vs %v", commitLanes(once), commitLanes(twice))
	}
}

func TestAssignDoesNotMutateInput(t *testing.T) {
	s := forkedStore()
	before := commitLanes(s)

	_ = Assign(s)

	if got := commitLanes(s); !reflect.DeepEqual(got, before) {
		t.Errorf("input lanes changed: %v, want %v", got, before)
	}
}

func TestAssignDanglingHeadSortsLast(t *testing.T) {
	s := forkedStore()
	s.Branches["ghost"] = dag.Branch{Name: "ghost", Head: "c99"}

	got := branchLanes(Assign(s))
	want := map[string]int{dag.DefaultBranch: 0, "beta": 1, "alpha": 2, "ghost": 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("branch lanes = %v, want %v", got, want)
	}
}

func TestAssignUniqueLanes(t *testing.T) {
	s := Assign(forkedStore())

	if err := s.Validate(); err != nil {
		t.Errorf("assigned store invalid: %v", err)
	}
}

func TestAssignOrphansKeepStaleLane(t *testing.T) {
	s := forkedStore()
	s.Commits["orphan"] = dag.Commit{ID: "orphan", Depth: 0, Lane: 7, Timestamp: 8}

	out := Assign(s)
	if got := out.Commits["orphan"].Lane; got != 7 {
		t.Errorf("orphan lane = %d, want stale 7", got)
	}
}
