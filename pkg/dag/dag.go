package dag

import (
	"fmt"
	"maps"
	"slices"
)

// DefaultBranch is the name of the initial branch. It is created by [New],
// always exists, and always occupies lane 0.
const DefaultBranch = "master"

// Commit is a node in the commit DAG. Commits are immutable after creation:
// mutations produce a new [Store] snapshot with replaced Commit values rather
// than editing in place.
type Commit struct {
	// ID is an opaque unique identifier, monotonically issued by the store
	// ("c0", "c1", ...).
	ID string

	// ParentIDs holds the ordered parent references: empty for a root, one
	// entry for a normal commit, two for a merge. For merges the order is
	// significant: index 0 is the continuing mainline parent, index 1 the
	// incoming parent from the merged branch.
	ParentIDs []string

	// Timestamp is a logical counter used purely for deterministic
	// tie-breaking. It is unique among created commits and has no wall-clock
	// meaning.
	Timestamp int64

	// Depth is the vertical rendering slot: max(parent depth) + 1, zero for
	// roots. Recomputed top-down after structural changes.
	Depth int

	// Lane is the horizontal rendering slot assigned by the lane engine.
	// Not authoritative between recomputations.
	Lane int

	// Label is an optional display label.
	Label string

	// Custom marks bulk-inserted commits. Cosmetic only.
	Custom bool
}

// IsRoot reports whether the commit has no parents.
func (c Commit) IsRoot() bool { return len(c.ParentIDs) == 0 }

// IsMerge reports whether the commit has two parents.
func (c Commit) IsMerge() bool { return len(c.ParentIDs) == 2 }

// Branch is a movable named pointer to a commit.
type Branch struct {
	// Name is the unique branch key.
	Name string

	// Head is the ID of the commit the branch currently points to.
	Head string

	// Lane is the branch's home lane, assigned by the lane engine.
	// DefaultBranch is always lane 0; every other live branch holds a unique
	// lane >= 1.
	Lane int
}

// Store is the authoritative in-memory mapping of commits and branches.
// It carries no behavior beyond identity, lookup, and snapshot copying: the
// engines receive a store, never mutate it, and hand back a new one.
//
// Seq and Clock are the issuance counters for commit IDs and logical
// timestamps. They travel with the snapshot so that cloned stores keep
// issuing unique values.
type Store struct {
	Commits  map[string]Commit
	Branches map[string]Branch
	Seq      int
	Clock    int64
}

// New creates a store seeded with a single root commit on DefaultBranch.
func New() *Store {
	s := &Store{
		Commits:  make(map[string]Commit),
		Branches: make(map[string]Branch),
	}
	root := Commit{
		ID:        s.NextID(),
		Timestamp: s.Tick(),
		Label:     "initial commit",
	}
	s.Commits[root.ID] = root
	s.Branches[DefaultBranch] = Branch{Name: DefaultBranch, Head: root.ID}
	return s
}

// Empty creates a store with no commits and no branches.
// Useful for deserialization and tests; [New] is the normal entry point.
func Empty() *Store {
	return &Store{
		Commits:  make(map[string]Commit),
		Branches: make(map[string]Branch),
	}
}

// Clone returns a deep snapshot of the store. Commit and Branch are value
// types, so copying the maps is sufficient; ParentIDs slices are cloned to
// keep snapshots fully independent.
func (s *Store) Clone() *Store {
	out := &Store{
		Commits:  make(map[string]Commit, len(s.Commits)),
		Branches: maps.Clone(s.Branches),
		Seq:      s.Seq,
		Clock:    s.Clock,
	}
	for id, c := range s.Commits {
		c.ParentIDs = slices.Clone(c.ParentIDs)
		out.Commits[id] = c
	}
	return out
}

// Commit returns the commit with the given ID and true, or a zero Commit and
// false if not found.
func (s *Store) Commit(id string) (Commit, bool) {
	c, ok := s.Commits[id]
	return c, ok
}

// Branch returns the branch with the given name and true, or a zero Branch
// and false if not found.
func (s *Store) Branch(name string) (Branch, bool) {
	b, ok := s.Branches[name]
	return b, ok
}

// Head resolves a branch's head commit. The second return is false when the
// branch is unknown or its head commit is missing from the store.
func (s *Store) Head(name string) (Commit, bool) {
	b, ok := s.Branches[name]
	if !ok {
		return Commit{}, false
	}
	return s.Commit(b.Head)
}

// NextID issues the next commit ID and advances the sequence counter.
func (s *Store) NextID() string {
	id := fmt.Sprintf("c%d", s.Seq)
	s.Seq++
	return id
}

// Tick issues the next logical timestamp and advances the clock.
// Timestamps are strictly monotonically increasing within a store lineage.
func (s *Store) Tick() int64 {
	s.Clock++
	return s.Clock
}

// CommitIDs returns all commit IDs in sorted order.
func (s *Store) CommitIDs() []string {
	return slices.Sorted(maps.Keys(s.Commits))
}

// BranchNames returns all branch names in sorted order.
func (s *Store) BranchNames() []string {
	return slices.Sorted(maps.Keys(s.Branches))
}

// SortedCommits returns all commits ordered by (Depth, Timestamp, Lane).
// This is the canonical rendering order: it fixes DOM/key stability for the
// UI collaborator and gives the layout engine a deterministic input.
func (s *Store) SortedCommits() []Commit {
	out := make([]Commit, 0, len(s.Commits))
	for _, c := range s.Commits {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Commit) int {
		if a.Depth != b.Depth {
			return a.Depth - b.Depth
		}
		if a.Timestamp != b.Timestamp {
			if a.Timestamp < b.Timestamp {
				return -1
			}
			return 1
		}
		return a.Lane - b.Lane
	})
	return out
}
