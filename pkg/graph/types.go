// Package graph defines the canonical serialization format for commit stores
// and computed layouts. It is the wire format of the HTTP API, the file
// format of the CLI, and the storage format of the session stores, designed
// for round-trip fidelity: export → import → export produces identical bytes.
package graph

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/matzehuels/gitscape/pkg/dag"
	"github.com/matzehuels/gitscape/pkg/layout"
)

// Graph is the serialized form of a commit store.
type Graph struct {
	Commits  []Commit `json:"commits"`
	Branches []Branch `json:"branches"`
	Seq      int      `json:"seq"`
	Clock    int64    `json:"clock"`
}

// Commit is the serialized commit node.
type Commit struct {
	ID        string   `json:"id"`
	ParentIDs []string `json:"parent_ids,omitempty"`
	Timestamp int64    `json:"timestamp"`
	Depth     int      `json:"depth"`
	Lane      int      `json:"lane"`
	Label     string   `json:"label,omitempty"`
	Custom    bool     `json:"custom,omitempty"`
}

// Branch is the serialized branch pointer.
type Branch struct {
	Name string `json:"name"`
	Head string `json:"head"`
	Lane int    `json:"lane"`
}

// FromStore converts a store to its serialization format. Commits are emitted
// in (depth, timestamp, lane) order and branches sorted by name so output is
// deterministic.
func FromStore(s *dag.Store) Graph {
	g := Graph{
		Commits:  make([]Commit, 0, len(s.Commits)),
		Branches: make([]Branch, 0, len(s.Branches)),
		Seq:      s.Seq,
		Clock:    s.Clock,
	}
	for _, c := range s.SortedCommits() {
		g.Commits = append(g.Commits, Commit{
			ID:        c.ID,
			ParentIDs: slices.Clone(c.ParentIDs),
			Timestamp: c.Timestamp,
			Depth:     c.Depth,
			Lane:      c.Lane,
			Label:     c.Label,
			Custom:    c.Custom,
		})
	}
	for _, name := range s.BranchNames() {
		b := s.Branches[name]
		g.Branches = append(g.Branches, Branch{Name: b.Name, Head: b.Head, Lane: b.Lane})
	}
	return g
}

// ToStore converts a serialized graph back into a store. Duplicate commit IDs
// or branch names are an error; everything else round-trips as-is, including
// dangling parent references (the layout engine tolerates them).
func ToStore(g Graph) (*dag.Store, error) {
	s := dag.Empty()
	s.Seq = g.Seq
	s.Clock = g.Clock
	for _, c := range g.Commits {
		if _, exists := s.Commits[c.ID]; exists {
			return nil, fmt.Errorf("duplicate commit id %q", c.ID)
		}
		s.Commits[c.ID] = dag.Commit{
			ID:        c.ID,
			ParentIDs: slices.Clone(c.ParentIDs),
			Timestamp: c.Timestamp,
			Depth:     c.Depth,
			Lane:      c.Lane,
			Label:     c.Label,
			Custom:    c.Custom,
		}
	}
	for _, b := range g.Branches {
		if _, exists := s.Branches[b.Name]; exists {
			return nil, fmt.Errorf("duplicate branch name %q", b.Name)
		}
		s.Branches[b.Name] = dag.Branch{Name: b.Name, Head: b.Head, Lane: b.Lane}
	}
	return s, nil
}

// Layout is the serialized form of a layout pass, consumed by the UI
// collaborator. Lanes maps branch name to home lane.
type Layout struct {
	Commits []PositionedCommit `json:"commits"`
	Edges   []Edge             `json:"edges"`
	Lanes   map[string]int     `json:"lanes"`
	Width   float64            `json:"width"`
	Height  float64            `json:"height"`
}

// PositionedCommit is a commit with resolved canvas coordinates.
type PositionedCommit struct {
	Commit
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Edge is a serialized render edge. Incoming marks merge edges (second
// parent) so the renderer can style them differently.
type Edge struct {
	ChildID  string `json:"child_id"`
	ParentID string `json:"parent_id"`
	Incoming bool   `json:"incoming,omitempty"`
}

// FromLayout converts a layout result plus the branch lane map into the
// serialization format.
func FromLayout(res layout.Result, s *dag.Store) Layout {
	l := Layout{
		Commits: make([]PositionedCommit, 0, len(res.Commits)),
		Edges:   make([]Edge, 0, len(res.Edges)),
		Lanes:   make(map[string]int, len(s.Branches)),
		Width:   res.Width,
		Height:  res.Height,
	}
	for _, pc := range res.Commits {
		l.Commits = append(l.Commits, PositionedCommit{
			Commit: Commit{
				ID:        pc.ID,
				ParentIDs: slices.Clone(pc.ParentIDs),
				Timestamp: pc.Timestamp,
				Depth:     pc.Depth,
				Lane:      pc.Lane,
				Label:     pc.Label,
				Custom:    pc.Custom,
			},
			X: pc.X,
			Y: pc.Y,
		})
	}
	for _, e := range res.Edges {
		l.Edges = append(l.Edges, Edge{ChildID: e.ChildID, ParentID: e.ParentID, Incoming: e.Incoming})
	}
	for name, b := range s.Branches {
		l.Lanes[name] = b.Lane
	}
	return l
}

// MarshalGraph serializes a Graph to pretty-printed JSON bytes.
func MarshalGraph(g Graph) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// UnmarshalGraph deserializes JSON bytes into a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, fmt.Errorf("unmarshal graph: %w", err)
	}
	return g, nil
}

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}
