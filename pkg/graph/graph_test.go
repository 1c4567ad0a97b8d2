package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/gitscape/pkg/dag"
	"github.com/matzehuels/gitscape/pkg/layout"
)

// sampleStore builds a store with a fork and a merge for round-trip tests.
func sampleStore() *dag.Store {
	s := dag.Empty()
	s.Commits["c0"] = dag.Commit{ID: "c0", Timestamp: 1, Label: "initial commit"}
	s.Commits["c1"] = dag.Commit{ID: "c1", ParentIDs: []string{"c0"}, Depth: 1, Timestamp: 2}
	s.Commits["c2"] = dag.Commit{ID: "c2", ParentIDs: []string{"c0"}, Depth: 1, Lane: 1, Timestamp: 3, Custom: true}
	s.Commits["c3"] = dag.Commit{ID: "c3", ParentIDs: []string{"c1", "c2"}, Depth: 2, Timestamp: 4, Label: "merge"}
	s.Branches[dag.DefaultBranch] = dag.Branch{Name: dag.DefaultBranch, Head: "c3"}
	s.Branches["side"] = dag.Branch{Name: "side", Head: "c2", Lane: 1}
	s.Seq = 4
	s.Clock = 4
	return s
}

func TestRoundTrip(t *testing.T) {
	s := sampleStore()

	g := FromStore(s)
	back, err := ToStore(g)
	if err != nil {
		t.Fatalf("ToStore: %v", err)
	}

	if !reflect.DeepEqual(back.Commits, s.Commits) {
		t.Errorf("commits differ after round trip:\n got %+v\nwant %+v", back.Commits, s.Commits)
	}
	if !reflect.DeepEqual(back.Branches, s.Branches) {
		t.Errorf("branches differ after round trip:\n got %+v\nwant %+v", back.Branches, s.Branches)
	}
	if back.Seq != s.Seq || back.Clock != s.Clock {
		t.Errorf("counters = (%d, %d), want (%d, %d)", back.Seq, back.Clock, s.Seq, s.Clock)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	s := sampleStore()

	a, err := MarshalGraph(FromStore(s))
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	b, err := MarshalGraph(FromStore(s.Clone()))
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("serialization of equal stores differs")
	}
}

func TestToStoreRejectsDuplicates(t *testing.T) {
	tests := []struct {
		name string
		g    Graph
	}{
		{
			name: "DuplicateCommit",
			g: Graph{Commits: []Commit{
				{ID: "c0"},
				{ID: "c0"},
			}},
		},
		{
			name: "DuplicateBranch",
			g: Graph{Branches: []Branch{
				{Name: "master", Head: "c0"},
				{Name: "master", Head: "c1"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ToStore(tt.g); err == nil {
				t.Error("ToStore accepted duplicate entries")
			}
		})
	}
}

func TestToStoreKeepsDanglingParents(t *testing.T) {
	g := Graph{Commits: []Commit{{ID: "a", ParentIDs: []string{"ghost"}, Depth: 1}}}

	s, err := ToStore(g)
	if err != nil {
		t.Fatalf("ToStore: %v", err)
	}
	c, _ := s.Commit("a")
	if !reflect.DeepEqual(c.ParentIDs, []string{"ghost"}) {
		t.Errorf("parents = %v, want dangling reference preserved", c.ParentIDs)
	}
}

func TestFromLayout(t *testing.T) {
	s := sampleStore()
	res := layout.Compute(s)

	l := FromLayout(res, s)

	if len(l.Commits) != len(res.Commits) {
		t.Errorf("commits = %d, want %d", len(l.Commits), len(res.Commits))
	}
	if len(l.Edges) != len(res.Edges) {
		t.Errorf("edges = %d, want %d", len(l.Edges), len(res.Edges))
	}
	if want := map[string]int{dag.DefaultBranch: 0, "side": 1}; !reflect.DeepEqual(l.Lanes, want) {
		t.Errorf("lanes = %v, want %v", l.Lanes, want)
	}
	if l.Width != res.Width || l.Height != res.Height {
		t.Errorf("canvas = (%v, %v), want (%v, %v)", l.Width, l.Height, res.Width, res.Height)
	}
}

func TestGraphFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")

	g := FromStore(sampleStore())
	if err := WriteGraphFile(g, path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}

	back, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	if !reflect.DeepEqual(back, g) {
		t.Error("graph differs after file round trip")
	}
}

func TestReadGraphFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := ReadGraphFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadGraphFile(bad); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestHash(t *testing.T) {
	g := FromStore(sampleStore())

	h1 := Hash(g)
	h2 := Hash(FromStore(sampleStore()))
	if h1 != h2 {
		t.Error("hash of equal graphs differs")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(h1))
	}

	changed := FromStore(sampleStore())
	changed.Clock++
	if Hash(changed) == h1 {
		t.Error("hash unchanged after graph edit")
	}

	// The zero Graph must hash too; Hash has no error path.
	if zero := Hash(Graph{}); len(zero) != 64 {
		t.Errorf("zero graph hash length = %d, want 64 hex chars", len(zero))
	}
}
