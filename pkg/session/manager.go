package session

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/gitscape/pkg/dag"
	"github.com/matzehuels/gitscape/pkg/dag/mutate"
	"github.com/matzehuels/gitscape/pkg/errors"
	"github.com/matzehuels/gitscape/pkg/graph"
	"github.com/matzehuels/gitscape/pkg/layout"
	"github.com/matzehuels/gitscape/pkg/observability"
)

// Op names the five mutation intents a session accepts.
type Op string

const (
	OpAddCommit    Op = "add_commit"
	OpCreateBranch Op = "create_branch"
	OpAddCustom    Op = "add_custom"
	OpMoveCommit   Op = "move_commit"
	OpMergeBranch  Op = "merge_branch"
)

// Intent is one discrete user action against a session. Which fields matter
// depends on Op; unused fields are ignored.
type Intent struct {
	Op        Op     `json:"op"`
	Branch    string `json:"branch,omitempty"`     // add_commit
	Commit    string `json:"commit,omitempty"`     // create_branch, add_custom
	Name      string `json:"name,omitempty"`       // create_branch (optional)
	Count     int    `json:"count,omitempty"`      // add_custom (optional)
	NewParent string `json:"new_parent,omitempty"` // move_commit
	Target    string `json:"target,omitempty"`     // merge_branch
	Source    string `json:"source,omitempty"`     // merge_branch
}

// Manager applies intents to sessions. One mutex serializes intents: each
// user action runs to completion before the next is accepted, so the engines
// never observe a half-applied session.
type Manager struct {
	mu    sync.Mutex
	store Store
	ttl   time.Duration
}

// NewManager creates a manager backed by the given store.
func NewManager(store Store, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{store: store, ttl: ttl}
}

// Create starts a new session and persists it.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	sess := New(m.ttl)
	if err := m.store.Set(ctx, sess); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "store session")
	}
	observability.Sessions().OnSessionCreate(ctx, sess.ID)
	return sess, nil
}

// Get loads a session by ID.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load session")
	}
	if sess == nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "no session %q", id)
	}
	return sess, nil
}

// Delete removes a session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete session")
	}
	observability.Sessions().OnSessionDelete(ctx, id)
	return nil
}

// Apply runs one mutation intent against the session and persists the new
// snapshot. Validation failures leave the stored session untouched and come
// back as typed errors; ALREADY_MERGED is informational and also leaves the
// session unchanged.
func (m *Manager) Apply(ctx context.Context, id string, intent Intent) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	store, err := graph.ToStore(sess.Graph)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode session graph")
	}

	start := time.Now()
	observability.Mutations().OnMutationStart(ctx, id, string(intent.Op))

	next, err := dispatch(store, intent)

	count := len(store.Commits)
	if next != nil {
		count = len(next.Commits)
	}
	observability.Mutations().OnMutationComplete(ctx, id, string(intent.Op), count, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	sess.Graph = graph.FromStore(next)
	sess.UpdatedAt = time.Now()
	sess.ExpiresAt = sess.UpdatedAt.Add(m.ttl)
	if err := m.store.Set(ctx, sess); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "store session")
	}
	return sess, nil
}

// Layout loads a session and computes its current layout.
func (m *Manager) Layout(ctx context.Context, id string) (graph.Layout, error) {
	sess, err := m.Get(ctx, id)
	if err != nil {
		return graph.Layout{}, err
	}
	store, err := graph.ToStore(sess.Graph)
	if err != nil {
		return graph.Layout{}, errors.Wrap(errors.ErrCodeInternal, err, "decode session graph")
	}

	start := time.Now()
	res := layout.Compute(store)
	collisions := layout.FindCollisions(res.Commits)
	observability.Layouts().OnLayoutComplete(ctx, id, len(res.Commits), len(collisions), time.Since(start))

	return graph.FromLayout(res, store), nil
}

func dispatch(s *dag.Store, intent Intent) (*dag.Store, error) {
	switch intent.Op {
	case OpAddCommit:
		return mutate.AddCommit(s, intent.Branch)
	case OpCreateBranch:
		return mutate.CreateBranch(s, intent.Commit, intent.Name)
	case OpAddCustom:
		return mutate.AddCustomCommits(s, intent.Commit, intent.Count)
	case OpMoveCommit:
		return mutate.MoveCommit(s, intent.Commit, intent.NewParent)
	case OpMergeBranch:
		return mutate.MergeBranch(s, intent.Target, intent.Source)
	default:
		return nil, errors.New(errors.ErrCodeInvalidName, "unknown operation %q", intent.Op)
	}
}
