// Package session owns the mutable state of an interactive graph session.
//
// The core engines (dag, lanes, layout, mutate) are pure and stateless; a
// session is the one place where a snapshot lives between user intents. The
// [Manager] loads a session, applies one intent to completion, publishes the
// new snapshot, and stores it — intents never overlap, matching the
// single-threaded cooperative model of the UI.
//
// # Storage backends
//
// Sessions serialize to JSON and live in a [Store]:
//   - memory: default, state lives only for the process
//   - file: survives CLI restarts (~/.config/gitscape/sessions/)
//   - redis: shares sessions across server instances
//
// The engines themselves never touch storage; backends are a serving-layer
// convenience only.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/gitscape/pkg/dag"
	"github.com/matzehuels/gitscape/pkg/dag/lanes"
	"github.com/matzehuels/gitscape/pkg/graph"
)

// ErrNotFound is returned by stores when a session does not exist.
var ErrNotFound = errors.New("not found")

// DefaultTTL is the default session duration.
const DefaultTTL = 24 * time.Hour

// Session stores one interactive graph session.
type Session struct {
	ID        string      `json:"id"`
	Graph     graph.Graph `json:"graph"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Hash returns the content hash of the session's graph, used as an ETag.
func (s *Session) Hash() string {
	return graph.Hash(s.Graph)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (may be a no-op for Redis, which
	// expires keys itself).
	Cleanup(ctx context.Context) error
}

// NewID creates a unique session identifier.
func NewID() string {
	return uuid.NewString()
}

// New creates a session seeded with a fresh store: one root commit on the
// initial branch, lanes already assigned.
func New(ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	seeded := lanes.Assign(dag.New())
	now := time.Now()
	return &Session{
		ID:        NewID(),
		Graph:     graph.FromStore(seeded),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}
