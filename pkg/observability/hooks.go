// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about session mutations and layout passes.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are called from the session controller, not from the engines, so the
// core graph code stays free of instrumentation concerns.
//
// # Usage
//
//	func main() {
//	    observability.SetMutationHooks(&myMutationHooks{})
//	    // ... run application
//	}
package observability

import (
	"context"
	"sync"
	"time"
)

// MutationHooks receives events for every mutation intent applied to a
// session. op is one of "add_commit", "create_branch", "add_custom",
// "move_commit", "merge_branch".
type MutationHooks interface {
	// OnMutationStart records a mutation intent beginning.
	OnMutationStart(ctx context.Context, sessionID, op string)

	// OnMutationComplete records the outcome. commitCount is the size of the
	// resulting store (unchanged when err is non-nil).
	OnMutationComplete(ctx context.Context, sessionID, op string, commitCount int, duration time.Duration, err error)
}

// LayoutHooks receives events from layout recomputation passes.
type LayoutHooks interface {
	// OnLayoutComplete records a layout pass, including the number of
	// coordinate collisions the diagnostic pass found (normally zero).
	OnLayoutComplete(ctx context.Context, sessionID string, commitCount, collisions int, duration time.Duration)
}

// SessionHooks receives session lifecycle events.
type SessionHooks interface {
	OnSessionCreate(ctx context.Context, sessionID string)
	OnSessionDelete(ctx context.Context, sessionID string)
}

// NoopMutationHooks is a no-op implementation of MutationHooks.
type NoopMutationHooks struct{}

func (NoopMutationHooks) OnMutationStart(context.Context, string, string) {}
func (NoopMutationHooks) OnMutationComplete(context.Context, string, string, int, time.Duration, error) {
}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutComplete(context.Context, string, int, int, time.Duration) {}

// NoopSessionHooks is a no-op implementation of SessionHooks.
type NoopSessionHooks struct{}

func (NoopSessionHooks) OnSessionCreate(context.Context, string) {}
func (NoopSessionHooks) OnSessionDelete(context.Context, string) {}

var (
	mutationHooks MutationHooks = NoopMutationHooks{}
	layoutHooks   LayoutHooks   = NoopLayoutHooks{}
	sessionHooks  SessionHooks  = NoopSessionHooks{}
	hooksMu       sync.RWMutex
)

// SetMutationHooks registers custom mutation hooks.
// This should be called once at application startup.
func SetMutationHooks(h MutationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		mutationHooks = h
	}
}

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetSessionHooks registers custom session hooks.
// This should be called once at application startup.
func SetSessionHooks(h SessionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sessionHooks = h
	}
}

// Mutations returns the registered mutation hooks.
func Mutations() MutationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return mutationHooks
}

// Layouts returns the registered layout hooks.
func Layouts() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Sessions returns the registered session hooks.
func Sessions() SessionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sessionHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	mutationHooks = NoopMutationHooks{}
	layoutHooks = NoopLayoutHooks{}
	sessionHooks = NoopSessionHooks{}
}
