// Package dag implements the commit/branch store at the heart of gitscape.
//
// # Overview
//
// The store is a pair of keyed collections: commit ID to [Commit] and branch
// name to [Branch]. Commits form a DAG through their ParentIDs; branches are
// movable named pointers into it. The store itself has no behavior beyond
// identity, lookup, and snapshot copying — all structural change happens in
// the mutate subpackage, and all lane computation in the lanes subpackage.
//
// # Snapshots
//
// Every mutation builds a new store with [Store.Clone] and publishes it
// atomically, so the lane and layout engines never observe a partially
// applied change. Commit and Branch are value types; holding a *Store means
// holding an immutable view as long as callers follow this discipline.
//
// # Identity
//
// Commit IDs ("c0", "c1", ...) and logical timestamps are issued by the
// store's Seq and Clock counters. Timestamps exist only for deterministic
// tie-breaking: they are unique, strictly increasing, and carry no wall-clock
// meaning.
//
// # Traversal
//
// [Store.Walk] is the single breadth-first traversal shared by cycle
// detection, ancestor checks, and lane propagation, parameterized by
// [Direction] and a continue predicate. Convenience wrappers [Store.IsAncestor]
// and [Store.Reaches] cover the two common questions.
//
// # Validation
//
// [Store.Validate] is a diagnostic pass (acyclicity, depth consistency,
// head resolution, lane uniqueness) used by tests and developer warnings.
// The engines maintain these invariants by construction and do not rely on
// Validate to enforce them.
package dag
