// Package state holds the per-client records and the transitions applied to
// them.
//
// Two record shapes exist. Counter is the counter/name pair, stored under a
// StateKey that is bound to the client identity through a separate binding
// namespace. TodoList is the to-do collection, stored directly under the
// client identity.
//
// Stores load a transient copy, callers apply a transition, and stores save
// the whole record back. Concurrent load/save pairs on the same key are
// last-writer-wins; only Bind is atomic.
package state
