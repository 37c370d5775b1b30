// Package session houses the in-memory implementation of core.ResultStore.
// It records session snapshots together with the orchestration and meeting
// results produced under them.
//
// The durable SQLite backend lives in store/sqlite; only the wiring layer
// decides which implementation to instantiate.
package session
