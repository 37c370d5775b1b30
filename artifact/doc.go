// Package artifact contains the in-memory implementation of
// core.ArtifactStore and helpers to persist the code fragments extracted
// from meetings.
//
// Artifacts are scoped by meeting id. The durable implementation lives in
// store/sqlite; callers should depend on the core interface so backends can
// be swapped at wiring time.
package artifact
