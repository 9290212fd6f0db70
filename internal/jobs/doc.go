// Package jobs holds the in-memory job registry: the single source of truth
// for job status, progress, per-step state, and final result or error.
//
// Records are created queued with every step pending and are mutated only by
// the executor that owns the id. Readers always receive deep copies, so a
// polling client never observes a half-applied merge. Records are never
// removed; the registry lives as long as the process.
package jobs
