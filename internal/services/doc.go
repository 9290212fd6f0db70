// Package services defines shared utilities consumed by the pipeline stages
// and the collaborator adapters that drive external tools.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, step names, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures
//     into the configuration / input / unavailable / external / network
//     buckets and keep a user-facing message apart from the raw cause.
//
// Use these helpers when wiring new collaborators so failures surface on jobs
// with the same shape as the rest of the pipeline.
package services
