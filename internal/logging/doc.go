// Package logging assembles structured slog loggers and formatting helpers used
// across glossa services.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with job IDs, step names, and correlation IDs. A no-op logger is
// provided for tests and wiring code that cannot fail.
package logging
