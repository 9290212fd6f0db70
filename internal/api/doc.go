// Package api is the job service facade shared by the HTTP daemon and the
// CLI, plus the wire-format types both speak.
//
// # Key Types
//
// JobService: validates submissions, creates the queued job record, saves
// the uploaded input, and starts the pipeline in the background.
//
// Job/Step/Result: transport view of a job record. Step timestamps use
// "15:04:05"; record timestamps use RFC3339 with milliseconds.
//
// RecognitionService: scores a still image with the hand-shape classifier.
//
// # Design Notes
//
// Everything that can be checked at submit time (mode, glosser, avatar,
// required inputs, URL shape, lexicon location) is checked before a job is
// created, so rejected submissions leave no record behind. JSON keys are
// snake_case to match the browser client.
package api
