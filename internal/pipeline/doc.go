// Package pipeline runs a job through its five steps.
//
// The executor picks a transcript path from a small decision table
// (mode and caption availability), calls the stage functions in fixed
// order, and writes every step transition and progress checkpoint to the
// job registry. The first error marks the current step and the job as
// failed; there are no retries.
package pipeline
