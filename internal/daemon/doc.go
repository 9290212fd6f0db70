// Package daemon runs the long-lived glossa HTTP service.
//
// It owns the flock-based single-instance lock in the runs directory, the
// HTTP listener, and the root context that background jobs inherit. Job
// submission and lookup live in the api package; the daemon only routes
// requests to it and reports runtime status.
package daemon
