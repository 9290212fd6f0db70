// Command glossa runs the sign-language translation service and talks to it.
//
// `glossa serve` starts the HTTP daemon. `submit`, `status`, `jobs` and
// `recognize` are thin clients of its API; `config` and `deps` work
// without a running daemon.
package main
