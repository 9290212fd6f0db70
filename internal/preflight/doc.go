// Package preflight provides readiness checks for the filesystem paths,
// executables, and collectors glossa depends on.
//
// The daemon runs RunAll at startup and logs failures as warnings; the CLI
// "glossa deps" command renders the same results alongside CheckSystemDeps.
package preflight
