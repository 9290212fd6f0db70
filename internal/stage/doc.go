// Package stage implements the five pipeline steps (receive input,
// transcribe, text to gloss, gloss to pose, render video) on top of narrow
// collaborator interfaces.
//
// Stage functions are pure with respect to job state: they take inputs,
// call collaborators, and return data or a classified error built with
// services.Wrap. Sequencing, progress, and registry updates belong to the
// pipeline package.
package stage
