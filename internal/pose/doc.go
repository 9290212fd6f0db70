// Package pose maps glosses to lexicon pose clips and assembles them into
// one pose file.
//
// Each lexicon directory carries an index.csv describing its clips. The
// index is loaded into an in-memory SQLite table the first time a lexicon is
// used and shared by every later job. Assembly itself is delegated to an
// external concatenation command that reads a JSON manifest.
package pose
