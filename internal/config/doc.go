// Package config loads, normalizes, and validates glossa configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MAX_YOUTUBE_DURATION_SEC, WHISPER_MODEL, FFMPEG_BINARY and ASL_CLASS_NAMES.
// The Config type centralizes every knob the daemon and CLI need, so job
// directories, collaborator commands, and observability settings are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
