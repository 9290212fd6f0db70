// Package captions selects and downloads caption tracks for remote videos.
//
// Selection is deterministic: a language is chosen per catalog (uploaded
// subtitles first, then automatic captions), a track format is chosen within
// that language, and the downloaded document is reduced to plain text. Any
// failure along the way moves on to the next candidate; callers fall back to
// downloading audio when Resolve reports nothing.
package captions
