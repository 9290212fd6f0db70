package captions

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	fallbackLanguages = []string{"en", "fr", "es"}
	preferredExts     = []string{"vtt", "srt", "ttml", "srv3", "srv1"}
	markupPattern     = regexp.MustCompile(`<[^>]+>`)
)

// SelectLanguage picks the language key to use from catalog. A preferred
// language matches a key exactly (ignoring case), then as a prefix or
// substring of a key. Without a match the fallbacks en, fr, es are tried
// before the first listed key.
func SelectLanguage(catalog *Catalog, preferred string) (string, bool) {
	languages := catalog.Languages()
	if len(languages) == 0 {
		return "", false
	}
	if want := strings.ToLower(strings.TrimSpace(preferred)); want != "" {
		for _, key := range languages {
			if strings.ToLower(key) == want {
				return key, true
			}
		}
		for _, key := range languages {
			lower := strings.ToLower(key)
			if strings.HasPrefix(lower, want) || strings.Contains(lower, want) {
				return key, true
			}
		}
	}
	for _, fallback := range fallbackLanguages {
		if contains(languages, fallback) {
			return fallback, true
		}
	}
	return languages[0], true
}

// SelectTrack prefers text formats in the order vtt, srt, ttml, srv3, srv1
// and otherwise returns the first track.
func SelectTrack(tracks []Track) (Track, bool) {
	if len(tracks) == 0 {
		return Track{}, false
	}
	for _, ext := range preferredExts {
		for _, track := range tracks {
			if track.Ext == ext {
				return track, true
			}
		}
	}
	return tracks[0], true
}

// PayloadToText reduces a caption document to its spoken text: headers, cue
// numbers, timing lines, and NOTE/STYLE/REGION blocks are dropped, inline
// markup is stripped, and the remaining lines are joined with spaces.
func PayloadToText(payload string) string {
	if payload == "" {
		return ""
	}
	lines := strings.FieldsFunc(payload, func(r rune) bool { return r == '\n' || r == '\r' })
	kept := make([]string, 0, len(lines))
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "WEBVTT"):
			continue
		case strings.Contains(line, "-->"):
			continue
		case isDigits(line):
			continue
		case strings.HasPrefix(line, "NOTE"), strings.HasPrefix(line, "STYLE"), strings.HasPrefix(line, "REGION"):
			continue
		}
		line = strings.TrimSpace(markupPattern.ReplaceAllString(line, ""))
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func contains(values []string, candidate string) bool {
	for _, v := range values {
		if v == candidate {
			return true
		}
	}
	return false
}
