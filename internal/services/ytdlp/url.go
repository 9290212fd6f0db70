package ytdlp

import (
	"net/url"
	"strings"
)

// IsYouTubeURL reports whether raw is an http(s) URL on a youtube.com or
// youtu.be host.
func IsYouTubeURL(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	return strings.HasSuffix(host, "youtube.com") || strings.HasSuffix(host, "youtu.be")
}
