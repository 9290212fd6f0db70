package pipeline

import (
	"fmt"
	"strings"

	"glossa/internal/services"
)

// Mode is the submission input kind.
type Mode string

const (
	ModeText    Mode = "text"
	ModeAudio   Mode = "audio"
	ModeVideo   Mode = "video"
	ModeYouTube Mode = "youtube"
)

// Modes lists the accepted modes in display order.
func Modes() []Mode {
	return []Mode{ModeText, ModeAudio, ModeVideo, ModeYouTube}
}

// ParseMode normalizes raw into a Mode.
func ParseMode(raw string) (Mode, error) {
	mode := Mode(strings.ToLower(strings.TrimSpace(raw)))
	for _, m := range Modes() {
		if m == mode {
			return mode, nil
		}
	}
	return "", services.Wrap(services.ErrConfiguration, "submit", "parse mode", fmt.Sprintf("Unsupported mode: %s", raw), nil)
}

// Path is the effective route a job takes to obtain its transcript.
type Path string

const (
	PathDirectText     Path = "direct-text"
	PathLocalAudio     Path = "local-audio"
	PathLocalVideo     Path = "local-video"
	PathRemoteCaptions Path = "remote-captions"
	PathRemoteAudio    Path = "remote-audio"
)

// Transcribes reports whether the path runs speech recognition.
func (p Path) Transcribes() bool {
	switch p {
	case PathLocalAudio, PathLocalVideo, PathRemoteAudio:
		return true
	default:
		return false
	}
}

// ExtractsAudio reports whether the input must be converted to PCM first.
func (p Path) ExtractsAudio() bool {
	return p == PathLocalVideo
}

type planKey struct {
	mode          Mode
	captionsFound bool
}

// decisionTable enumerates every (mode, captions) pair. Captions only
// matter for remote input; local modes map both rows to the same path.
var decisionTable = map[planKey]Path{
	{ModeText, false}:    PathDirectText,
	{ModeText, true}:     PathDirectText,
	{ModeAudio, false}:   PathLocalAudio,
	{ModeAudio, true}:    PathLocalAudio,
	{ModeVideo, false}:   PathLocalVideo,
	{ModeVideo, true}:    PathLocalVideo,
	{ModeYouTube, false}: PathRemoteAudio,
	{ModeYouTube, true}:  PathRemoteCaptions,
}

// Plan resolves the transcript path for mode.
func Plan(mode Mode, captionsFound bool) (Path, error) {
	path, ok := decisionTable[planKey{mode: mode, captionsFound: captionsFound}]
	if !ok {
		return "", services.Wrap(services.ErrConfiguration, "pipeline", "plan", fmt.Sprintf("Unsupported mode: %s", mode), nil)
	}
	return path, nil
}
