package pipeline

// YouTubeOptions carries the remote-video settings of a request.
type YouTubeOptions struct {
	URL            string
	PreferCaptions bool
	// CaptionLanguage overrides SpokenLanguage for caption selection.
	CaptionLanguage string
	// MaxDuration in seconds, already resolved against config; <= 0 disables.
	MaxDuration int
}

// Request is everything the executor needs to run one job.
type Request struct {
	JobID          string
	Mode           Mode
	Text           string
	InputPath      string
	SpokenLanguage string
	SignedLanguage string
	Glosser        string
	Avatar         string
	Lexicon        string
	// JobDir receives downloaded audio and the pose and video artifacts.
	JobDir  string
	YouTube YouTubeOptions
}

func (r Request) captionLanguage() string {
	if r.YouTube.CaptionLanguage != "" {
		return r.YouTube.CaptionLanguage
	}
	return r.SpokenLanguage
}
