package api

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"glossa/internal/pipeline"
	"glossa/internal/render"
	"glossa/internal/services"
	"glossa/internal/stage"
)

// Submission defaults.
const (
	DefaultSpokenLanguage = "en"
	DefaultSignedLanguage = "ase"
	DefaultAvatar         = render.AvatarSkeleton
)

func invalid(op, message string) error {
	return services.Wrap(services.ErrValidation, "submit", op, message, nil)
}

func misconfigured(op, message string) error {
	return services.Wrap(services.ErrConfiguration, "submit", op, message, nil)
}

// validate checks req and turns it into a pipeline request without job id
// or job directory.
func (s *JobService) validate(req SubmitRequest) (pipeline.Request, error) {
	mode, err := pipeline.ParseMode(req.Mode)
	if err != nil {
		return pipeline.Request{}, err
	}

	glosser := strings.ToLower(strings.TrimSpace(req.Glosser))
	if glosser == "" {
		glosser = s.cfg.Gloss.DefaultGlosser
	}
	if s.glossers != nil && !s.glossers.Has(glosser) {
		return pipeline.Request{}, misconfigured("select glosser", fmt.Sprintf("Unsupported glosser: %s", req.Glosser))
	}

	avatar := strings.ToLower(strings.TrimSpace(req.Avatar))
	if avatar == "" {
		avatar = DefaultAvatar
	}
	if avatar != render.AvatarSkeleton && avatar != render.AvatarHuman {
		return pipeline.Request{}, misconfigured("select avatar", fmt.Sprintf("Unsupported avatar_type: %s", req.Avatar))
	}

	out := pipeline.Request{
		Mode:           mode,
		SpokenLanguage: firstNonEmpty(req.SpokenLanguage, DefaultSpokenLanguage),
		SignedLanguage: firstNonEmpty(req.SignedLanguage, DefaultSignedLanguage),
		Glosser:        glosser,
		Avatar:         avatar,
	}

	switch mode {
	case pipeline.ModeText:
		if strings.TrimSpace(req.Text) == "" {
			return pipeline.Request{}, invalid("check text", "Text input is required for text mode.")
		}
		out.Text = req.Text
	case pipeline.ModeAudio, pipeline.ModeVideo:
		if req.File == nil || req.File.Reader == nil {
			return pipeline.Request{}, invalid("check file", "File is required for audio/video mode.")
		}
	case pipeline.ModeYouTube:
		url := strings.TrimSpace(req.YouTubeURL)
		if url == "" {
			return pipeline.Request{}, invalid("check url", "YouTube URL is required for youtube mode.")
		}
		if err := stage.ValidateRemoteURL(url); err != nil {
			return pipeline.Request{}, err
		}
		prefer := s.cfg.YouTube.PreferCaptions
		if req.PreferCaptions != nil {
			prefer = *req.PreferCaptions
		}
		out.YouTube = pipeline.YouTubeOptions{
			URL:             url,
			PreferCaptions:  prefer,
			CaptionLanguage: strings.TrimSpace(req.CaptionLanguage),
			MaxDuration:     s.cfg.MaxYouTubeDuration(req.MaxDurationSec),
		}
	}

	lexicon, err := s.resolveLexicon(req.Lexicon)
	if err != nil {
		return pipeline.Request{}, err
	}
	out.Lexicon = lexicon
	return out, nil
}

// resolveLexicon makes the lexicon location absolute. Blank uses the
// configured directory; relative paths are taken under it.
func (s *JobService) resolveLexicon(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	path := s.cfg.Paths.LexiconDir
	switch {
	case raw == "":
	case filepath.IsAbs(raw):
		path = raw
	default:
		path = filepath.Join(s.cfg.Paths.LexiconDir, raw)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", misconfigured("resolve lexicon", fmt.Sprintf("Lexicon path not found: %s", path))
	}
	if _, err := os.Stat(abs); err != nil {
		return "", misconfigured("resolve lexicon", fmt.Sprintf("Lexicon path not found: %s", abs))
	}
	return abs, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
