package stage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"glossa/internal/captions"
	"glossa/internal/deps"
	"glossa/internal/gloss"
	"glossa/internal/logging"
	"glossa/internal/render"
	"glossa/internal/services"
	"glossa/internal/services/ytdlp"
)

// Step names used as the services.Wrap stage label.
const (
	nameReceive    = "receive_input"
	nameTranscribe = "transcribe"
	nameGloss      = "text_to_gloss"
	namePose       = "gloss_to_pose"
	nameRender     = "render_video"
)

// Stages bundles the collaborators the five pipeline steps delegate to.
// Stage functions read and produce data only; they never touch job state.
type Stages struct {
	Extractor   AudioExtractor
	Transcriber Transcriber
	Glossers    GlossSelector
	Poses       PoseBuilder
	Renderer    VideoRenderer
	Metadata    MetadataFetcher
	Downloader  AudioDownloader
	Captions    CaptionResolver
	Logger      *slog.Logger
}

// RemoteRequest describes a remote video submission.
type RemoteRequest struct {
	URL            string
	PreferCaptions bool
	// CaptionLanguage is the preferred caption language; blank means none.
	CaptionLanguage string
	// MaxDuration in seconds; 0 disables the check.
	MaxDuration int
	// AudioPrefix is where downloaded audio goes, without extension.
	AudioPrefix string
}

// Received is the outcome of the receive step for a remote video: either
// caption text or a downloaded audio file.
type Received struct {
	Transcript    string
	CaptionsFound bool
	Captions      captions.Result
	AudioPath     string
	Duration      float64
}

// ValidateRemoteURL checks that url is present and points at YouTube.
func ValidateRemoteURL(url string) error {
	if strings.TrimSpace(url) == "" {
		return services.Wrap(ErrURLRequired, nameReceive, "validate url", "YouTube URL is required.", nil)
	}
	if !ytdlp.IsYouTubeURL(url) {
		return services.Wrap(ErrInvalidURL, nameReceive, "validate url", "Invalid YouTube URL.", nil)
	}
	return nil
}

// ReceiveRemote validates the URL, enforces the duration limit, and then
// prefers captions over downloading audio.
func (s *Stages) ReceiveRemote(ctx context.Context, req RemoteRequest) (Received, error) {
	if err := ValidateRemoteURL(req.URL); err != nil {
		return Received{}, err
	}
	meta, err := s.Metadata.FetchMetadata(ctx, req.URL)
	if err != nil {
		return Received{}, services.Wrap(ErrMetadataFailed, nameReceive, "fetch metadata", "Failed to read YouTube video information", err)
	}

	var out Received
	if meta.Duration != nil {
		out.Duration = *meta.Duration
	}
	if req.MaxDuration > 0 && out.Duration > float64(req.MaxDuration) {
		msg := fmt.Sprintf("YouTube video is too long for processing (%.0fs exceeds the %ds limit).", out.Duration, req.MaxDuration)
		return Received{}, services.Wrap(ErrDurationExceeded, nameReceive, "check duration", msg, nil)
	}

	logger := logging.WithContext(ctx, logging.NewComponentLogger(s.Logger, "stage"))
	if req.PreferCaptions && s.Captions != nil {
		if res, ok := s.Captions.Resolve(ctx, meta, req.CaptionLanguage); ok {
			out.Transcript = res.Text
			out.CaptionsFound = true
			out.Captions = res
			return out, nil
		}
		logger.Info("no usable captions; downloading audio",
			logging.String(logging.FieldEventType, "captions_unavailable"),
			logging.String("preferred_language", req.CaptionLanguage),
		)
	}

	wav, err := s.Downloader.DownloadAudio(ctx, req.URL, req.AudioPrefix)
	if err != nil {
		return Received{}, services.Wrap(ErrDownloadFailed, nameReceive, "download audio", "Failed to download audio from YouTube.", err)
	}
	out.AudioPath = wav
	return out, nil
}

// Transcribe turns an audio or video file into text. Video input is first
// converted to "<input>.wav" next to the source, or "<input>.extracted.wav"
// when the source already carries the .wav name.
func (s *Stages) Transcribe(ctx context.Context, inputPath string, isVideo bool, languageHint string) (string, error) {
	if inputPath == "" {
		return "", services.Wrap(ErrInputMissing, nameTranscribe, "check input", "Input file missing.", nil)
	}
	if _, err := os.Stat(inputPath); err != nil {
		return "", services.Wrap(ErrInputMissing, nameTranscribe, "check input", "Input file missing.", nil)
	}

	audioPath := inputPath
	if isVideo {
		audioPath = extractedAudioPath(inputPath)
		if err := s.Extractor.ExtractAudio(ctx, inputPath, audioPath); err != nil {
			if errors.Is(err, deps.ErrFFmpegNotFound) {
				return "", services.Wrap(ErrFFmpegUnavailable, nameTranscribe, "extract audio", "ffmpeg not found. Install ffmpeg or set FFMPEG_BINARY.", nil)
			}
			return "", services.Wrap(ErrExtractionFailed, nameTranscribe, "extract audio", "Audio extraction failed", err)
		}
	}

	text, err := s.Transcriber.Transcribe(ctx, audioPath, languageHint)
	if err != nil {
		return "", services.Wrap(ErrTranscriptionEmpty, nameTranscribe, "transcribe", "Transcription failed or empty.", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", services.Wrap(ErrTranscriptionEmpty, nameTranscribe, "transcribe", "Transcription failed or empty.", nil)
	}
	return text, nil
}

// CheckTranscript rejects blank transcripts.
func CheckTranscript(transcript string) error {
	if strings.TrimSpace(transcript) == "" {
		return services.Wrap(ErrEmptyTranscript, nameTranscribe, "check transcript", "No text to process after transcription.", nil)
	}
	return nil
}

// GlossOutput holds gloss sentences and their display string.
type GlossOutput struct {
	Sentences []gloss.Sentence
	Flat      string
}

// TextToGloss runs the named gloss strategy.
func (s *Stages) TextToGloss(ctx context.Context, text, glosser, spokenLanguage, signedLanguage string) (GlossOutput, error) {
	gen, err := s.Glossers.Get(glosser)
	if err != nil {
		return GlossOutput{}, services.Wrap(ErrUnknownGlosser, nameGloss, "select glosser", fmt.Sprintf("Unsupported glosser: %s", glosser), nil)
	}
	sentences, err := gen.Generate(ctx, text, spokenLanguage, signedLanguage)
	if err != nil {
		return GlossOutput{}, services.Wrap(ErrGlossFailed, nameGloss, "generate", "Gloss generation failed", err)
	}
	return GlossOutput{Sentences: sentences, Flat: gloss.Flatten(sentences)}, nil
}

// GlossToPose writes the pose file for sentences to outPath.
func (s *Stages) GlossToPose(ctx context.Context, sentences []gloss.Sentence, lexicon, spokenLanguage, signedLanguage, outPath string) error {
	if err := s.Poses.Build(ctx, sentences, lexicon, spokenLanguage, signedLanguage, outPath); err != nil {
		return services.Wrap(ErrPoseFailed, namePose, "build pose", "Pose generation failed", err)
	}
	return nil
}

// RenderVideo renders posePath to videoPath in the style for avatar.
func (s *Stages) RenderVideo(ctx context.Context, posePath, videoPath, avatar string) error {
	if err := s.Renderer.Render(ctx, posePath, videoPath, render.StyleForAvatar(avatar)); err != nil {
		return services.Wrap(ErrRenderFailed, nameRender, "render", "Video rendering failed", err)
	}
	return nil
}

func extractedAudioPath(inputPath string) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	if strings.EqualFold(filepath.Ext(inputPath), ".wav") {
		return base + ".extracted.wav"
	}
	return base + ".wav"
}
