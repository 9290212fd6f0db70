package stage

import (
	"context"

	"glossa/internal/captions"
	"glossa/internal/gloss"
)

// AudioExtractor writes a mono 16 kHz PCM track of input to dest.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, input, dest string) error
}

// Transcriber converts speech to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, languageHint string) (string, error)
}

// GlossSelector returns the gloss generator registered under a strategy name.
type GlossSelector interface {
	Get(name string) (gloss.Generator, error)
}

// PoseBuilder writes a pose file for gloss sentences.
type PoseBuilder interface {
	Build(ctx context.Context, sentences []gloss.Sentence, lexicon, spokenLanguage, signedLanguage, outPath string) error
}

// VideoRenderer writes a video for a pose file.
type VideoRenderer interface {
	Render(ctx context.Context, posePath, videoPath, style string) error
}

// MetadataFetcher fetches remote video metadata.
type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, url string) (captions.VideoMetadata, error)
}

// AudioDownloader downloads remote audio as "<outputPrefix>.wav".
type AudioDownloader interface {
	DownloadAudio(ctx context.Context, url, outputPrefix string) (string, error)
}

// CaptionResolver finds usable caption text in remote metadata.
type CaptionResolver interface {
	Resolve(ctx context.Context, meta captions.VideoMetadata, preferred string) (captions.Result, bool)
}
