package stage

import (
	"fmt"

	"glossa/internal/services"
)

// Fatal input and collaborator conditions. Each wraps a services marker so
// callers can classify it; stage functions attach them with services.Wrap.
var (
	ErrURLRequired        = fmt.Errorf("%w: youtube url required", services.ErrValidation)
	ErrInvalidURL         = fmt.Errorf("%w: invalid youtube url", services.ErrValidation)
	ErrDurationExceeded   = fmt.Errorf("%w: duration exceeded", services.ErrValidation)
	ErrInputMissing       = fmt.Errorf("%w: input file missing", services.ErrValidation)
	ErrEmptyTranscript    = fmt.Errorf("%w: empty transcript", services.ErrValidation)
	ErrFFmpegUnavailable  = fmt.Errorf("%w: ffmpeg unavailable", services.ErrDependencyUnavailable)
	ErrExtractionFailed   = fmt.Errorf("%w: audio extraction failed", services.ErrExternalTool)
	ErrTranscriptionEmpty = fmt.Errorf("%w: transcription empty", services.ErrExternalTool)
	ErrMetadataFailed     = fmt.Errorf("%w: metadata fetch failed", services.ErrNetwork)
	ErrDownloadFailed     = fmt.Errorf("%w: audio download failed", services.ErrNetwork)
	ErrUnknownGlosser     = fmt.Errorf("%w: unknown glosser", services.ErrConfiguration)
	ErrGlossFailed        = fmt.Errorf("%w: gloss generation failed", services.ErrExternalTool)
	ErrPoseFailed         = fmt.Errorf("%w: pose generation failed", services.ErrExternalTool)
	ErrRenderFailed       = fmt.Errorf("%w: render failed", services.ErrExternalTool)
)
