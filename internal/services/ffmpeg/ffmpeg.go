// Package ffmpeg extracts speech-ready audio from uploaded media.
package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"glossa/internal/deps"
)

// CommandRunner executes an external command (replaceable in tests).
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Extractor converts media files into 16 kHz mono PCM WAV files.
type Extractor struct {
	binary        string
	resolve       func(string) (string, error)
	commandRunner CommandRunner
}

// New returns an extractor for the configured ffmpeg binary.
func New(binary string) *Extractor {
	return &Extractor{binary: binary, resolve: deps.ResolveFFmpeg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *Extractor) WithCommandRunner(runner CommandRunner) *Extractor {
	e.commandRunner = runner
	return e
}

// ExtractAudio writes the audio track of input to dest. It returns an error
// matching deps.ErrFFmpegNotFound when no ffmpeg executable is available.
func (e *Extractor) ExtractAudio(ctx context.Context, input, dest string) error {
	binary, err := e.resolve(e.binary)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("ffmpeg extract: ensure output dir: %w", err)
	}
	args := BuildExtractArgs(input, dest)
	if e.commandRunner != nil {
		return e.commandRunner(ctx, binary, args...)
	}
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg extract: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// BuildExtractArgs returns the ffmpeg arguments for a mono 16 kHz WAV.
func BuildExtractArgs(input, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", input,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		dest,
	}
}
