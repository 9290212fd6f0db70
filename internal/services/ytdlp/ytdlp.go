// Package ytdlp fetches remote video metadata and audio with yt-dlp.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"glossa/internal/captions"
)

// ErrAudioMissing reports that yt-dlp finished without producing the wav file.
var ErrAudioMissing = errors.New("downloaded audio file missing")

// CommandRunner executes an external command and returns its stdout.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Client wraps the yt-dlp executable.
type Client struct {
	binary        string
	ffmpegBinary  string
	commandRunner CommandRunner
}

// New returns a client. ffmpegBinary, when it names an explicit path, is
// passed to yt-dlp as its ffmpeg location.
func New(binary, ffmpegBinary string) *Client {
	if strings.TrimSpace(binary) == "" {
		binary = "yt-dlp"
	}
	return &Client{binary: binary, ffmpegBinary: ffmpegBinary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (c *Client) WithCommandRunner(runner CommandRunner) *Client {
	c.commandRunner = runner
	return c
}

// FetchMetadata returns duration and caption catalogs without downloading.
func (c *Client) FetchMetadata(ctx context.Context, url string) (captions.VideoMetadata, error) {
	args := []string{
		"--dump-single-json",
		"--skip-download",
		"--no-playlist",
		"--no-warnings",
		"--quiet",
		url,
	}
	out, err := c.run(ctx, args...)
	if err != nil {
		return captions.VideoMetadata{}, fmt.Errorf("yt-dlp metadata: %w", err)
	}
	var meta captions.VideoMetadata
	if err := json.Unmarshal(bytes.TrimSpace(out), &meta); err != nil {
		return captions.VideoMetadata{}, fmt.Errorf("yt-dlp metadata: parse json: %w", err)
	}
	return meta, nil
}

// DownloadAudio saves the best audio stream as "<outputPrefix>.wav" (16 kHz
// mono) and returns that path.
func (c *Client) DownloadAudio(ctx context.Context, url, outputPrefix string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(outputPrefix), 0o755); err != nil {
		return "", fmt.Errorf("yt-dlp download: ensure output dir: %w", err)
	}
	if _, err := c.run(ctx, c.downloadArgs(url, outputPrefix)...); err != nil {
		return "", fmt.Errorf("yt-dlp download: %w", err)
	}
	wav := outputPrefix + ".wav"
	if _, err := os.Stat(wav); err != nil {
		return "", fmt.Errorf("yt-dlp download: %s: %w", filepath.Base(wav), ErrAudioMissing)
	}
	return wav, nil
}

func (c *Client) downloadArgs(url, outputPrefix string) []string {
	args := []string{
		"--no-playlist",
		"--no-warnings",
		"--quiet",
		"--format", "bestaudio/best",
		"--output", outputPrefix + ".%(ext)s",
		"--extract-audio",
		"--audio-format", "wav",
		"--postprocessor-args", "ffmpeg:-ar 16000 -ac 1",
	}
	if strings.ContainsRune(c.ffmpegBinary, filepath.Separator) {
		args = append(args, "--ffmpeg-location", c.ffmpegBinary)
	}
	return append(args, url)
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	if c.commandRunner != nil {
		return c.commandRunner(ctx, c.binary, args...)
	}
	cmd := exec.CommandContext(ctx, c.binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}
