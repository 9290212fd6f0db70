// Package render turns pose files into videos through the renderer command.
package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Styles accepted by the renderer.
const (
	StyleClean  = "clean"
	StyleAvatar = "avatar"
)

// Avatar types accepted at submission.
const (
	AvatarSkeleton = "skeleton"
	AvatarHuman    = "human"
)

// StyleForAvatar maps an avatar type to the renderer style.
func StyleForAvatar(avatar string) string {
	if avatar == AvatarSkeleton {
		return StyleClean
	}
	return StyleAvatar
}

// CommandRunner executes an external command (replaceable in tests).
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Options are the fixed render parameters. FPS 0 keeps the pose's own rate.
type Options struct {
	Width  int
	Height int
	FPS    int
}

// Renderer invokes the configured render command.
type Renderer struct {
	command []string
	opts    Options
	runner  CommandRunner
}

// New returns a renderer for command.
func New(command string, opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = 640
	}
	if opts.Height <= 0 {
		opts.Height = 480
	}
	return &Renderer{command: strings.Fields(command), opts: opts}
}

// WithCommandRunner sets a custom command runner (for testing).
func (r *Renderer) WithCommandRunner(runner CommandRunner) *Renderer {
	r.runner = runner
	return r
}

// Render writes videoPath from posePath.
func (r *Renderer) Render(ctx context.Context, posePath, videoPath, style string) error {
	if len(r.command) == 0 {
		return fmt.Errorf("render command not configured")
	}
	if err := os.MkdirAll(filepath.Dir(videoPath), 0o755); err != nil {
		return fmt.Errorf("render: ensure output dir: %w", err)
	}
	args := append(append([]string(nil), r.command[1:]...), r.buildArgs(posePath, videoPath, style)...)
	if err := r.run(ctx, r.command[0], args...); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if _, err := os.Stat(videoPath); err != nil {
		return fmt.Errorf("render: output missing: %w", err)
	}
	return nil
}

func (r *Renderer) buildArgs(posePath, videoPath, style string) []string {
	return []string{
		"--pose", posePath,
		"--video", videoPath,
		"--width", strconv.Itoa(r.opts.Width),
		"--height", strconv.Itoa(r.opts.Height),
		"--fps", strconv.Itoa(r.opts.FPS),
		"--style", style,
	}
}

func (r *Renderer) run(ctx context.Context, name string, args ...string) error {
	if r.runner != nil {
		return r.runner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
