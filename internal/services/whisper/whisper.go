// Package whisper drives the whisper speech-to-text CLI.
package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"glossa/internal/language"
	"glossa/internal/rescache"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "base"

// Config captures runtime settings for whisper.
type Config struct {
	Binary   string
	Model    string
	ModelDir string
}

// CommandRunner executes an external command (replaceable in tests).
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Service transcribes audio files with one whisper model.
type Service struct {
	cfg           Config
	binary        string
	commandRunner CommandRunner
}

// NewService resolves the whisper executable for cfg.
func NewService(cfg Config) (*Service, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	binary, err := exec.LookPath(strings.TrimSpace(cfg.Binary))
	if err != nil {
		return nil, fmt.Errorf("whisper: binary %q not found: %w", cfg.Binary, err)
	}
	return &Service{cfg: cfg, binary: binary}, nil
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner CommandRunner) *Service {
	s.commandRunner = runner
	return s
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	return s.cfg.Model
}

// Transcribe returns the trimmed transcript of audioPath. An empty string
// with a nil error means whisper produced no speech.
func (s *Service) Transcribe(ctx context.Context, audioPath, languageHint string) (string, error) {
	if audioPath == "" {
		return "", fmt.Errorf("transcribe: audio path required")
	}
	outputDir := filepath.Join(filepath.Dir(audioPath), "whisper")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("transcribe: ensure output dir: %w", err)
	}

	if err := s.run(ctx, s.binary, s.buildArgs(audioPath, outputDir, languageHint)...); err != nil {
		return "", fmt.Errorf("whisper: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	return loadTranscriptText(filepath.Join(outputDir, base+".json"))
}

func (s *Service) buildArgs(audioPath, outputDir, languageHint string) []string {
	args := []string{
		audioPath,
		"--model", s.cfg.Model,
		"--output_dir", outputDir,
		"--output_format", "json",
		"--verbose", "False",
		"--fp16", "False",
	}
	if s.cfg.ModelDir != "" {
		args = append(args, "--model_dir", s.cfg.ModelDir)
	}
	if lang := language.ToISO2(languageHint); lang != "" {
		args = append(args, "--language", lang)
	}
	return args
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", filepath.Base(name), err, strings.TrimSpace(string(output)))
	}
	return nil
}

type segment struct {
	Text string `json:"text"`
}

type payload struct {
	Text     string    `json:"text"`
	Segments []segment `json:"segments"`
}

func loadTranscriptText(jsonPath string) (string, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return "", fmt.Errorf("read whisper output: %w", err)
	}
	var out payload
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("parse whisper json: %w", err)
	}
	if text := strings.TrimSpace(out.Text); text != "" {
		return text, nil
	}
	parts := make([]string, 0, len(out.Segments))
	for _, seg := range out.Segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}

// Transcriber shares one Service per model across jobs. The service is
// built on first use and reused for the rest of the process.
type Transcriber struct {
	cfg    Config
	cache  *rescache.Cache[string, *Service]
	runner CommandRunner
}

// NewTranscriber returns a Transcriber backed by cache.
func NewTranscriber(cfg Config, cache *rescache.Cache[string, *Service]) *Transcriber {
	if cache == nil {
		cache = rescache.New[string, *Service]("transcriber")
	}
	return &Transcriber{cfg: cfg, cache: cache}
}

// WithCommandRunner sets a custom command runner on services built later.
func (t *Transcriber) WithCommandRunner(runner CommandRunner) *Transcriber {
	t.runner = runner
	return t
}

// Transcribe implements the pipeline transcriber.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath, languageHint string) (string, error) {
	model := t.cfg.Model
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	svc, err := t.cache.GetOrCreate(ctx, model, func(context.Context) (*Service, error) {
		svc, err := NewService(t.cfg)
		if err != nil {
			return nil, err
		}
		return svc.WithCommandRunner(t.runner), nil
	})
	if err != nil {
		return "", err
	}
	return svc.Transcribe(ctx, audioPath, languageHint)
}
