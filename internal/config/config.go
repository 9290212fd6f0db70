package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	RunsDir    string `toml:"runs_dir"`
	LogDir     string `toml:"log_dir"`
	LexiconDir string `toml:"lexicon_dir"`
	APIBind    string `toml:"api_bind"`
}

// YouTube contains remote-media settings.
type YouTube struct {
	YtDlpBinary           string `toml:"ytdlp_binary"`
	MaxDurationSec        int    `toml:"max_duration_sec"`
	PreferCaptions        bool   `toml:"prefer_captions"`
	CaptionTimeoutSeconds int    `toml:"caption_timeout_seconds"`
	UserAgent             string `toml:"user_agent"`
}

// Transcription contains speech-to-text settings.
type Transcription struct {
	WhisperBinary string `toml:"whisper_binary"`
	Model         string `toml:"model"`
	ModelDir      string `toml:"model_dir"`
}

// Media contains media conversion settings.
type Media struct {
	FFmpegBinary string `toml:"ffmpeg_binary"`
}

// Gloss contains text-to-gloss settings.
type Gloss struct {
	DefaultGlosser string `toml:"default_glosser"`
	HelperCommand  string `toml:"helper_command"`
}

// Pose contains gloss-to-pose settings.
type Pose struct {
	ConcatCommand  string `toml:"concat_command"`
	Fingerspelling bool   `toml:"fingerspelling"`
}

// Render contains pose-to-video settings.
type Render struct {
	Command string `toml:"command"`
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	FPS     int    `toml:"fps"`
}

// Classifier contains hand-shape recognition settings.
type Classifier struct {
	Command    string   `toml:"command"`
	ModelPath  string   `toml:"model_path"`
	ImageSize  int      `toml:"image_size"`
	ClassNames []string `toml:"class_names"`
}

// Workflow contains job scheduling settings.
type Workflow struct {
	MaxConcurrentJobs int `toml:"max_concurrent_jobs"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Tracing contains OpenTelemetry exporter settings.
type Tracing struct {
	Exporter    string  `toml:"exporter"`
	Endpoint    string  `toml:"endpoint"`
	SampleRatio float64 `toml:"sample_ratio"`
}

// Config encapsulates all configuration values for glossa.
//
// Configuration sections by subsystem:
//   - Paths: job runs, logs, default lexicon, and API bind address
//   - YouTube: yt-dlp binary, duration limit, caption preferences
//   - Transcription: whisper binary and model
//   - Media: ffmpeg binary
//   - Gloss / Pose / Render: the translation collaborators
//   - Classifier: hand-shape recognition
//   - Workflow: job concurrency
//   - Logging / Tracing: observability
type Config struct {
	Paths         Paths         `toml:"paths"`
	YouTube       YouTube       `toml:"youtube"`
	Transcription Transcription `toml:"transcription"`
	Media         Media         `toml:"media"`
	Gloss         Gloss         `toml:"gloss"`
	Pose          Pose          `toml:"pose"`
	Render        Render        `toml:"render"`
	Classifier    Classifier    `toml:"classifier"`
	Workflow      Workflow      `toml:"workflow"`
	Logging       Logging       `toml:"logging"`
	Tracing       Tracing       `toml:"tracing"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("glossa.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.RunsDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// JobDir returns the job-scoped artifact directory.
func (c *Config) JobDir(jobID string) string {
	return filepath.Join(c.Paths.RunsDir, jobID)
}

// MaxYouTubeDuration resolves a per-request override against the configured
// limit. A nil override uses the configured value; zero or negative disables
// the check, reported as 0.
func (c *Config) MaxYouTubeDuration(override *int) int {
	limit := c.YouTube.MaxDurationSec
	if override != nil {
		limit = *override
	}
	if limit <= 0 {
		return 0
	}
	return limit
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Marshal renders the effective configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
