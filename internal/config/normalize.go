package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeYouTube(); err != nil {
		return err
	}
	c.normalizeTranscription()
	c.normalizeMedia()
	c.normalizeCollaborators()
	if err := c.normalizeClassifier(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeTracing()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.RunsDir) == "" {
		c.Paths.RunsDir = defaultRunsDir
	}
	if c.Paths.RunsDir, err = expandPath(c.Paths.RunsDir); err != nil {
		return fmt.Errorf("paths.runs_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LexiconDir) == "" {
		c.Paths.LexiconDir = defaultLexiconDir
	}
	if c.Paths.LexiconDir, err = expandPath(c.Paths.LexiconDir); err != nil {
		return fmt.Errorf("paths.lexicon_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeYouTube() error {
	c.YouTube.YtDlpBinary = strings.TrimSpace(c.YouTube.YtDlpBinary)
	if c.YouTube.YtDlpBinary == "" {
		c.YouTube.YtDlpBinary = defaultYtDlpBinary
	}
	if value, ok := os.LookupEnv("MAX_YOUTUBE_DURATION_SEC"); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("MAX_YOUTUBE_DURATION_SEC: %w", err)
		}
		c.YouTube.MaxDurationSec = parsed
	}
	if c.YouTube.CaptionTimeoutSeconds <= 0 {
		c.YouTube.CaptionTimeoutSeconds = defaultCaptionTimeoutSeconds
	}
	c.YouTube.UserAgent = strings.TrimSpace(c.YouTube.UserAgent)
	if c.YouTube.UserAgent == "" {
		c.YouTube.UserAgent = defaultCaptionUserAgent
	}
	return nil
}

func (c *Config) normalizeTranscription() {
	c.Transcription.WhisperBinary = strings.TrimSpace(c.Transcription.WhisperBinary)
	if c.Transcription.WhisperBinary == "" {
		c.Transcription.WhisperBinary = defaultWhisperBinary
	}
	if value, ok := os.LookupEnv("WHISPER_MODEL"); ok && strings.TrimSpace(value) != "" {
		c.Transcription.Model = value
	}
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	if c.Transcription.Model == "" {
		c.Transcription.Model = defaultWhisperModel
	}
	if dir := strings.TrimSpace(c.Transcription.ModelDir); dir != "" {
		if expanded, err := expandPath(dir); err == nil {
			c.Transcription.ModelDir = expanded
		}
	}
}

func (c *Config) normalizeMedia() {
	if value, ok := os.LookupEnv("FFMPEG_BINARY"); ok && strings.TrimSpace(value) != "" {
		c.Media.FFmpegBinary = value
	}
	c.Media.FFmpegBinary = strings.TrimSpace(c.Media.FFmpegBinary)
	if c.Media.FFmpegBinary == "" {
		c.Media.FFmpegBinary = defaultFFmpegBinary
	}
}

func (c *Config) normalizeCollaborators() {
	c.Gloss.DefaultGlosser = strings.ToLower(strings.TrimSpace(c.Gloss.DefaultGlosser))
	if c.Gloss.DefaultGlosser == "" {
		c.Gloss.DefaultGlosser = defaultGlosser
	}
	c.Gloss.HelperCommand = strings.TrimSpace(c.Gloss.HelperCommand)
	if c.Gloss.HelperCommand == "" {
		c.Gloss.HelperCommand = defaultGlossHelperCommand
	}
	c.Pose.ConcatCommand = strings.TrimSpace(c.Pose.ConcatCommand)
	if c.Pose.ConcatCommand == "" {
		c.Pose.ConcatCommand = defaultPoseConcatCommand
	}
	c.Render.Command = strings.TrimSpace(c.Render.Command)
	if c.Render.Command == "" {
		c.Render.Command = defaultRenderCommand
	}
	if c.Render.Width <= 0 {
		c.Render.Width = defaultRenderWidth
	}
	if c.Render.Height <= 0 {
		c.Render.Height = defaultRenderHeight
	}
	if c.Render.FPS < 0 {
		c.Render.FPS = 0
	}
}

func (c *Config) normalizeClassifier() error {
	c.Classifier.Command = strings.TrimSpace(c.Classifier.Command)
	if c.Classifier.Command == "" {
		c.Classifier.Command = defaultClassifierCommand
	}
	if strings.TrimSpace(c.Classifier.ModelPath) == "" {
		c.Classifier.ModelPath = defaultClassifierModelPath
	}
	var err error
	if c.Classifier.ModelPath, err = expandPath(c.Classifier.ModelPath); err != nil {
		return fmt.Errorf("classifier.model_path: %w", err)
	}
	if c.Classifier.ImageSize <= 0 {
		c.Classifier.ImageSize = defaultClassifierImageSize
	}
	if value, ok := os.LookupEnv("ASL_CLASS_NAMES"); ok && strings.TrimSpace(value) != "" {
		c.Classifier.ClassNames = strings.Split(value, ",")
	}
	names := make([]string, 0, len(c.Classifier.ClassNames))
	for _, name := range c.Classifier.ClassNames {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	if len(names) == 0 {
		names = append(names, defaultClassNames...)
	}
	c.Classifier.ClassNames = names
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeTracing() {
	c.Tracing.Exporter = strings.ToLower(strings.TrimSpace(c.Tracing.Exporter))
	if c.Tracing.Exporter == "" {
		c.Tracing.Exporter = defaultTracingExporter
	}
	c.Tracing.Endpoint = strings.TrimSpace(c.Tracing.Endpoint)
	if c.Tracing.SampleRatio < 0 {
		c.Tracing.SampleRatio = 0
	}
	if c.Tracing.SampleRatio > 1 {
		c.Tracing.SampleRatio = 1
	}
}
