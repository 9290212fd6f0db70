package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	allowedGlossers  = []string{"simple", "spacylemma", "rules"}
	allowedExporters = []string{"none", "stdout", "otlphttp"}
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateYouTube(); err != nil {
		return err
	}
	if err := c.validateGloss(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateTracing(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.RunsDir) == "" {
		return errors.New("paths.runs_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateYouTube() error {
	if strings.TrimSpace(c.YouTube.YtDlpBinary) == "" {
		return errors.New("youtube.ytdlp_binary must be set")
	}
	if c.YouTube.CaptionTimeoutSeconds <= 0 {
		return errors.New("youtube.caption_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateGloss() error {
	if !contains(allowedGlossers, c.Gloss.DefaultGlosser) {
		return fmt.Errorf("gloss.default_glosser must be one of %s", strings.Join(allowedGlossers, ", "))
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return errors.New("render.width and render.height must be positive")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.MaxConcurrentJobs < 0 {
		return errors.New("workflow.max_concurrent_jobs must be >= 0 (0 disables the limit)")
	}
	return nil
}

func (c *Config) validateTracing() error {
	if !contains(allowedExporters, c.Tracing.Exporter) {
		return fmt.Errorf("tracing.exporter must be one of %s", strings.Join(allowedExporters, ", "))
	}
	return nil
}

func contains(values []string, candidate string) bool {
	for _, v := range values {
		if v == candidate {
			return true
		}
	}
	return false
}
