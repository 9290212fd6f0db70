package preflight

import (
	"context"
	"strings"

	"glossa/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Runs directory", cfg.Paths.RunsDir))

	if cfg.Paths.LexiconDir != "" {
		results = append(results, CheckDirectoryAccess("Lexicon directory", cfg.Paths.LexiconDir))
	}

	if strings.TrimSpace(cfg.Classifier.ModelPath) != "" {
		results = append(results, CheckFileReadable("Classifier model", cfg.Classifier.ModelPath))
	}

	if cfg.Tracing.Exporter == "otlphttp" {
		results = append(results, CheckTracingEndpoint(ctx, cfg.Tracing.Endpoint))
	}

	return results
}

// Failed returns the subset of results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
