package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"glossa/internal/api"
	"glossa/internal/config"
	"glossa/internal/daemon"
	"glossa/internal/gloss"
	"glossa/internal/jobs"
	"glossa/internal/logging"
	"glossa/internal/pipeline"
	"glossa/internal/testsupport"
)

// completingRunner finishes every job immediately with a fixed result.
type completingRunner struct {
	registry *jobs.Registry
}

func (r completingRunner) Run(_ context.Context, req pipeline.Request) error {
	for _, id := range jobs.StepIDs() {
		r.registry.SetStep(req.JobID, id, jobs.StepDone)
	}
	status := jobs.StatusCompleted
	progress := 100
	r.registry.Merge(req.JobID, jobs.Patch{
		Status:   &status,
		Progress: &progress,
		Result: &jobs.Result{
			Text:  req.Text,
			Gloss: strings.ToUpper(req.Text),
			Files: jobs.Files{
				Pose:  pipeline.FileURL(req.JobID, pipeline.PoseFile),
				Video: pipeline.FileURL(req.JobID, pipeline.VideoFile),
			},
		},
	})
	return nil
}

type cliTestEnv struct {
	cfg        *config.Config
	registry   *jobs.Registry
	server     *httptest.Server
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)

	registry := jobs.NewRegistry()
	svc, err := api.NewJobService(api.JobServiceOptions{
		Config:   cfg,
		Registry: registry,
		Runner:   completingRunner{registry: registry},
		Glossers: gloss.NewDefaultRegistry(""),
		Logger:   logging.NewNop(),
	})
	if err != nil {
		t.Fatalf("NewJobService: %v", err)
	}
	d, err := daemon.New(cfg, svc, nil, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	srv := httptest.NewServer(d.Handler())
	t.Cleanup(srv.Close)

	return &cliTestEnv{cfg: cfg, registry: registry, server: srv, configPath: configPath}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--env-file", "", "--config", env.configPath}
	if env.server != nil {
		flags = append(flags, "--server", env.server.URL)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func TestCLISubmitWaitPrintsSteps(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "submit", "--mode", "text", "--text", "hello world", "--wait", "--interval", "10ms")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	for _, want := range []string{"Completed 100%", "HELLO WORLD", "Receive input", "Render video", "/files/"} {
		if !strings.Contains(out, want) {
			t.Fatalf("submit output missing %q:\n%s", want, out)
		}
	}
}

func TestCLISubmitValidationError(t *testing.T) {
	env := setupCLITestEnv(t)

	_, err := runCLI(t, env, "submit", "--mode", "text")
	if err == nil {
		t.Fatal("expected error for text mode without text")
	}
	if !strings.Contains(err.Error(), "Text input is required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCLIStatusAndJobs(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "submit", "--mode", "text", "--text", "one", "--wait", "--json", "--interval", "10ms")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !strings.Contains(out, `"status": "completed"`) {
		t.Fatalf("expected completed JSON job, got %s", out)
	}
	list := env.registry.List()
	if len(list) != 1 {
		t.Fatalf("expected 1 job, got %d", len(list))
	}
	id := list[0].ID

	out, err = runCLI(t, env, "status", id)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, id) || !strings.Contains(out, "Gloss to pose") {
		t.Fatalf("unexpected status output: %s", out)
	}

	out, err = runCLI(t, env, "jobs")
	if err != nil {
		t.Fatalf("jobs: %v", err)
	}
	if !strings.Contains(out, id) || !strings.Contains(out, "100%") {
		t.Fatalf("unexpected jobs output: %s", out)
	}

	out, err = runCLI(t, env, "status")
	if err != nil {
		t.Fatalf("daemon status: %v", err)
	}
	if !strings.Contains(out, "Daemon") || !strings.Contains(out, "Completed") {
		t.Fatalf("unexpected daemon status output: %s", out)
	}
}

func TestCLIStatusUnknownJob(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, err := runCLI(t, env, "status", "missing"); err == nil {
		t.Fatal("expected error for unknown job")
	}
}

func TestCLIUnreachableDaemonHintsServe(t *testing.T) {
	env := setupCLITestEnv(t)
	env.server.Close()

	_, err := runCLI(t, env, "jobs")
	if err == nil {
		t.Fatal("expected error when daemon is down")
	}
	if !strings.Contains(err.Error(), "glossa serve") {
		t.Fatalf("expected serve hint, got %v", err)
	}
}
