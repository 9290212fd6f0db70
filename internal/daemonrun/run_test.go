package daemonrun

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"glossa/internal/api"
	"glossa/internal/daemon"
	"glossa/internal/jobs"
	"glossa/internal/logging"
	"glossa/internal/pipeline"
	"glossa/internal/pose"
	"glossa/internal/testsupport"
)

func TestBuildServicesWiresCollaborators(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	caches := NewCaches()
	defer caches.Close()

	stages, glossers := BuildStages(cfg, caches, logging.NewNop())
	if stages.Extractor == nil || stages.Transcriber == nil || stages.Poses == nil ||
		stages.Renderer == nil || stages.Metadata == nil || stages.Downloader == nil || stages.Captions == nil {
		t.Fatalf("collaborator missing: %+v", stages)
	}
	for _, name := range []string{"simple", "spacylemma", "rules"} {
		if !glossers.Has(name) {
			t.Fatalf("glosser %s not registered", name)
		}
	}

	jobSvc, recognition, err := BuildServices(context.Background(), cfg, caches, logging.NewNop())
	if err != nil {
		t.Fatalf("BuildServices: %v", err)
	}
	if jobSvc == nil || recognition == nil {
		t.Fatal("expected services")
	}
	if _, err := jobSvc.Submit(context.Background(), api.SubmitRequest{Mode: "text", Text: "hi", Glosser: "bogus"}); err == nil {
		t.Fatal("wired glosser registry should reject unknown glossers")
	}
}

func TestWritePIDFile(t *testing.T) {
	path := t.TempDir() + "/glossa.pid"
	if err := writePIDFile(path); err != nil {
		t.Fatalf("writePIDFile: %v", err)
	}
	if err := writePIDFile(""); err != nil {
		t.Fatalf("blank path should be ignored: %v", err)
	}
}

type noopRunner struct{}

func (noopRunner) Run(context.Context, pipeline.Request) error { return nil }

// lookupRunner blocks until released, then reads from a cached lookup.
type lookupRunner struct {
	lookup  *pose.Lookup
	release chan struct{}
	result  chan error
}

func (r lookupRunner) Run(ctx context.Context, _ pipeline.Request) error {
	<-r.release
	_, _, err := r.lookup.Find(ctx, "hello", "HELLO", "en", "ase")
	r.result <- err
	return err
}

func TestDrainWaitsForJobsBeforeClosingCaches(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	lexicon := t.TempDir()
	index := "path,spoken_language,signed_language,start,end,words,glosses,priority\nhello.pose,en,ase,0,0,hello,HELLO,0\n"
	testsupport.WriteFile(t, filepath.Join(lexicon, pose.IndexFile), []byte(index))

	caches := NewCaches()
	lookup, err := caches.Lookups.GetOrCreate(context.Background(), lexicon, func(ctx context.Context) (*pose.Lookup, error) {
		return pose.LoadLookup(ctx, lexicon, false)
	})
	if err != nil {
		t.Fatalf("load lookup: %v", err)
	}

	runner := lookupRunner{lookup: lookup, release: make(chan struct{}), result: make(chan error, 1)}
	svc, err := api.NewJobService(api.JobServiceOptions{
		Config: cfg, Registry: jobs.NewRegistry(), Runner: runner, Logger: logging.NewNop(),
	})
	if err != nil {
		t.Fatalf("NewJobService: %v", err)
	}
	if _, err := svc.Submit(context.Background(), api.SubmitRequest{Mode: "text", Text: "hello"}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	done := make(chan struct{})
	go func() {
		drain(svc, caches)
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("drain returned while a job was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(runner.release)
	if err := <-runner.result; err != nil {
		t.Fatalf("running job saw closed lookup: %v", err)
	}
	<-done
}

func TestRunKeepsLockHolderPIDFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc, err := api.NewJobService(api.JobServiceOptions{
		Config: cfg, Registry: jobs.NewRegistry(), Runner: noopRunner{}, Logger: logging.NewNop(),
	})
	if err != nil {
		t.Fatalf("NewJobService: %v", err)
	}
	holder, err := daemon.New(cfg, svc, nil, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := holder.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(holder.Stop)

	pidPath := filepath.Join(cfg.Paths.RunsDir, PIDFileName)
	testsupport.WriteFile(t, pidPath, []byte("4242\n"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := Run(ctx, cfg, Options{LogLevel: "error"}); err == nil {
		t.Fatal("expected second instance to fail on the lock")
	}
	data, err := os.ReadFile(pidPath)
	if err != nil {
		t.Fatalf("pid file removed by losing instance: %v", err)
	}
	if string(data) != "4242\n" {
		t.Fatalf("pid file overwritten: %q", data)
	}
}
