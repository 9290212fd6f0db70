package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"glossa/internal/config"
	"glossa/internal/jobs"
	"glossa/internal/logging"
	"glossa/internal/pipeline"
	"glossa/internal/services"
)

// Runner executes a job to completion.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) error
}

// GlosserSet reports which gloss strategies are available.
type GlosserSet interface {
	Has(name string) bool
}

// JobServiceOptions wires a JobService.
type JobServiceOptions struct {
	Config   *config.Config
	Registry *jobs.Registry
	Runner   Runner
	Glossers GlosserSet
	Logger   *slog.Logger
	// BaseContext is the parent of every job context. Jobs are detached from
	// the submitting request; cancelling BaseContext stops queued jobs.
	BaseContext context.Context
	// NewID overrides job id generation (tests).
	NewID func() string
}

// JobService accepts submissions and serves job lookups.
type JobService struct {
	cfg      *config.Config
	registry *jobs.Registry
	runner   Runner
	glossers GlosserSet
	logger   *slog.Logger
	baseCtx  context.Context
	newID    func() string
	sem      *semaphore.Weighted
	wg       sync.WaitGroup
}

// NewJobService constructs a JobService. A positive
// workflow.max_concurrent_jobs bounds how many jobs run at once.
func NewJobService(opts JobServiceOptions) (*JobService, error) {
	if opts.Config == nil {
		return nil, errors.New("job service: config is required")
	}
	if opts.Registry == nil || opts.Runner == nil {
		return nil, errors.New("job service: registry and runner are required")
	}
	svc := &JobService{
		cfg:      opts.Config,
		registry: opts.Registry,
		runner:   opts.Runner,
		glossers: opts.Glossers,
		logger:   logging.NewComponentLogger(opts.Logger, "jobs"),
		baseCtx:  opts.BaseContext,
		newID:    opts.NewID,
	}
	if svc.baseCtx == nil {
		svc.baseCtx = context.Background()
	}
	if svc.newID == nil {
		svc.newID = NewJobID
	}
	if n := opts.Config.Workflow.MaxConcurrentJobs; n > 0 {
		svc.sem = semaphore.NewWeighted(int64(n))
	}
	return svc, nil
}

// NewJobID returns a random UUID rendered as 32 hex characters.
func NewJobID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Upload is a submitted input file.
type Upload struct {
	Name   string
	Reader io.Reader
}

// SubmitRequest carries the raw submission fields.
type SubmitRequest struct {
	Mode            string
	Text            string
	File            *Upload
	YouTubeURL      string
	PreferCaptions  *bool
	CaptionLanguage string
	MaxDurationSec  *int
	SpokenLanguage  string
	SignedLanguage  string
	Glosser         string
	Avatar          string
	Lexicon         string
}

// Submit validates req, creates the queued job, and starts it in the
// background. The returned view is the queued snapshot.
func (s *JobService) Submit(ctx context.Context, req SubmitRequest) (Job, error) {
	plan, err := s.validate(req)
	if err != nil {
		return Job{}, err
	}

	id := s.newID()
	jobDir := s.cfg.JobDir(id)
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		return Job{}, services.Wrap(services.ErrConfiguration, "submit", "create job dir", "Could not create job directory", err)
	}
	plan.JobID = id
	plan.JobDir = jobDir

	if req.File != nil && (plan.Mode == pipeline.ModeAudio || plan.Mode == pipeline.ModeVideo) {
		path, err := saveUpload(jobDir, req.File)
		if err != nil {
			return Job{}, services.Wrap(services.ErrValidation, "submit", "save upload", "Could not save uploaded file", err)
		}
		plan.InputPath = path
	}

	rec, err := s.registry.Create(id)
	if err != nil {
		return Job{}, fmt.Errorf("create job: %w", err)
	}

	logger := logging.WithContext(services.WithJobID(ctx, id), s.logger)
	logger.Info("job submitted",
		logging.String(logging.FieldEventType, "job_submitted"),
		logging.String("mode", string(plan.Mode)),
		logging.String("glosser", plan.Glosser),
		logging.String("signed_language", plan.SignedLanguage),
	)

	s.schedule(plan)
	return FromRecord(rec), nil
}

func (s *JobService) schedule(req pipeline.Request) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if s.sem != nil {
			if err := s.sem.Acquire(s.baseCtx, 1); err != nil {
				msg := "Service shutting down before the job could start."
				failed := jobs.StatusFailed
				s.registry.Merge(req.JobID, jobs.Patch{Status: &failed, Error: &msg})
				return
			}
			defer s.sem.Release(1)
		}
		_ = s.runner.Run(s.baseCtx, req)
	}()
}

// Wait blocks until every started job has returned.
func (s *JobService) Wait() {
	s.wg.Wait()
}

// Describe returns the current view of a job.
func (s *JobService) Describe(id string) (Job, error) {
	rec, err := s.registry.Get(strings.TrimSpace(id))
	if err != nil {
		return Job{}, err
	}
	return FromRecord(rec), nil
}

// List returns every job, newest first.
func (s *JobService) List() []Job {
	return FromRecords(s.registry.List())
}

// Counts returns per-status job counts.
func (s *JobService) Counts() (map[string]int, int) {
	return MergeJobCounts(s.registry.Counts()), s.registry.Len()
}

func saveUpload(jobDir string, upload *Upload) (string, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(upload.Name)))
	if ext == "" {
		ext = ".bin"
	}
	path := filepath.Join(jobDir, "input"+ext)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, upload.Reader); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
