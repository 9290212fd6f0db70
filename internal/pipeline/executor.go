package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"glossa/internal/jobs"
	"glossa/internal/logging"
	"glossa/internal/observability"
	"glossa/internal/services"
	"glossa/internal/stage"
)

// Artifact names written inside the job directory.
const (
	PoseFile  = "output.pose"
	VideoFile = "output.mp4"
	// AudioPrefix is where remote audio lands, without extension.
	AudioPrefix = "input"
)

// Executor sequences the stage functions for a job and records every
// transition in the registry. It holds no per-job state and is safe for
// concurrent use.
type Executor struct {
	registry *jobs.Registry
	stages   *stage.Stages
	logger   *slog.Logger
}

// NewExecutor constructs an executor.
func NewExecutor(registry *jobs.Registry, stages *stage.Stages, logger *slog.Logger) *Executor {
	return &Executor{
		registry: registry,
		stages:   stages,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
	}
}

// jobRun tracks the mutable state of one execution.
type jobRun struct {
	req     Request
	current jobs.StepID
	path    Path
}

// Run drives req to a terminal state. The returned error is the failure
// already recorded on the job; callers running jobs in the background may
// ignore it.
func (e *Executor) Run(ctx context.Context, req Request) (err error) {
	ctx = services.WithJobID(ctx, req.JobID)
	ctx, span := observability.StartSpan(ctx, "pipeline.job",
		attribute.String("job.id", req.JobID),
		attribute.String("job.mode", string(req.Mode)),
	)
	defer span.End()

	run := &jobRun{req: req, current: jobs.StepReceiveInput}
	logger := logging.WithContext(ctx, e.logger)
	logger.Info("job started",
		logging.String(logging.FieldEventType, "job_start"),
		logging.String("mode", string(req.Mode)),
		logging.String("glosser", req.Glosser),
		logging.String("avatar", req.Avatar),
	)
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = services.Wrap(services.ErrExternalTool, string(run.current), "run", fmt.Sprintf("Unexpected failure: %v", r), nil)
		}
		if err != nil {
			observability.RecordError(span, err)
			e.fail(ctx, run, err)
			return
		}
		logger.Info("job completed",
			logging.String(logging.FieldEventType, "job_complete"),
			logging.String(logging.FieldPath, string(run.path)),
			logging.Duration("elapsed", time.Since(started)),
		)
	}()

	return e.execute(ctx, run)
}

func (e *Executor) execute(ctx context.Context, run *jobRun) error {
	req := run.req
	status := jobs.StatusRunning
	e.registry.Merge(req.JobID, jobs.Patch{Status: &status})

	if err := e.runStep(ctx, run, jobs.StepReceiveInput, func(context.Context) error { return nil }); err != nil {
		return err
	}

	var received stage.Received
	if req.Mode == ModeYouTube {
		// Remote acquisition is attributed to receive_input, which is already
		// done, so a failure here leaves every step as it stands.
		acquired, err := e.acquireRemote(ctx, req)
		if err != nil {
			return err
		}
		received = acquired
	}

	path, err := Plan(req.Mode, received.CaptionsFound)
	if err != nil {
		return err
	}
	run.path = path
	logging.WithContext(ctx, e.logger).Info("pipeline path selected",
		logging.String(logging.FieldEventType, "path_selected"),
		logging.String(logging.FieldPath, string(path)),
	)

	transcript, err := e.acquireTranscript(ctx, run, received)
	if err != nil {
		return err
	}
	if err := stage.CheckTranscript(transcript); err != nil {
		return err
	}

	var glossed stage.GlossOutput
	if err := e.runStep(ctx, run, jobs.StepTextToGloss, func(ctx context.Context) error {
		out, err := e.stages.TextToGloss(ctx, transcript, req.Glosser, req.SpokenLanguage, req.SignedLanguage)
		glossed = out
		return err
	}); err != nil {
		return err
	}

	posePath := filepath.Join(req.JobDir, PoseFile)
	if err := e.runStep(ctx, run, jobs.StepGlossToPose, func(ctx context.Context) error {
		return e.stages.GlossToPose(ctx, glossed.Sentences, req.Lexicon, req.SpokenLanguage, req.SignedLanguage, posePath)
	}); err != nil {
		return err
	}

	videoPath := filepath.Join(req.JobDir, VideoFile)
	if err := e.runStep(ctx, run, jobs.StepRenderVideo, func(ctx context.Context) error {
		return e.stages.RenderVideo(ctx, posePath, videoPath, req.Avatar)
	}); err != nil {
		return err
	}

	completed := jobs.StatusCompleted
	progress := progressComplete
	e.registry.Merge(req.JobID, jobs.Patch{
		Status:   &completed,
		Progress: &progress,
		Result: &jobs.Result{
			Text:  transcript,
			Gloss: glossed.Flat,
			Files: jobs.Files{
				Pose:  FileURL(req.JobID, PoseFile),
				Video: FileURL(req.JobID, VideoFile),
			},
		},
	})
	return nil
}

func (e *Executor) acquireRemote(ctx context.Context, req Request) (stage.Received, error) {
	ctx, span := observability.StartSpan(ctx, "pipeline.acquire_remote")
	defer span.End()
	received, err := e.stages.ReceiveRemote(ctx, stage.RemoteRequest{
		URL:             req.YouTube.URL,
		PreferCaptions:  req.YouTube.PreferCaptions,
		CaptionLanguage: req.captionLanguage(),
		MaxDuration:     req.YouTube.MaxDuration,
		AudioPrefix:     filepath.Join(req.JobDir, AudioPrefix),
	})
	if err != nil {
		observability.RecordError(span, err)
		return stage.Received{}, err
	}
	span.SetAttributes(attribute.Bool("captions.found", received.CaptionsFound))
	if received.CaptionsFound {
		span.SetAttributes(
			attribute.String("captions.source", received.Captions.Source),
			attribute.String("captions.language", received.Captions.Language),
		)
	}
	return received, nil
}

func (e *Executor) acquireTranscript(ctx context.Context, run *jobRun, received stage.Received) (string, error) {
	req := run.req
	switch {
	case run.path == PathDirectText:
		e.skipTranscribe(run)
		return req.Text, nil
	case run.path == PathRemoteCaptions:
		e.skipTranscribe(run)
		return received.Transcript, nil
	case run.path.Transcribes():
		input := req.InputPath
		if run.path == PathRemoteAudio {
			input = received.AudioPath
		}
		var transcript string
		err := e.runStep(ctx, run, jobs.StepTranscribe, func(ctx context.Context) error {
			text, err := e.stages.Transcribe(ctx, input, run.path.ExtractsAudio(), req.SpokenLanguage)
			transcript = text
			return err
		})
		return transcript, err
	default:
		return "", services.Wrap(services.ErrConfiguration, "pipeline", "plan", fmt.Sprintf("Unhandled pipeline path: %s", run.path), nil)
	}
}

func (e *Executor) skipTranscribe(run *jobRun) {
	e.registry.SetStep(run.req.JobID, jobs.StepTranscribe, jobs.StepSkipped)
	e.setProgress(run.req.JobID, progressTranscriptReady)
}

func (e *Executor) setProgress(id string, value int) {
	e.registry.Merge(id, jobs.Patch{Progress: &value})
}

// FileURL is the public path of a job artifact.
func FileURL(jobID, name string) string {
	return "/files/" + jobID + "/" + name
}
