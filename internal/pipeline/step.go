package pipeline

import (
	"context"
	"time"

	"glossa/internal/jobs"
	"glossa/internal/logging"
	"glossa/internal/observability"
	"glossa/internal/services"
)

// runStep marks id running at its start checkpoint, calls fn, and on
// success marks it done at its end checkpoint. On failure the step is left
// running; the caller's failure handler marks it.
func (e *Executor) runStep(ctx context.Context, run *jobRun, id jobs.StepID, fn func(context.Context) error) error {
	run.current = id
	cp := stepCheckpoints[id]
	jobID := run.req.JobID

	stepCtx := services.WithStage(ctx, string(id))
	stepCtx, span := observability.StartSpan(stepCtx, "pipeline."+string(id))
	defer span.End()
	logger := logging.WithContext(stepCtx, e.logger)

	e.registry.SetStep(jobID, id, jobs.StepRunning)
	e.setProgress(jobID, cp.start)
	logger.Debug("step started", logging.String(logging.FieldEventType, "step_start"))

	started := time.Now()
	if err := fn(stepCtx); err != nil {
		observability.RecordError(span, err)
		return err
	}

	e.registry.SetStep(jobID, id, jobs.StepDone)
	e.setProgress(jobID, cp.end)
	logger.Info("step completed",
		logging.String(logging.FieldEventType, "step_complete"),
		logging.Duration("elapsed", time.Since(started)),
	)
	return nil
}
