package pipeline

import (
	"context"
	"strings"

	"glossa/internal/jobs"
	"glossa/internal/logging"
	"glossa/internal/services"
)

// fail marks the current step errored and the job failed. Progress keeps
// its last value; nothing already written is rolled back.
func (e *Executor) fail(ctx context.Context, run *jobRun, stepErr error) {
	jobID := run.req.JobID
	message := failureMessage(run.current, stepErr)

	e.registry.SetStep(jobID, run.current, jobs.StepError)
	failed := jobs.StatusFailed
	e.registry.Merge(jobID, jobs.Patch{Status: &failed, Error: &message})

	details := services.Details(stepErr)
	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "job_failed"),
		logging.String(logging.FieldStage, string(run.current)),
		logging.String(logging.FieldPath, string(run.path)),
		logging.String("error_kind", string(details.Kind)),
		logging.String("error_operation", details.Operation),
		logging.String("error_message", message),
		logging.String(logging.FieldErrorHint, errorHint(details.Kind)),
	}
	if details.Cause != nil {
		attrs = append(attrs, logging.Error(details.Cause))
	} else {
		attrs = append(attrs, logging.Error(stepErr))
	}
	logging.ErrorWithContext(logging.WithContext(ctx, e.logger), "job failed", "job_failed", attrs...)
}

func failureMessage(step jobs.StepID, err error) string {
	message := strings.TrimSpace(services.UserMessage(err))
	if message == "" {
		message = string(step) + " failed"
	}
	return message
}

func errorHint(kind services.ErrorKind) string {
	switch kind {
	case services.KindConfiguration:
		return "check the submitted options and config.toml"
	case services.KindInput:
		return "check the submitted input"
	case services.KindUnavailable:
		return "run glossa deps to find the missing tool"
	case services.KindNetwork:
		return "check network access to the remote host"
	case services.KindExternal:
		return "check the external tool output in the log"
	default:
		return "check logs for details"
	}
}
