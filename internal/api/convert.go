package api

import (
	"glossa/internal/classifier"
	"glossa/internal/jobs"
	"glossa/internal/stage"
)

// FromRecord converts a registry record to its API representation.
func FromRecord(rec jobs.Record) Job {
	dto := Job{
		ID:       rec.ID,
		Status:   string(rec.Status),
		Progress: rec.Progress,
		Steps:    make([]Step, 0, len(rec.Steps)),
	}
	for _, s := range rec.Steps {
		step := Step{ID: string(s.ID), Label: s.Label, Status: string(s.Status)}
		if !s.UpdatedAt.IsZero() {
			step.Timestamp = s.UpdatedAt.Local().Format(stepTimeFormat)
		}
		dto.Steps = append(dto.Steps, step)
	}
	if rec.Result != nil {
		dto.Result = &Result{
			Text:  rec.Result.Text,
			Gloss: rec.Result.Gloss,
			Files: Files{Pose: rec.Result.Files.Pose, Video: rec.Result.Files.Video},
		}
	}
	if rec.Status == jobs.StatusFailed {
		msg := rec.Error
		dto.Error = &msg
	}
	if !rec.CreatedAt.IsZero() {
		dto.CreatedAt = rec.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !rec.UpdatedAt.IsZero() {
		dto.UpdatedAt = rec.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromRecords converts a slice of registry records into API DTOs. The
// result is never nil so an empty list encodes as [].
func FromRecords(recs []jobs.Record) []Job {
	out := make([]Job, 0, len(recs))
	for _, rec := range recs {
		out = append(out, FromRecord(rec))
	}
	return out
}

// FromPrediction converts a classifier prediction.
func FromPrediction(p classifier.Prediction) Recognition {
	out := Recognition{Label: p.Label, Confidence: p.Confidence, Top3: make([]LabelRank, 0, len(p.Top3))}
	for _, s := range p.Top3 {
		out.Top3 = append(out.Top3, LabelRank{Label: s.Label, Score: s.Score})
	}
	return out
}

// FromStageHealth converts step readiness records.
func FromStageHealth(health []stage.Health) []StageHealth {
	out := make([]StageHealth, 0, len(health))
	for _, h := range health {
		out = append(out, StageHealth{Name: h.Name, Ready: h.Ready, Detail: h.Detail})
	}
	return out
}

// MergeJobCounts returns per-status counts with every status present.
func MergeJobCounts(counts map[jobs.Status]int) map[string]int {
	out := map[string]int{
		string(jobs.StatusQueued):    0,
		string(jobs.StatusRunning):   0,
		string(jobs.StatusCompleted): 0,
		string(jobs.StatusFailed):    0,
	}
	for status, n := range counts {
		out[string(status)] = n
	}
	return out
}
