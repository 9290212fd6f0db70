package jobs

import "time"

// Status represents the lifecycle of a job.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// IsTerminal reports whether the job has finished.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// StepID names one pipeline step.
type StepID string

const (
	StepReceiveInput StepID = "receive_input"
	StepTranscribe   StepID = "transcribe"
	StepTextToGloss  StepID = "text_to_gloss"
	StepGlossToPose  StepID = "gloss_to_pose"
	StepRenderVideo  StepID = "render_video"
)

// StepStatus represents the lifecycle of a single step.
type StepStatus string

const (
	StepPending StepStatus = "pending"
	StepRunning StepStatus = "running"
	StepDone    StepStatus = "done"
	StepSkipped StepStatus = "skipped"
	StepError   StepStatus = "error"
)

// IsTerminal reports whether the step status is absorbing.
func (s StepStatus) IsTerminal() bool {
	return s == StepDone || s == StepSkipped || s == StepError
}

type stepDefinition struct {
	id    StepID
	label string
}

var stepDefinitions = []stepDefinition{
	{StepReceiveInput, "Receive input"},
	{StepTranscribe, "Transcribe audio/video"},
	{StepTextToGloss, "Text to gloss"},
	{StepGlossToPose, "Gloss to pose"},
	{StepRenderVideo, "Render video"},
}

// StepIDs returns the fixed step order.
func StepIDs() []StepID {
	ids := make([]StepID, 0, len(stepDefinitions))
	for _, def := range stepDefinitions {
		ids = append(ids, def.id)
	}
	return ids
}

// Step records the state of one pipeline step. UpdatedAt is zero while the
// step is pending.
type Step struct {
	ID        StepID
	Label     string
	Status    StepStatus
	UpdatedAt time.Time
}

// Files holds the artifact URLs of a completed job.
type Files struct {
	Pose  string
	Video string
}

// Result is the output of a completed job.
type Result struct {
	Text  string
	Gloss string
	Files Files
}

// Record is the externally visible state of one job. Result is set only when
// the job completed and Error only when it failed.
type Record struct {
	ID        string
	Status    Status
	Progress  int
	Steps     []Step
	Result    *Result
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Step returns the step with the given id.
func (r Record) Step(id StepID) (Step, bool) {
	for _, step := range r.Steps {
		if step.ID == id {
			return step, true
		}
	}
	return Step{}, false
}

func (r Record) clone() Record {
	out := r
	out.Steps = append([]Step(nil), r.Steps...)
	if r.Result != nil {
		res := *r.Result
		out.Result = &res
	}
	return out
}

func newRecord(id string, now time.Time) Record {
	steps := make([]Step, 0, len(stepDefinitions))
	for _, def := range stepDefinitions {
		steps = append(steps, Step{ID: def.id, Label: def.label, Status: StepPending})
	}
	return Record{
		ID:        id,
		Status:    StatusQueued,
		Progress:  0,
		Steps:     steps,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Patch lists the fields a merge may change. Nil fields are left untouched.
type Patch struct {
	Status   *Status
	Progress *int
	Result   *Result
	Error    *string
}
