package api

import "glossa/internal/deps"

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// stepTimeFormat is the wall-clock form shown next to each step.
const stepTimeFormat = "15:04:05"

// Job is the transport view of a job record.
type Job struct {
	ID        string  `json:"id"`
	Status    string  `json:"status"`
	Progress  int     `json:"progress"`
	Steps     []Step  `json:"steps"`
	Result    *Result `json:"result"`
	Error     *string `json:"error"`
	CreatedAt string  `json:"created_at,omitempty"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

// Step is one pipeline step of a job.
type Step struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Status    string `json:"status"`
	Timestamp string `json:"ts,omitempty"`
}

// Result carries the outputs of a completed job.
type Result struct {
	Text  string `json:"text"`
	Gloss string `json:"gloss"`
	Files Files  `json:"files"`
}

// Files lists artifact URLs relative to the server root.
type Files struct {
	Pose  string `json:"pose"`
	Video string `json:"video"`
}

// Recognition is the classifier outcome for one image.
type Recognition struct {
	Label      string      `json:"label"`
	Confidence float64     `json:"confidence"`
	Top3       []LabelRank `json:"top3"`
}

// LabelRank is one ranked classifier label.
type LabelRank struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// StageHealth mirrors readiness reporting for pipeline steps.
type StageHealth struct {
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running      bool           `json:"running"`
	PID          int            `json:"pid"`
	RunsDir      string         `json:"runs_dir"`
	LockFilePath string         `json:"lock_file_path"`
	Jobs         map[string]int `json:"jobs"`
	TotalJobs    int            `json:"total_jobs"`
	StageHealth  []StageHealth  `json:"stage_health"`
	Dependencies []deps.Status  `json:"dependencies"`
}

// ErrorResponse is the body of every non-2xx API reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the liveness probe body.
type HealthResponse struct {
	OK bool `json:"ok"`
}
