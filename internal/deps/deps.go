package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"glossa/internal/config"
)

// Requirement defines an external dependency glossa relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Path        string `json:"path,omitempty"`
	Description string `json:"description,omitempty"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// Requirements lists the executables the pipeline drives for cfg.
func Requirements(cfg *config.Config) []Requirement {
	if cfg == nil {
		return nil
	}
	return []Requirement{
		{Name: "FFmpeg", Command: cfg.Media.FFmpegBinary, Description: "Extracts audio from uploaded video"},
		{Name: "yt-dlp", Command: cfg.YouTube.YtDlpBinary, Description: "Fetches YouTube metadata and audio"},
		{Name: "Whisper", Command: cfg.Transcription.WhisperBinary, Description: "Transcribes audio to text"},
		{Name: "Gloss helper", Command: firstField(cfg.Gloss.HelperCommand), Description: "Runs spacylemma and rules glossers", Optional: true},
		{Name: "Pose concat", Command: firstField(cfg.Pose.ConcatCommand), Description: "Concatenates lexicon poses"},
		{Name: "Renderer", Command: firstField(cfg.Render.Command), Description: "Renders pose files to video"},
		{Name: "Classifier", Command: firstField(cfg.Classifier.Command), Description: "Recognizes fingerspelled hand shapes", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Path = resolved
		status.Available = true
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the required dependencies that are unavailable.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s)
		}
	}
	return missing
}

func firstField(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
