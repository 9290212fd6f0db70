package stage

import (
	"strings"

	"glossa/internal/deps"
)

// Health summarizes the readiness of a pipeline step.
type Health struct {
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
}

// Healthy constructs a ready Health record.
func Healthy(name string) Health {
	return Health{Name: name, Ready: true}
}

// Unhealthy constructs an unhealthy Health record with context detail.
func Unhealthy(name, detail string) Health {
	return Health{Name: name, Ready: false, Detail: detail}
}

var stepDependencies = []struct {
	step string
	deps []string
}{
	{nameReceive, []string{"yt-dlp"}},
	{nameTranscribe, []string{"FFmpeg", "Whisper"}},
	{nameGloss, []string{"Gloss helper"}},
	{namePose, []string{"Pose concat"}},
	{nameRender, []string{"Renderer"}},
}

// Readiness reports each step's health from dependency statuses. Optional
// dependencies never make a step unhealthy.
func Readiness(statuses []deps.Status) []Health {
	byName := make(map[string]deps.Status, len(statuses))
	for _, s := range statuses {
		byName[s.Name] = s
	}
	out := make([]Health, 0, len(stepDependencies))
	for _, sd := range stepDependencies {
		var missing []string
		for _, name := range sd.deps {
			status, ok := byName[name]
			if !ok || status.Available || status.Optional {
				continue
			}
			missing = append(missing, name)
		}
		if len(missing) == 0 {
			out = append(out, Healthy(sd.step))
			continue
		}
		out = append(out, Unhealthy(sd.step, "missing "+strings.Join(missing, ", ")))
	}
	return out
}
