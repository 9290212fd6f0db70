package pipeline

import "glossa/internal/jobs"

// Progress checkpoints reported while a job runs. Only their order matters.
const (
	progressReceived        = 5
	progressTranscribing    = 15
	progressTranscriptReady = 20
	progressTranscribed     = 35
	progressGlossing        = 40
	progressGlossed         = 55
	progressPosing          = 65
	progressPosed           = 80
	progressRendering       = 90
	progressComplete        = 100
)

type checkpoint struct {
	start int
	end   int
}

var stepCheckpoints = map[jobs.StepID]checkpoint{
	jobs.StepReceiveInput: {0, progressReceived},
	jobs.StepTranscribe:   {progressTranscribing, progressTranscribed},
	jobs.StepTextToGloss:  {progressGlossing, progressGlossed},
	jobs.StepGlossToPose:  {progressPosing, progressPosed},
	jobs.StepRenderVideo:  {progressRendering, progressComplete},
}
