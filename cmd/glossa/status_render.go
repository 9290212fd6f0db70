package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"glossa/internal/api"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const statusLabelWidth = 18

var titleCaser = cases.Title(language.English)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	tag := kindLabel(kind)
	if message != "" {
		tag = fmt.Sprintf("[%s] %s", tag, message)
	} else {
		tag = "[" + tag + "]"
	}
	line := fmt.Sprintf("  %-*s %s", statusLabelWidth, label+":", tag)
	if colorize {
		return kindColor(kind) + line + ansiReset
	}
	return line
}

func kindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func kindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	default:
		return ansiBlue
	}
}

// jobStatusKind maps job and step status strings to a display kind.
func jobStatusKind(status string) statusKind {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "completed", "done":
		return statusOK
	case "running":
		return statusInfo
	case "failed", "error":
		return statusError
	default:
		return statusWarn
	}
}

func displayStatus(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return "-"
	}
	return titleCaser.String(status)
}

// renderJob prints the job summary lines followed by its step table.
func renderJob(w io.Writer, job api.Job, colorize bool) {
	fmt.Fprintln(w, renderStatusLine("Job "+job.ID, jobStatusKind(job.Status), fmt.Sprintf("%s %d%%", displayStatus(job.Status), job.Progress), colorize))
	if job.Error != nil && *job.Error != "" {
		fmt.Fprintln(w, renderStatusLine("Error", statusError, *job.Error, colorize))
	}
	if job.Result != nil {
		fmt.Fprintln(w, renderStatusLine("Text", statusInfo, job.Result.Text, colorize))
		fmt.Fprintln(w, renderStatusLine("Gloss", statusInfo, job.Result.Gloss, colorize))
		fmt.Fprintln(w, renderStatusLine("Pose", statusInfo, job.Result.Files.Pose, colorize))
		fmt.Fprintln(w, renderStatusLine("Video", statusInfo, job.Result.Files.Video, colorize))
	}
	fmt.Fprintln(w, renderStepTable(job.Steps))
}

func renderStepTable(steps []api.Step) string {
	table := make([][]string, 0, len(steps))
	for _, step := range steps {
		ts := step.Timestamp
		if ts == "" {
			ts = "-"
		}
		table = append(table, []string{step.Label, displayStatus(step.Status), ts})
	}
	return renderTable([]string{"Step", "Status", "Time"}, table, []columnAlignment{alignLeft, alignLeft, alignRight})
}

func shouldColorize(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
