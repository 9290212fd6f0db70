package main

import (
	"bytes"
	"strings"
	"testing"

	"glossa/internal/api"
)

func TestRenderStatusLine(t *testing.T) {
	plain := renderStatusLine("FFmpeg", statusOK, "ready", false)
	if !strings.Contains(plain, "FFmpeg:") || !strings.Contains(plain, "[OK] ready") {
		t.Fatalf("unexpected plain line %q", plain)
	}
	if strings.Contains(plain, "\x1b[") {
		t.Fatalf("plain line contains ANSI codes: %q", plain)
	}
	colored := renderStatusLine("FFmpeg", statusError, "", true)
	if !strings.HasPrefix(colored, ansiRed) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected red line, got %q", colored)
	}
}

func TestJobStatusKind(t *testing.T) {
	cases := map[string]statusKind{
		"completed": statusOK,
		"done":      statusOK,
		"running":   statusInfo,
		"failed":    statusError,
		"error":     statusError,
		"queued":    statusWarn,
		"pending":   statusWarn,
	}
	for in, want := range cases {
		if got := jobStatusKind(in); got != want {
			t.Errorf("jobStatusKind(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRenderJobIncludesErrorAndSteps(t *testing.T) {
	msg := "Transcription failed or empty."
	job := api.Job{
		ID:       "abc",
		Status:   "failed",
		Progress: 20,
		Error:    &msg,
		Steps: []api.Step{
			{ID: "receive_input", Label: "Receive input", Status: "done", Timestamp: "10:00:00"},
			{ID: "transcribe", Label: "Transcribe audio/video", Status: "error", Timestamp: "10:00:02"},
			{ID: "text_to_gloss", Label: "Text to gloss", Status: "pending"},
		},
	}
	var buf bytes.Buffer
	renderJob(&buf, job, false)
	out := buf.String()
	for _, want := range []string{"Failed 20%", msg, "Transcribe audio/video", "Error", "Pending", "10:00:02"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"x"}}, []columnAlignment{alignLeft, alignRight})
	if !strings.Contains(out, "x") || !strings.Contains(out, "╭") {
		t.Fatalf("unexpected table %q", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty output without headers")
	}
}
