package services_test

import (
	"errors"
	"strings"
	"testing"

	"glossa/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "render_video", "render", "renderer failed", base)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"render_video", "render", "renderer failed", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want services.ErrorKind
	}{
		{services.Wrap(services.ErrValidation, "", "", "empty", nil), services.KindInput},
		{services.Wrap(services.ErrConfiguration, "", "", "bad", nil), services.KindConfiguration},
		{services.Wrap(services.ErrDependencyUnavailable, "", "", "missing", nil), services.KindUnavailable},
		{services.Wrap(services.ErrNetwork, "", "", "down", nil), services.KindNetwork},
		{services.Wrap(services.ErrExternalTool, "", "", "exit 1", nil), services.KindExternal},
		{errors.New("plain"), services.KindUnknown},
		{nil, services.KindUnknown},
	}
	for _, tc := range cases {
		if got := services.Classify(tc.err); got != tc.want {
			t.Fatalf("Classify(%v) = %s, want %s", tc.err, got, tc.want)
		}
	}
}

func TestDetailsExtractsStageContext(t *testing.T) {
	cause := errors.New("exit status 1")
	err := services.Wrap(services.ErrExternalTool, "transcribe", "whisper", "transcription failed", cause)
	details := services.Details(err)
	if details.Kind != services.KindExternal {
		t.Fatalf("unexpected kind %s", details.Kind)
	}
	if details.Stage != "transcribe" || details.Operation != "whisper" {
		t.Fatalf("unexpected context %+v", details)
	}
	if !errors.Is(details.Cause, cause) {
		t.Fatalf("expected cause to be kept, got %v", details.Cause)
	}
}

func TestUserMessage(t *testing.T) {
	sentinel := errors.New("ffmpeg not found")
	if got := services.UserMessage(services.Wrap(services.ErrDependencyUnavailable, "transcribe", "extract", "ffmpeg not found", sentinel)); got != "ffmpeg not found" {
		t.Fatalf("unexpected message %q", got)
	}
	withCause := services.Wrap(services.ErrExternalTool, "transcribe", "extract", "audio extraction failed", errors.New("exit status 1: bad input"))
	if got := services.UserMessage(withCause); got != "audio extraction failed: exit status 1: bad input" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := services.UserMessage(errors.New("plain failure")); got != "plain failure" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := services.UserMessage(nil); got != "" {
		t.Fatalf("expected empty message, got %q", got)
	}
}
