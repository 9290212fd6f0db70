package pipeline

import (
	"errors"
	"testing"

	"glossa/internal/services"
)

func TestPlanDecisionTable(t *testing.T) {
	tests := []struct {
		mode     Mode
		captions bool
		want     Path
	}{
		{ModeText, false, PathDirectText},
		{ModeText, true, PathDirectText},
		{ModeAudio, false, PathLocalAudio},
		{ModeVideo, true, PathLocalVideo},
		{ModeYouTube, true, PathRemoteCaptions},
		{ModeYouTube, false, PathRemoteAudio},
	}
	for _, tt := range tests {
		got, err := Plan(tt.mode, tt.captions)
		if err != nil {
			t.Fatalf("Plan(%s, %v): %v", tt.mode, tt.captions, err)
		}
		if got != tt.want {
			t.Fatalf("Plan(%s, %v) = %s, want %s", tt.mode, tt.captions, got, tt.want)
		}
	}
	if _, err := Plan("fax", false); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestPathPredicates(t *testing.T) {
	if !PathRemoteAudio.Transcribes() || PathRemoteCaptions.Transcribes() || PathDirectText.Transcribes() {
		t.Fatal("unexpected Transcribes results")
	}
	if !PathLocalVideo.ExtractsAudio() || PathLocalAudio.ExtractsAudio() {
		t.Fatal("unexpected ExtractsAudio results")
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode(" YouTube "); err != nil || m != ModeYouTube {
		t.Fatalf("ParseMode = %q, %v", m, err)
	}
	if _, err := ParseMode("fax"); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
