package ytdlp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestFetchMetadataDecodesCatalogs(t *testing.T) {
	doc := `{"id":"abc","duration":125,"subtitles":{"fr":[{"ext":"srv1","url":"u1"},{"ext":"vtt","url":"u2"}]},"automatic_captions":{"en":[{"ext":"vtt","url":"u3"}]}}`
	var gotArgs []string
	client := New("yt-dlp", "").WithCommandRunner(func(_ context.Context, name string, args ...string) ([]byte, error) {
		if name != "yt-dlp" {
			t.Fatalf("unexpected binary %s", name)
		}
		gotArgs = args
		return []byte(doc + "\n"), nil
	})

	meta, err := client.FetchMetadata(context.Background(), "https://youtu.be/abc")
	if err != nil {
		t.Fatalf("FetchMetadata: %v", err)
	}
	if meta.Duration == nil || *meta.Duration != 125 {
		t.Fatalf("unexpected duration %v", meta.Duration)
	}
	if langs := meta.Subtitles.Languages(); len(langs) != 1 || langs[0] != "fr" {
		t.Fatalf("unexpected subtitles %v", langs)
	}
	if meta.AutomaticCaptions.Len() != 1 {
		t.Fatal("expected automatic captions")
	}
	if !slices.Contains(gotArgs, "--skip-download") || gotArgs[len(gotArgs)-1] != "https://youtu.be/abc" {
		t.Fatalf("unexpected args %v", gotArgs)
	}
}

func TestFetchMetadataPropagatesFailure(t *testing.T) {
	client := New("", "").WithCommandRunner(func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("exit status 1: ERROR: Video unavailable")
	})
	if _, err := client.FetchMetadata(context.Background(), "https://youtube.com/watch?v=x"); err == nil {
		t.Fatal("expected error")
	}
}

func TestDownloadAudio(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "job", "input")
	var gotArgs []string
	client := New("yt-dlp", "/opt/ffmpeg/bin/ffmpeg").WithCommandRunner(func(_ context.Context, _ string, args ...string) ([]byte, error) {
		gotArgs = args
		return nil, os.WriteFile(prefix+".wav", []byte("RIFF"), 0o644)
	})

	wav, err := client.DownloadAudio(context.Background(), "https://youtu.be/abc", prefix)
	if err != nil {
		t.Fatalf("DownloadAudio: %v", err)
	}
	if wav != prefix+".wav" {
		t.Fatalf("unexpected path %s", wav)
	}
	if i := slices.Index(gotArgs, "--output"); i < 0 || gotArgs[i+1] != prefix+".%(ext)s" {
		t.Fatalf("unexpected output template in %v", gotArgs)
	}
	if i := slices.Index(gotArgs, "--ffmpeg-location"); i < 0 || gotArgs[i+1] != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("expected ffmpeg location in %v", gotArgs)
	}
}

func TestDownloadAudioMissingWav(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "input")
	client := New("yt-dlp", "ffmpeg").WithCommandRunner(func(_ context.Context, _ string, args ...string) ([]byte, error) {
		if slices.Contains(args, "--ffmpeg-location") {
			t.Fatalf("bare ffmpeg name should not be forwarded: %v", args)
		}
		return nil, nil
	})
	if _, err := client.DownloadAudio(context.Background(), "https://youtu.be/abc", prefix); !errors.Is(err, ErrAudioMissing) {
		t.Fatalf("expected ErrAudioMissing, got %v", err)
	}
}

func TestIsYouTubeURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.youtube.com/watch?v=abc", true},
		{"http://youtu.be/abc", true},
		{"https://m.YouTube.com/watch?v=abc", true},
		{"ftp://youtube.com/abc", false},
		{"https://vimeo.com/123", false},
		{"youtube.com/watch?v=abc", false},
		{"", false},
		{"://bad", false},
	}
	for _, tt := range tests {
		if got := IsYouTubeURL(tt.url); got != tt.want {
			t.Errorf("IsYouTubeURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
