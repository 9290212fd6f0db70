package daemonctl

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"glossa/internal/api"
)

func TestSubmitSendsMultipartFields(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		got = map[string]string{
			"mode":            r.FormValue("mode"),
			"prefer_captions": r.FormValue("prefer_captions"),
			"youtube_url":     r.FormValue("youtube_url"),
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("expected file: %v", err)
		}
		json.NewEncoder(w).Encode(api.Job{ID: "abc", Status: "queued"})
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte("video"), 0o644); err != nil {
		t.Fatal(err)
	}
	prefer := false
	job, err := New(srv.URL).Submit(context.Background(), SubmitOptions{
		Mode: "video", FilePath: path, PreferCaptions: &prefer,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if job.ID != "abc" || got["mode"] != "video" || got["prefer_captions"] != "false" || got["youtube_url"] != "" {
		t.Fatalf("unexpected job %+v / fields %v", job, got)
	}
}

func TestJobNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(api.ErrorResponse{Error: "job not found"})
	}))
	defer srv.Close()

	if _, err := New(srv.URL).Job(context.Background(), "nope"); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestWaitForJobPollsUntilTerminal(t *testing.T) {
	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := "running"
		if polls.Add(1) >= 3 {
			status = "completed"
		}
		json.NewEncoder(w).Encode(api.Job{ID: "abc", Status: status})
	}))
	defer srv.Close()

	var seen int
	job, err := New(srv.URL).WaitForJob(context.Background(), "abc", time.Millisecond, func(api.Job) { seen++ })
	if err != nil {
		t.Fatalf("WaitForJob: %v", err)
	}
	if job.Status != "completed" || seen != 3 {
		t.Fatalf("status=%s seen=%d", job.Status, seen)
	}
}

func TestNewAddsScheme(t *testing.T) {
	if got := New("127.0.0.1:7860").BaseURL(); got != "http://127.0.0.1:7860" {
		t.Fatalf("BaseURL = %q", got)
	}
	if got := New("https://glossa.local/").BaseURL(); got != "https://glossa.local" {
		t.Fatalf("BaseURL = %q", got)
	}
}
