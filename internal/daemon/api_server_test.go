package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"glossa/internal/api"
	"glossa/internal/classifier"
	"glossa/internal/config"
	"glossa/internal/gloss"
	"glossa/internal/jobs"
	"glossa/internal/logging"
	"glossa/internal/pipeline"
	"glossa/internal/testsupport"
)

type completingRunner struct {
	registry *jobs.Registry
}

func (r completingRunner) Run(_ context.Context, req pipeline.Request) error {
	done := jobs.StatusCompleted
	r.registry.Merge(req.JobID, jobs.Patch{Status: &done, Result: &jobs.Result{
		Text:  req.Text,
		Files: jobs.Files{Pose: pipeline.FileURL(req.JobID, pipeline.PoseFile)},
	}})
	return os.WriteFile(filepath.Join(req.JobDir, pipeline.PoseFile), []byte("pose"), 0o644)
}

type stubRecognizer struct{}

func (stubRecognizer) Recognize(context.Context, string) (classifier.Prediction, error) {
	return classifier.Prediction{Label: "B", Confidence: 0.7, Top3: []classifier.Score{{Label: "B", Score: 0.7}}}, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *api.JobService, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	registry := jobs.NewRegistry()
	svc, err := api.NewJobService(api.JobServiceOptions{
		Config:   cfg,
		Registry: registry,
		Runner:   completingRunner{registry: registry},
		Glossers: gloss.NewDefaultRegistry(""),
		Logger:   logging.NewNop(),
	})
	if err != nil {
		t.Fatalf("NewJobService: %v", err)
	}
	d, err := New(cfg, svc, api.NewRecognitionService(stubRecognizer{}, t.TempDir()), logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	srv := httptest.NewServer(d.Handler())
	t.Cleanup(srv.Close)
	return srv, svc, cfg
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestSubmitAndPollJob(t *testing.T) {
	srv, svc, _ := newTestServer(t)

	resp, err := http.PostForm(srv.URL+"/api/jobs", url.Values{"mode": {"text"}, "text": {"Bonjour"}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit status %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}
	queued := decode[api.Job](t, resp)
	if queued.Status != "queued" || queued.ID == "" {
		t.Fatalf("unexpected queued job %+v", queued)
	}
	svc.Wait()

	resp, err = http.Get(srv.URL + "/api/jobs/" + queued.ID)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	job := decode[api.Job](t, resp)
	if job.Status != "completed" || job.Result == nil || job.Result.Text != "Bonjour" {
		t.Fatalf("unexpected job %+v", job)
	}

	resp, err = http.Get(srv.URL + job.Result.Files.Pose)
	if err != nil {
		t.Fatalf("fetch artifact: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("artifact status %d", resp.StatusCode)
	}
}

func TestSubmitValidationError(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp, err := http.PostForm(srv.URL+"/api/jobs", url.Values{"mode": {"youtube"}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	body := decode[api.ErrorResponse](t, resp)
	if body.Error != "YouTube URL is required for youtube mode." {
		t.Fatalf("unexpected error %q", body.Error)
	}
}

func TestSubmitMultipartUpload(t *testing.T) {
	srv, svc, cfg := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("mode", "audio")
	_ = mw.WriteField("prefer_captions", "false")
	fw, err := mw.CreateFormFile("file", "speech.wav")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("RIFF"))
	mw.Close()

	resp, err := http.Post(srv.URL+"/api/jobs", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	job := decode[api.Job](t, resp)
	svc.Wait()
	if _, err := os.Stat(filepath.Join(cfg.JobDir(job.ID), "input.wav")); err != nil {
		t.Fatalf("upload not stored: %v", err)
	}
}

func TestListJobsEmptyIsArray(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/jobs")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if got := strings.TrimSpace(string(body)); got != "[]" {
		t.Fatalf("expected empty JSON array, got %q", got)
	}
}

func TestUnknownJobReturns404(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/jobs/nope")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	body := decode[api.ErrorResponse](t, resp)
	if body.Error != "job not found" {
		t.Fatalf("unexpected error %q", body.Error)
	}
}

func TestHealthAndStatus(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	if !decode[api.HealthResponse](t, resp).OK {
		t.Fatal("expected ok")
	}

	resp, err = http.Get(srv.URL + "/api/status")
	if err != nil {
		t.Fatal(err)
	}
	status := decode[api.DaemonStatus](t, resp)
	if len(status.StageHealth) != 5 || len(status.Dependencies) == 0 {
		t.Fatalf("unexpected status %+v", status)
	}
	if _, ok := status.Jobs["queued"]; !ok {
		t.Fatalf("job counts should list every status: %v", status.Jobs)
	}
}

func TestRecognizeEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	post := func(data []byte) *http.Response {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		fw, _ := mw.CreateFormFile("file", "hand.png")
		fw.Write(data)
		mw.Close()
		resp, err := http.Post(srv.URL+"/api/recognize", mw.FormDataContentType(), &body)
		if err != nil {
			t.Fatalf("recognize: %v", err)
		}
		return resp
	}

	resp := post(testsupport.PNG(t))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := decode[api.Recognition](t, resp); got.Label != "B" {
		t.Fatalf("unexpected recognition %+v", got)
	}

	resp = post(nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty file, got %d", resp.StatusCode)
	}
	if msg := decode[api.ErrorResponse](t, resp).Error; !strings.Contains(msg, "Empty file.") {
		t.Fatalf("unexpected error %q", msg)
	}
}
