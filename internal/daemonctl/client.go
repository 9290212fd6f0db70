// Package daemonctl is the HTTP client the CLI uses to talk to a running
// glossa daemon.
package daemonctl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"glossa/internal/api"
)

// ErrJobNotFound is returned when the daemon does not know a job id.
var ErrJobNotFound = errors.New("job not found")

// Client calls the daemon HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the daemon bound at bind ("host:port" or a URL).
func New(bind string) *Client {
	base := strings.TrimRight(strings.TrimSpace(bind), "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &Client{baseURL: base, http: &http.Client{Timeout: 5 * time.Minute}}
}

// WithHTTPClient swaps the underlying HTTP client.
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.http = client
	return c
}

// BaseURL returns the daemon root URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SubmitOptions are the job fields sent with a submission.
type SubmitOptions struct {
	Mode            string
	Text            string
	FilePath        string
	YouTubeURL      string
	PreferCaptions  *bool
	CaptionLanguage string
	MaxDurationSec  *int
	SpokenLanguage  string
	SignedLanguage  string
	Glosser         string
	Avatar          string
	Lexicon         string
}

// Submit creates a job and returns its queued view.
func (c *Client) Submit(ctx context.Context, opts SubmitOptions) (api.Job, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := []struct{ key, value string }{
		{"mode", opts.Mode},
		{"text", opts.Text},
		{"youtube_url", opts.YouTubeURL},
		{"caption_language", opts.CaptionLanguage},
		{"spoken_language", opts.SpokenLanguage},
		{"signed_language", opts.SignedLanguage},
		{"glosser", opts.Glosser},
		{"avatar_type", opts.Avatar},
		{"lexicon", opts.Lexicon},
	}
	if opts.PreferCaptions != nil {
		fields = append(fields, struct{ key, value string }{"prefer_captions", strconv.FormatBool(*opts.PreferCaptions)})
	}
	if opts.MaxDurationSec != nil {
		fields = append(fields, struct{ key, value string }{"max_duration_sec", strconv.Itoa(*opts.MaxDurationSec)})
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := mw.WriteField(f.key, f.value); err != nil {
			return api.Job{}, err
		}
	}
	if opts.FilePath != "" {
		if err := attachFile(mw, "file", opts.FilePath); err != nil {
			return api.Job{}, err
		}
	}
	if err := mw.Close(); err != nil {
		return api.Job{}, err
	}

	var job api.Job
	err := c.do(ctx, http.MethodPost, "/api/jobs", mw.FormDataContentType(), &body, &job)
	return job, err
}

// Job fetches the current view of a job.
func (c *Client) Job(ctx context.Context, id string) (api.Job, error) {
	var job api.Job
	err := c.do(ctx, http.MethodGet, "/api/jobs/"+url.PathEscape(id), "", nil, &job)
	return job, err
}

// Jobs lists every job known to the daemon.
func (c *Client) Jobs(ctx context.Context) ([]api.Job, error) {
	var out []api.Job
	err := c.do(ctx, http.MethodGet, "/api/jobs", "", nil, &out)
	return out, err
}

// WaitForJob polls until the job is completed or failed. onUpdate, when
// set, sees every polled view.
func (c *Client) WaitForJob(ctx context.Context, id string, interval time.Duration, onUpdate func(api.Job)) (api.Job, error) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		job, err := c.Job(ctx, id)
		if err != nil {
			return api.Job{}, err
		}
		if onUpdate != nil {
			onUpdate(job)
		}
		if job.Status == "completed" || job.Status == "failed" {
			return job, nil
		}
		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Status fetches the daemon status report.
func (c *Client) Status(ctx context.Context) (api.DaemonStatus, error) {
	var status api.DaemonStatus
	err := c.do(ctx, http.MethodGet, "/api/status", "", nil, &status)
	return status, err
}

// Health reports whether the daemon answers its liveness probe.
func (c *Client) Health(ctx context.Context) error {
	var resp api.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/api/health", "", nil, &resp); err != nil {
		return err
	}
	if !resp.OK {
		return errors.New("daemon reported unhealthy")
	}
	return nil
}

// Recognize uploads an image for hand-shape recognition.
func (c *Client) Recognize(ctx context.Context, imagePath string) (api.Recognition, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := attachFile(mw, "file", imagePath); err != nil {
		return api.Recognition{}, err
	}
	if err := mw.Close(); err != nil {
		return api.Recognition{}, err
	}
	var out api.Recognition
	err := c.do(ctx, http.MethodPost, "/api/recognize", mw.FormDataContentType(), &body, &out)
	return out, err
}

// Download copies a job artifact URL path (e.g. /files/<id>/output.mp4) to dest.
func (c *Client) Download(ctx context.Context, artifactPath, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+artifactPath, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return wrapDialError(err, c.baseURL)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: status %d", artifactPath, resp.StatusCode)
	}
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return wrapDialError(err, c.baseURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr api.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if resp.StatusCode == http.StatusNotFound && apiErr.Error == ErrJobNotFound.Error() {
			return ErrJobNotFound
		}
		if apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("daemon: %s", apiErr.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func attachFile(mw *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	fw, err := mw.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(fw, f)
	return err
}

func wrapDialError(err error, base string) error {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return fmt.Errorf("connect to daemon: %s refused the connection; start it with `glossa serve`", base)
	}
	return fmt.Errorf("connect to daemon: %w", err)
}
