package captions

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"glossa/internal/logging"
)

const (
	// SourceSubtitles marks text taken from uploaded subtitles.
	SourceSubtitles = "subtitles"
	// SourceAutomatic marks text taken from automatic captions.
	SourceAutomatic = "automatic"

	defaultTimeout   = 20 * time.Second
	defaultUserAgent = "Mozilla/5.0"
	maxPayloadBytes  = 8 << 20
)

// Result describes the caption text that was found.
type Result struct {
	Source   string
	Language string
	Format   string
	Text     string
}

// Resolver downloads caption tracks listed in video metadata.
type Resolver struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

// Option customises a Resolver.
type Option func(*Resolver)

// WithHTTPClient overrides the HTTP client used to fetch tracks.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) {
		if client != nil {
			r.client = client
		}
	}
}

// WithTimeout sets the per-request fetch timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Resolver) {
		if timeout > 0 {
			r.client = &http.Client{Timeout: timeout, Transport: r.client.Transport}
		}
	}
}

// WithUserAgent sets the User-Agent header sent with fetches.
func WithUserAgent(agent string) Option {
	return func(r *Resolver) {
		if strings.TrimSpace(agent) != "" {
			r.userAgent = strings.TrimSpace(agent)
		}
	}
}

// WithLogger attaches a logger for skipped-track diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver constructs a Resolver with a 20 second timeout and a browser
// User-Agent unless overridden.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		client:    &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "captions")
	return r
}

// Resolve tries uploaded subtitles, then automatic captions, and returns the
// first track that yields non-empty text. Missing URLs, fetch failures, and
// empty payloads are skipped; the bool is false when nothing usable exists.
func (r *Resolver) Resolve(ctx context.Context, meta VideoMetadata, preferred string) (Result, bool) {
	sources := []struct {
		name    string
		catalog *Catalog
	}{
		{SourceSubtitles, &meta.Subtitles},
		{SourceAutomatic, &meta.AutomaticCaptions},
	}
	logger := logging.WithContext(ctx, r.logger)

	for _, source := range sources {
		lang, ok := SelectLanguage(source.catalog, preferred)
		if !ok {
			continue
		}
		track, ok := SelectTrack(source.catalog.Tracks(lang))
		if !ok {
			continue
		}
		if strings.TrimSpace(track.URL) == "" {
			logger.Debug("caption track has no url", logging.String("source", source.name), logging.String("language", lang))
			continue
		}
		payload, err := r.fetch(ctx, track.URL)
		if err != nil {
			logger.Debug("caption fetch failed",
				logging.String("source", source.name),
				logging.String("language", lang),
				logging.Error(err),
			)
			continue
		}
		text := PayloadToText(payload)
		if text == "" {
			logger.Debug("caption track empty", logging.String("source", source.name), logging.String("language", lang))
			continue
		}
		logger.Info("captions resolved",
			logging.String(logging.FieldEventType, "captions_resolved"),
			logging.String("source", source.name),
			logging.String("language", lang),
			logging.String("format", track.Ext),
			logging.Int("chars", len(text)),
		)
		return Result{Source: source.name, Language: lang, Format: track.Ext, Text: text}, true
	}
	return Result{}, false
}

func (r *Resolver) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return strings.ToValidUTF8(string(body), ""), nil
}
