package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"glossa/internal/api"
	"glossa/internal/captions"
	"glossa/internal/classifier"
	"glossa/internal/config"
	"glossa/internal/daemon"
	"glossa/internal/deps"
	"glossa/internal/gloss"
	"glossa/internal/jobs"
	"glossa/internal/logging"
	"glossa/internal/observability"
	"glossa/internal/pipeline"
	"glossa/internal/pose"
	"glossa/internal/render"
	"glossa/internal/rescache"
	"glossa/internal/services/ffmpeg"
	"glossa/internal/services/whisper"
	"glossa/internal/services/ytdlp"
	"glossa/internal/stage"
)

// PIDFileName is written to the runs directory while the daemon holds its lock.
const PIDFileName = "glossa.pid"

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel    string
	Development bool
}

// Caches holds the process-wide lazily built resources, one cache per
// resource kind.
type Caches struct {
	Transcribers *rescache.Cache[string, *whisper.Service]
	Lookups      *rescache.Cache[string, *pose.Lookup]
	Classifiers  *rescache.Cache[string, *classifier.Model]
}

// NewCaches returns empty caches.
func NewCaches() *Caches {
	return &Caches{
		Transcribers: rescache.New[string, *whisper.Service]("transcriber"),
		Lookups:      rescache.New[string, *pose.Lookup]("pose-lookup"),
		Classifiers:  rescache.New[string, *classifier.Model]("classifier"),
	}
}

// Close releases cached lookup tables.
func (c *Caches) Close() {
	for _, key := range c.Lookups.Keys() {
		if lookup, ok := c.Lookups.Get(key); ok {
			_ = lookup.Close()
		}
	}
}

// BuildStages wires the external collaborators described by cfg.
func BuildStages(cfg *config.Config, caches *Caches, logger *slog.Logger) (*stage.Stages, *gloss.Registry) {
	glossers := gloss.NewDefaultRegistry(cfg.Gloss.HelperCommand)
	downloader := ytdlp.New(cfg.YouTube.YtDlpBinary, cfg.Media.FFmpegBinary)
	return &stage.Stages{
		Extractor: ffmpeg.New(cfg.Media.FFmpegBinary),
		Transcriber: whisper.NewTranscriber(whisper.Config{
			Binary:   cfg.Transcription.WhisperBinary,
			Model:    cfg.Transcription.Model,
			ModelDir: cfg.Transcription.ModelDir,
		}, caches.Transcribers),
		Glossers: glossers,
		Poses:    pose.NewBuilder(cfg.Pose.ConcatCommand, cfg.Pose.Fingerspelling, caches.Lookups, logger),
		Renderer: render.New(cfg.Render.Command, render.Options{
			Width:  cfg.Render.Width,
			Height: cfg.Render.Height,
			FPS:    cfg.Render.FPS,
		}),
		Metadata:   downloader,
		Downloader: downloader,
		Captions: captions.NewResolver(
			captions.WithTimeout(time.Duration(cfg.YouTube.CaptionTimeoutSeconds)*time.Second),
			captions.WithUserAgent(cfg.YouTube.UserAgent),
			captions.WithLogger(logger),
		),
		Logger: logger,
	}, glossers
}

// BuildServices wires the registry, executor, and API services. Jobs run
// under ctx.
func BuildServices(ctx context.Context, cfg *config.Config, caches *Caches, logger *slog.Logger) (*api.JobService, *api.RecognitionService, error) {
	registry := jobs.NewRegistry()
	stages, glossers := BuildStages(cfg, caches, logger)
	executor := pipeline.NewExecutor(registry, stages, logger)

	jobSvc, err := api.NewJobService(api.JobServiceOptions{
		Config:      cfg,
		Registry:    registry,
		Runner:      executor,
		Glossers:    glossers,
		Logger:      logger,
		BaseContext: ctx,
	})
	if err != nil {
		return nil, nil, err
	}

	classifierSvc := classifier.NewService(classifier.Config{
		Command:    cfg.Classifier.Command,
		ModelPath:  cfg.Classifier.ModelPath,
		ImageSize:  cfg.Classifier.ImageSize,
		ClassNames: cfg.Classifier.ClassNames,
	}, caches.Classifiers)
	recognition := api.NewRecognitionService(classifierSvc, "")
	return jobSvc, recognition, nil
}

// Run starts the glossa daemon and blocks until SIGINT or SIGTERM.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	level := opts.LogLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	logger, err := logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", filepath.Join(cfg.Paths.LogDir, "glossa.log")},
		Development: opts.Development,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	shutdownTracing, err := observability.InitTracing(signalCtx, cfg.Tracing, "glossa")
	if err != nil {
		logging.WarnWithContext(logger, "tracing disabled", "tracing_init_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check [tracing] exporter and endpoint"),
		)
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		_ = shutdownTracing(flushCtx)
	}()

	logDependencySnapshot(logger, cfg)

	caches := NewCaches()
	jobSvc, recognition, err := BuildServices(signalCtx, cfg, caches, logger)
	if err != nil {
		caches.Close()
		return fmt.Errorf("build services: %w", err)
	}
	defer drain(jobSvc, caches)

	d, err := daemon.New(cfg, jobSvc, recognition, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	if err := d.Start(signalCtx); err != nil {
		return err
	}
	defer d.Stop()

	// Only the lock holder owns the pid file.
	pidPath := filepath.Join(cfg.Paths.RunsDir, PIDFileName)
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	<-signalCtx.Done()
	logger.Info("glossa daemon shutting down", logging.String(logging.FieldEventType, "daemon_shutdown"))
	return nil
}

// drain waits for running jobs before closing the caches they read from.
func drain(jobSvc *api.JobService, caches *Caches) {
	jobSvc.Wait()
	caches.Close()
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

func logDependencySnapshot(logger *slog.Logger, cfg *config.Config) {
	statuses := deps.CheckBinaries(deps.Requirements(cfg))
	attrs := []logging.Attr{logging.String(logging.FieldEventType, "dependency_snapshot")}
	for _, s := range statuses {
		attrs = append(attrs, logging.Bool(s.Name+"_available", s.Available))
	}
	logger.Info("dependency snapshot", logging.Args(attrs...)...)
	for _, missing := range deps.MissingRequired(statuses) {
		logging.WarnWithContext(logger, "required dependency missing", "dependency_missing",
			logging.String("dependency", missing.Name),
			logging.String("command", missing.Command),
			logging.String(logging.FieldErrorHint, missing.Description),
		)
	}
}
