package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"glossa/internal/api"
	"glossa/internal/config"
	"glossa/internal/deps"
	"glossa/internal/logging"
)

// LockFileName is created in the runs directory while a daemon runs.
const LockFileName = "glossad.lock"

// Daemon serves the HTTP API and enforces single-instance execution.
type Daemon struct {
	cfg         *config.Config
	logger      *slog.Logger
	jobs        *api.JobService
	recognition *api.RecognitionService
	server      *apiServer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	RunsDir      string
	LockFilePath string
	Jobs         map[string]int
	TotalJobs    int
	Dependencies []deps.Status
}

// New constructs a daemon. recognition may be nil when no classifier is
// configured.
func New(cfg *config.Config, jobs *api.JobService, recognition *api.RecognitionService, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || jobs == nil {
		return nil, errors.New("daemon requires config and job service")
	}
	lockPath := filepath.Join(cfg.Paths.RunsDir, LockFileName)
	d := &Daemon{
		cfg:         cfg,
		logger:      logging.NewComponentLogger(logger, "daemon"),
		jobs:        jobs,
		recognition: recognition,
		lockPath:    lockPath,
		lock:        flock.New(lockPath),
	}
	d.server = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the daemon lock and starts the HTTP listener. ctx bounds
// the server lifetime.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}
	if err := os.MkdirAll(d.cfg.Paths.RunsDir, 0o755); err != nil {
		return fmt.Errorf("create runs dir: %w", err)
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another glossa daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.server.start(runCtx); err != nil {
		_ = d.lock.Unlock()
		cancel()
		return err
	}
	d.cancel = cancel
	d.running.Store(true)
	d.logger.Info("glossa daemon started",
		logging.String(logging.FieldEventType, "daemon_start"),
		logging.String("lock", d.lockPath),
		logging.String("address", d.server.address()),
	)
	return nil
}

// Stop shuts down the listener and releases the daemon lock. Running jobs
// are not waited for.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.server.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("glossa daemon stopped", logging.String(logging.FieldEventType, "daemon_stop"))
}

// Address returns the bound listener address, or "" when stopped.
func (d *Daemon) Address() string {
	return d.server.address()
}

// Handler exposes the HTTP routes without a listener.
func (d *Daemon) Handler() http.Handler {
	return d.server.handler
}

// Status returns the current daemon status.
func (d *Daemon) Status(context.Context) Status {
	counts, total := d.jobs.Counts()
	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		RunsDir:      d.cfg.Paths.RunsDir,
		LockFilePath: d.lockPath,
		Jobs:         counts,
		TotalJobs:    total,
		Dependencies: deps.CheckBinaries(deps.Requirements(d.cfg)),
	}
}
