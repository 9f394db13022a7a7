// Package daemon wires configuration, the remote lister, the correction
// pipeline runner, and the durable stores into a single-instance
// long-running service.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gofrs/flock"

	"cardwatch/internal/config"
	"cardwatch/internal/history"
	"cardwatch/internal/journal"
	"cardwatch/internal/logging"
	"cardwatch/internal/monitor"
	"cardwatch/internal/pipeline"
	"cardwatch/internal/remote"
)

// newLister builds the remote listing client. Swapped in tests to avoid
// touching the Drive API.
var newLister = func(ctx context.Context, cfg config.Remote, logger *slog.Logger) (remote.Lister, error) {
	return remote.NewDriveLister(ctx, cfg, logger)
}

// Daemon owns the monitor lifecycle and enforces single-instance execution
// through a file lock in the data directory.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	history *history.Store
	journal *journal.Store
	monitor *monitor.Monitor

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
}

// Status reports daemon runtime information for the CLI.
type Status struct {
	Running        bool
	HistoryPath    string
	JournalPath    string
	LockFilePath   string
	ProcessedCards int
	ChecksRun      int
}

// New constructs a daemon with all collaborators initialized. The remote
// client is not built until Run, so construction works offline.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires configuration")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	hist := history.Open(cfg.HistoryPath(), logger)
	jrnl, err := journal.Open(cfg.JournalPath())
	if err != nil {
		return nil, fmt.Errorf("open cycle journal: %w", err)
	}

	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		history:  hist,
		journal:  jrnl,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Run acquires the instance lock, builds the remote client, and drives the
// monitor until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.acquireLock(); err != nil {
		return err
	}
	defer d.releaseLock()

	lister, err := newLister(ctx, d.cfg.Remote, d.logger)
	if err != nil {
		return fmt.Errorf("initialize remote client: %w", err)
	}

	runner := pipeline.NewRunner(d.cfg.Pipeline, d.logger)
	d.monitor = monitor.New(d.cfg, lister, runner, d.history, d.journal, d.logger)

	d.running.Store(true)
	defer d.running.Store(false)

	d.logger.Info("daemon started", logging.String("lock", d.lockPath))
	return d.monitor.Run(ctx)
}

// RunOnce executes a single cycle instead of the polling loop. Used by the
// CLI's one-shot mode; the instance lock is still held for the duration.
func (d *Daemon) RunOnce(ctx context.Context) error {
	if err := d.acquireLock(); err != nil {
		return err
	}
	defer d.releaseLock()

	lister, err := newLister(ctx, d.cfg.Remote, d.logger)
	if err != nil {
		return fmt.Errorf("initialize remote client: %w", err)
	}

	runner := pipeline.NewRunner(d.cfg.Pipeline, d.logger)
	d.monitor = monitor.New(d.cfg, lister, runner, d.history, d.journal, d.logger)
	return d.monitor.RunOnce(ctx)
}

func (d *Daemon) acquireLock() error {
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", d.lockPath, err)
	}
	if !ok {
		return fmt.Errorf("another cardwatch instance already holds %s", d.lockPath)
	}
	return nil
}

func (d *Daemon) releaseLock() {
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release instance lock", logging.Error(err))
	}
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	if d.journal != nil {
		return d.journal.Close()
	}
	return nil
}

// Status returns current runtime information.
func (d *Daemon) Status() Status {
	return Status{
		Running:        d.running.Load(),
		HistoryPath:    d.cfg.HistoryPath(),
		JournalPath:    d.cfg.JournalPath(),
		LockFilePath:   d.lockPath,
		ProcessedCards: d.history.Count(),
		ChecksRun:      d.history.CheckCount(),
	}
}
