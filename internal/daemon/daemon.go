package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"skywatch/internal/config"
	"skywatch/internal/ledger"
	"skywatch/internal/logging"
	"skywatch/internal/monitor"
	"skywatch/internal/notify"
	"skywatch/internal/preflight"
	"skywatch/internal/votes"
)

// Daemon coordinates the poll loop and the API server and enforces
// single-instance execution through a file lock.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	ledger   *ledger.Store
	votes    *votes.Store
	runner   *monitor.Runner
	notifier notify.Service

	lockPath string
	lock     *flock.Flock
	api      *apiServer

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu         sync.Mutex
	lastRun    *monitor.Result
	lastRunErr string
}

// Status represents daemon runtime information.
type Status struct {
	Running       bool
	PID           int
	LedgerDBPath  string
	VotingDBPath  string
	LockFilePath  string
	LedgerEntries int
	LastRun       *monitor.Result
	LastRunError  string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, ledgerStore *ledger.Store, votesStore *votes.Store, notifier notify.Service, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || ledgerStore == nil || votesStore == nil || notifier == nil {
		return nil, errors.New("daemon requires config, stores, and notifier")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "skywatchd.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		ledger:   ledgerStore,
		votes:    votesStore,
		runner:   monitor.New(cfg, ledgerStore, notifier, logger),
		notifier: notifier,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}

	srv, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = srv
	return d, nil
}

// Start acquires the daemon lock, runs preflight checks, starts the API
// server, and launches the poll loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another skywatch daemon instance is already running")
	}

	for _, result := range preflight.RunAll(ctx, d.cfg) {
		if result.Passed {
			d.logger.Debug("preflight check passed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail))
			continue
		}
		d.logger.Warn("preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail))
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.api.start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start api server: %w", err)
	}

	d.wg.Add(1)
	go d.pollLoop(d.ctx)

	d.running.Store(true)
	d.logger.Info("skywatch daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("skywatch daemon stopped")
}

// Close releases resources held by the daemon, including both stores.
func (d *Daemon) Close() error {
	d.Stop()
	var errs []error
	if d.ledger != nil {
		errs = append(errs, d.ledger.Close())
	}
	if d.votes != nil {
		errs = append(errs, d.votes.Close())
	}
	return errors.Join(errs...)
}

// pollLoop executes an immediate ingestion run and then repeats on the
// configured interval until the context is canceled.
func (d *Daemon) pollLoop(ctx context.Context) {
	defer d.wg.Done()

	interval := time.Duration(d.cfg.Monitor.PollIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = time.Hour
	}

	d.runOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.runOnce(ctx)
		}
	}
}

func (d *Daemon) runOnce(ctx context.Context) {
	result, err := d.runner.Run(ctx)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastRun = &result
	if err != nil {
		d.lastRunErr = err.Error()
		return
	}
	d.lastRunErr = ""
}

// TriggerRun performs an on-demand ingestion run outside the poll schedule.
func (d *Daemon) TriggerRun(ctx context.Context) (monitor.Result, error) {
	result, err := d.runner.Run(ctx)
	d.mu.Lock()
	d.lastRun = &result
	if err != nil {
		d.lastRunErr = err.Error()
	} else {
		d.lastRunErr = ""
	}
	d.mu.Unlock()
	return result, err
}

// APIAddr returns the bound API address, or an empty string when the API
// server is disabled or not started.
func (d *Daemon) APIAddr() string {
	return d.api.addr()
}

// LedgerCount returns the number of processed-ledger entries.
func (d *Daemon) LedgerCount(ctx context.Context) (int, error) {
	return d.ledger.Count(ctx)
}

// VoteStore exposes the voting store for the API service layer.
func (d *Daemon) VoteStore() *votes.Store {
	return d.votes
}

// TestNotification triggers a test notification using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) error {
	return d.notifier.TestNotification(ctx)
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	count, err := d.ledger.Count(ctx)
	if err != nil {
		d.logger.Warn("ledger count failed", logging.Error(err))
	}

	d.mu.Lock()
	lastRun := d.lastRun
	lastErr := d.lastRunErr
	d.mu.Unlock()

	return Status{
		Running:       d.running.Load(),
		PID:           os.Getpid(),
		LedgerDBPath:  d.ledger.Path(),
		VotingDBPath:  d.votes.Path(),
		LockFilePath:  d.lockPath,
		LedgerEntries: count,
		LastRun:       lastRun,
		LastRunError:  lastErr,
	}
}
