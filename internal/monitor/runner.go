package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"skywatch/internal/config"
	"skywatch/internal/feed"
	"skywatch/internal/ledger"
	"skywatch/internal/logging"
	"skywatch/internal/notify"
)

// CutoutResolver produces a local image artifact for an announced transient.
// Implementations are optional; a nil resolver disables cutout attachment.
type CutoutResolver interface {
	CutoutPath(ctx context.Context, transientID string, ra, dec float64) (string, error)
}

// Result summarizes one ingestion run.
type Result struct {
	RunID       string
	Bootstrap   bool
	FeedRows    int
	Announced   int
	Recorded    int
	CompletedAt time.Time
}

// Runner executes ingestion runs: read the feed, deduplicate against the
// ledger, announce the selected batch, and persist the outcome.
type Runner struct {
	cfg      *config.Config
	store    *ledger.Store
	notifier notify.Service
	logger   *slog.Logger

	// mu serializes whole runs. The dedup cycle reads the ledger, announces,
	// and then appends; an overlapping run would see the same detections as
	// unprocessed and announce them twice.
	mu sync.Mutex

	// Now supplies the current time and exists so tests can pin the
	// bootstrap window. Defaults to time.Now.
	Now func() time.Time
	// Cutouts optionally resolves a cutout image per announcement.
	Cutouts CutoutResolver
}

// New builds a Runner over the given stores and notification service.
func New(cfg *config.Config, store *ledger.Store, notifier notify.Service, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		cfg:      cfg,
		store:    store,
		notifier: notifier,
		logger:   logger.With(logging.String(logging.FieldComponent, "monitor")),
		Now:      time.Now,
	}
}

// Run performs a single ingestion run. Concurrent calls are serialized so an
// on-demand trigger cannot interleave with a scheduled poll. Any failure
// before the ledger commit leaves the ledger and the last-check watermark
// untouched, and produces exactly one failure notification.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runID := uuid.NewString()
	logger := r.logger.With(logging.String(logging.FieldRunID, runID))
	now := r.Now().UTC()

	detections, err := feed.ReadFile(r.cfg.Paths.FeedPath)
	if err != nil {
		return Result{RunID: runID}, r.fail(ctx, logger, "detection feed", err)
	}

	keys, err := r.store.Keys(ctx)
	if err != nil {
		return Result{RunID: runID}, r.fail(ctx, logger, "processed ledger", err)
	}

	window := time.Duration(r.cfg.Monitor.BootstrapWindowDays) * 24 * time.Hour
	sel := SelectNew(detections, keys, now, r.cfg.Monitor.BatchSize, window)
	logger.Info("ingestion run selected detections",
		logging.Bool("bootstrap", sel.Bootstrap),
		logging.Int("feed_rows", len(detections)),
		logging.Int("announce", len(sel.Announce)),
		logging.Int("backlog", len(sel.Backlog)))

	for _, d := range sel.Announce {
		announcement := notify.AnnouncementFromDetection(d)
		if r.Cutouts != nil {
			path, cutErr := r.Cutouts.CutoutPath(ctx, announcement.TransientID, announcement.RA, announcement.Dec)
			if cutErr != nil {
				logger.Warn("cutout generation failed",
					logging.String(logging.FieldTransientID, announcement.TransientID),
					logging.Error(cutErr))
			} else {
				announcement.CutoutPath = path
			}
		}
		if err := r.notifier.AnnounceDetection(ctx, announcement); err != nil {
			return Result{RunID: runID}, r.fail(ctx, logger, "announcement delivery", err)
		}
		logger.Info("announced transient",
			logging.String(logging.FieldTransientID, announcement.TransientID))
	}

	entries := make([]ledger.Entry, 0, len(sel.Announce)+len(sel.Backlog))
	for _, d := range sel.Announce {
		entries = append(entries, ledger.EntryFromDetection(d, now))
	}
	for _, d := range sel.Backlog {
		entries = append(entries, ledger.EntryFromDetection(d, now))
	}
	if err := r.store.Append(ctx, entries); err != nil {
		return Result{RunID: runID}, r.fail(ctx, logger, "ledger append", err)
	}

	if err := SaveLastCheck(r.cfg.Paths.DataDir, now); err != nil {
		logger.Warn("watermark update failed", logging.Error(err))
	}

	if sel.Bootstrap && len(sel.Backlog) > 0 {
		if err := r.notifier.NotifyBootstrapRecorded(ctx, len(sel.Backlog)); err != nil {
			logger.Warn("bootstrap summary notification failed", logging.Error(err))
		}
	}

	result := Result{
		RunID:       runID,
		Bootstrap:   sel.Bootstrap,
		FeedRows:    len(detections),
		Announced:   len(sel.Announce),
		Recorded:    len(entries),
		CompletedAt: now,
	}
	logger.Info("ingestion run complete",
		logging.Int("announced", result.Announced),
		logging.Int("recorded", result.Recorded))
	return result, nil
}

// fail logs the error and emits the single per-run failure notification.
func (r *Runner) fail(ctx context.Context, logger *slog.Logger, label string, err error) error {
	logger.Error("ingestion run failed",
		logging.String("stage", label),
		logging.Error(err))
	if notifyErr := r.notifier.NotifyRunFailed(ctx, err, label); notifyErr != nil {
		logger.Warn("failure notification not delivered", logging.Error(notifyErr))
	}
	return fmt.Errorf("%s: %w", label, err)
}
