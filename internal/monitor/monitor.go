// Package monitor drives the ingestion cycle: list the watched folder,
// classify new answer cards, hand the batch to the correction pipeline, and
// commit history only when the pipeline reports success.
//
// The loop is strictly sequential. A cycle runs to completion before the
// next interval starts counting, so slow pipeline runs never overlap, and
// the pipeline invocation is the only long-running suspension point besides
// the sleep between cycles. An item id enters history if and only if a
// pipeline run that included it reported success; failed or timed-out
// batches are simply retried on the next cycle, which yields at-least-once
// processing of every card.
package monitor

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"cardwatch/internal/classify"
	"cardwatch/internal/config"
	"cardwatch/internal/journal"
	"cardwatch/internal/logging"
	"cardwatch/internal/pipeline"
	"cardwatch/internal/remote"
)

// Runner executes the correction pipeline for a batch.
type Runner interface {
	Run(ctx context.Context, folderID string, batch []remote.Item) pipeline.Outcome
}

// History is the durable processed-items record the monitor commits into.
type History interface {
	Processed() map[string]struct{}
	Commit(ids []string) error
	Touch() error
	Flush() error
	Count() int
	CheckCount() int
}

// Journal receives one audit record per completed cycle. Optional.
type Journal interface {
	Append(ctx context.Context, rec journal.Record) error
}

// Monitor owns the polling loop lifecycle.
type Monitor struct {
	folderID  string
	interval  time.Duration
	rules     classify.Rules
	lister    remote.Lister
	runner    Runner
	history   History
	journal   Journal
	logger    *slog.Logger
	sessionID string

	cycle         int64
	committed     int
	runsSucceeded int
	runsFailed    int
}

// New constructs a monitor from configuration and collaborators. journal may
// be nil, in which case no audit rows are written.
func New(cfg *config.Config, lister remote.Lister, runner Runner, history History, jrnl Journal, logger *slog.Logger) *Monitor {
	sessionID := uuid.NewString()
	logger = logging.NewComponentLogger(logger, "monitor").With(
		logging.String(logging.FieldSessionID, sessionID),
	)
	return &Monitor{
		folderID:  cfg.Remote.FolderID,
		interval:  time.Duration(cfg.Monitor.IntervalMinutes) * time.Minute,
		rules:     classify.FromConfig(cfg.Classify),
		lister:    lister,
		runner:    runner,
		history:   history,
		journal:   jrnl,
		logger:    logger,
		sessionID: sessionID,
	}
}

// Run executes cycles until ctx is cancelled. The first cycle fires
// immediately; each subsequent cycle starts one interval after the previous
// cycle finished. Cancellation is the only exit path.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("monitor started",
		logging.String(logging.FieldFolderID, m.folderID),
		logging.Duration("interval", m.interval),
	)

	for {
		m.runCycle(ctx)

		select {
		case <-ctx.Done():
			m.shutdown()
			return nil
		case <-time.After(m.interval):
		}
	}
}

// RunOnce executes exactly one cycle and flushes. Used by the single-shot
// test mode of the CLI.
func (m *Monitor) RunOnce(ctx context.Context) error {
	m.logger.Info("single-shot cycle starting",
		logging.String(logging.FieldFolderID, m.folderID),
	)
	m.runCycle(ctx)
	m.shutdown()
	return nil
}

func (m *Monitor) runCycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	m.cycle++
	started := time.Now()
	logger := m.logger.With(logging.Int64(logging.FieldCycle, m.cycle))

	rec := journal.Record{
		SessionID: m.sessionID,
		Cycle:     m.cycle,
		StartedAt: started,
	}

	listing, err := m.lister.List(ctx, m.folderID)
	if err != nil {
		logger.Warn("remote listing failed; skipping cycle",
			logging.Error(err),
			logging.String(logging.FieldEventType, "remote_listing_failed"),
			logging.String(logging.FieldErrorHint, "check Drive credentials, quota, and connectivity"),
		)
		rec.Outcome = journal.OutcomeRemoteError
		rec.Detail = err.Error()
		m.record(ctx, rec)
		return
	}
	rec.ListingCount = len(listing)

	batch := m.rules.Classify(listing, m.history.Processed())
	rec.BatchSize = len(batch)

	if len(batch) == 0 {
		logger.Info("no new items",
			logging.Int(logging.FieldListingCount, len(listing)),
			logging.Int("processed_total", m.history.Count()),
		)
		if err := m.history.Touch(); err != nil {
			m.warnPersistence(logger, err)
		}
		rec.Outcome = journal.OutcomeEmpty
		m.record(ctx, rec)
		return
	}

	logger.Info("new items discovered",
		logging.Int(logging.FieldBatchSize, len(batch)),
		logging.Int(logging.FieldListingCount, len(listing)),
	)

	outcome := m.runner.Run(ctx, m.folderID, batch)
	rec.ExitCode = outcome.ExitCode
	rec.DurationExceeded = outcome.DurationExceeded

	switch {
	case outcome.Succeeded:
		ids := make([]string, 0, len(batch))
		for _, item := range batch {
			ids = append(ids, item.ID)
		}
		if err := m.history.Commit(ids); err != nil {
			m.warnPersistence(logger, err)
		}
		m.committed += len(ids)
		m.runsSucceeded++
		logger.Info("pipeline run succeeded",
			logging.Int(logging.FieldBatchSize, len(batch)),
			logging.Duration("pipeline_duration", outcome.Duration),
			logging.String("stdout_tail", strings.Join(outcome.StdoutTail, " | ")),
		)
		rec.Outcome = journal.OutcomeSuccess

	case outcome.DurationExceeded:
		m.runsFailed++
		logger.Error("pipeline run timed out; batch stays unprocessed for retry",
			logging.String(logging.FieldEventType, "pipeline_timeout"),
			logging.Duration("pipeline_duration", outcome.Duration),
			logging.Int(logging.FieldBatchSize, len(batch)),
			logging.String(logging.FieldErrorHint, "inspect pipeline logs or raise pipeline.timeout_seconds"),
		)
		rec.Outcome = journal.OutcomeTimeout
		rec.Detail = "pipeline exceeded timeout"

	default:
		m.runsFailed++
		logger.Error("pipeline run failed; batch stays unprocessed for retry",
			logging.String(logging.FieldEventType, "pipeline_failed"),
			logging.Int(logging.FieldExitCode, outcome.ExitCode),
			logging.Int(logging.FieldBatchSize, len(batch)),
			logging.String("stderr_tail", strings.Join(outcome.StderrTail, " | ")),
		)
		rec.Outcome = journal.OutcomePipelineFailed
		rec.Detail = strings.Join(outcome.StderrTail, "\n")
	}

	m.record(ctx, rec)
}

// record appends the cycle to the journal. Uses a cancellation-free context
// so rows still land during shutdown.
func (m *Monitor) record(ctx context.Context, rec journal.Record) {
	if m.journal == nil {
		return
	}
	rec.FinishedAt = time.Now()
	if err := m.journal.Append(context.WithoutCancel(ctx), rec); err != nil {
		m.logger.Warn("journal append failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "journal_append_failed"),
			logging.String(logging.FieldErrorHint, "check journal database access"),
		)
	}
}

func (m *Monitor) warnPersistence(logger *slog.Logger, err error) {
	logger.Warn("history write failed; in-memory state remains authoritative",
		logging.Error(err),
		logging.String(logging.FieldEventType, "history_write_failed"),
		logging.String(logging.FieldErrorHint, "check disk space and permissions on the data directory"),
	)
}

// shutdown flushes history exactly once and logs final counters.
func (m *Monitor) shutdown() {
	if err := m.history.Flush(); err != nil {
		m.warnPersistence(m.logger, err)
	}
	m.logger.Info("monitor stopped",
		logging.Int64("cycles", m.cycle),
		logging.Int("items_committed", m.committed),
		logging.Int("runs_succeeded", m.runsSucceeded),
		logging.Int("runs_failed", m.runsFailed),
		logging.Int("processed_total", m.history.Count()),
	)
}
