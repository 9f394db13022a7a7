// Package journal persists a per-cycle audit trail in SQLite.
//
// One row is appended for every completed monitor cycle regardless of
// outcome, giving operators a queryable record alongside the log stream.
// The journal is strictly additive bookkeeping: losing a row never affects
// the dedup guarantees, which live in the history store.
package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped on schema changes; a mismatched database must be
// deleted to adopt the new layout.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("journal schema version mismatch")

// Outcome classifies how a cycle ended.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeEmpty          Outcome = "empty"
	OutcomeRemoteError    Outcome = "remote_error"
	OutcomePipelineFailed Outcome = "pipeline_failed"
	OutcomeTimeout        Outcome = "timeout"
)

// Record captures one monitor cycle.
type Record struct {
	ID               int64
	SessionID        string
	Cycle            int64
	StartedAt        time.Time
	FinishedAt       time.Time
	ListingCount     int
	BatchSize        int
	Outcome          Outcome
	ExitCode         int
	DurationExceeded bool
	Detail           string
}

// Store manages journal persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create journal schema: %w", err)
		}
		return nil
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// Append inserts one cycle record.
func (s *Store) Append(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cycles (
            session_id, cycle, started_at, finished_at,
            listing_count, batch_size, outcome, exit_code, duration_exceeded, detail
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID,
		rec.Cycle,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.FinishedAt.UTC().Format(time.RFC3339Nano),
		rec.ListingCount,
		rec.BatchSize,
		string(rec.Outcome),
		rec.ExitCode,
		boolToInt(rec.DurationExceeded),
		nullableString(rec.Detail),
	)
	if err != nil {
		return fmt.Errorf("insert cycle record: %w", err)
	}
	return nil
}

// Recent returns up to limit records ordered newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, cycle, started_at, finished_at,
                listing_count, batch_size, outcome, exit_code, duration_exceeded, detail
         FROM cycles ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query cycles: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec              Record
			startedAt        string
			finishedAt       string
			durationExceeded int
			detail           sql.NullString
			outcome          string
		)
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Cycle, &startedAt, &finishedAt,
			&rec.ListingCount, &rec.BatchSize, &outcome, &rec.ExitCode, &durationExceeded, &detail); err != nil {
			return nil, fmt.Errorf("scan cycle record: %w", err)
		}
		rec.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		rec.FinishedAt, _ = time.Parse(time.RFC3339Nano, finishedAt)
		rec.Outcome = Outcome(outcome)
		rec.DurationExceeded = durationExceeded != 0
		rec.Detail = detail.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cycle records: %w", err)
	}
	return records, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
