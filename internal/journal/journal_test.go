package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAndRecent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	records := []Record{
		{SessionID: "s1", Cycle: 1, StartedAt: now, FinishedAt: now.Add(time.Second), ListingCount: 10, BatchSize: 0, Outcome: OutcomeEmpty},
		{SessionID: "s1", Cycle: 2, StartedAt: now.Add(time.Minute), FinishedAt: now.Add(2 * time.Minute), ListingCount: 12, BatchSize: 2, Outcome: OutcomeSuccess},
		{SessionID: "s1", Cycle: 3, StartedAt: now.Add(3 * time.Minute), FinishedAt: now.Add(13 * time.Minute), ListingCount: 12, BatchSize: 1, Outcome: OutcomeTimeout, DurationExceeded: true, Detail: "pipeline exceeded 600s"},
	}
	for _, rec := range records {
		if err := store.Append(ctx, rec); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	recent, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Recent returned %d records, want 2", len(recent))
	}
	if recent[0].Cycle != 3 || recent[1].Cycle != 2 {
		t.Errorf("records not newest-first: %v, %v", recent[0].Cycle, recent[1].Cycle)
	}
	if recent[0].Outcome != OutcomeTimeout || !recent[0].DurationExceeded {
		t.Errorf("timeout record mangled: %+v", recent[0])
	}
	if recent[0].Detail != "pipeline exceeded 600s" {
		t.Errorf("Detail = %q", recent[0].Detail)
	}
	if recent[1].ExitCode != 0 || recent[1].BatchSize != 2 {
		t.Errorf("success record mangled: %+v", recent[1])
	}
}

func TestRecentOnEmptyJournal(t *testing.T) {
	store := openStore(t)
	recent, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("expected no records, got %d", len(recent))
	}
}

func TestReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	now := time.Now().UTC()
	if err := store.Append(context.Background(), Record{SessionID: "s1", Cycle: 1, StartedAt: now, FinishedAt: now, Outcome: OutcomeRemoteError, Detail: "quota exceeded"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	recent, err := reopened.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 1 || recent[0].Outcome != OutcomeRemoteError {
		t.Errorf("records lost across reopen: %+v", recent)
	}
}

func TestTimestampsRoundTrip(t *testing.T) {
	store := openStore(t)
	started := time.Date(2026, 3, 1, 9, 0, 0, 500_000_000, time.UTC)
	finished := started.Add(90 * time.Second)
	if err := store.Append(context.Background(), Record{SessionID: "s1", Cycle: 1, StartedAt: started, FinishedAt: finished, Outcome: OutcomeSuccess}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	recent, err := store.Recent(context.Background(), 1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if !recent[0].StartedAt.Equal(started) || !recent[0].FinishedAt.Equal(finished) {
		t.Errorf("timestamps mangled: %v / %v", recent[0].StartedAt, recent[0].FinishedAt)
	}
}
