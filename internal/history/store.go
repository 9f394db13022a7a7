package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"cardwatch/internal/logging"
	"cardwatch/internal/services"
)

// Snapshot is the persisted wire format. Field names predate this rewrite
// and are kept for compatibility with existing history files.
type Snapshot struct {
	LastChecked  time.Time `json:"ultima_verificacao"`
	CheckCount   int       `json:"total_verificacoes"`
	ProcessedIDs []string  `json:"arquivos_processados"`
}

// Store provides thread-safe access to the processed-items history.
type Store struct {
	path   string
	logger *slog.Logger

	mu    sync.RWMutex
	last  time.Time
	count int
	order []string
	index map[string]struct{}
}

// Open creates a store bound to path and loads any existing snapshot. A
// missing or unparsable file is not an error: the store starts empty and the
// condition is logged.
func Open(path string, logger *slog.Logger) *Store {
	logger = logging.NewComponentLogger(logger, "history")

	s := &Store{
		path:   path,
		logger: logger,
		index:  make(map[string]struct{}),
	}

	if err := s.load(); err != nil {
		logger.Warn("failed to load history; starting empty",
			logging.Error(err),
			logging.String(logging.FieldEventType, "history_load_failed"),
			logging.String(logging.FieldErrorHint, "previously processed cards may be handed to the pipeline again"),
		)
	}

	return s
}

// Snapshot returns a copy of the current in-memory state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		LastChecked:  s.last,
		CheckCount:   s.count,
		ProcessedIDs: append([]string(nil), s.order...),
	}
}

// Processed returns the set of processed ids keyed for classifier lookup.
func (s *Store) Processed() map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := make(map[string]struct{}, len(s.index))
	for id := range s.index {
		set[id] = struct{}{}
	}
	return set
}

// Has reports whether id was already handed to the pipeline.
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[id]
	return ok
}

// Count returns the number of processed ids.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// CheckCount returns the number of completed cycles recorded so far.
func (s *Store) CheckCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

// Commit merges newIDs into the processed set, stamps the check time, bumps
// the cycle counter, and rewrites the snapshot atomically. The in-memory
// state is updated even when the write fails; the returned error is for
// logging only.
func (s *Store) Commit(newIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range newIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, exists := s.index[id]; exists {
			continue
		}
		s.index[id] = struct{}{}
		s.order = append(s.order, id)
	}
	s.last = time.Now().UTC()
	s.count++

	return s.save()
}

// Touch records a completed cycle without adding ids. Used as a heartbeat on
// cycles that found nothing new.
func (s *Store) Touch() error {
	return s.Commit(nil)
}

// Flush persists the current in-memory state without stamping a new check.
// Called once on graceful shutdown.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil // fresh start
		}
		return fmt.Errorf("read history file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse history file: %w", err)
	}

	s.last = snap.LastChecked
	s.count = snap.CheckCount
	s.order = make([]string, 0, len(snap.ProcessedIDs))
	s.index = make(map[string]struct{}, len(snap.ProcessedIDs))
	for _, id := range snap.ProcessedIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, exists := s.index[id]; exists {
			continue
		}
		s.index[id] = struct{}{}
		s.order = append(s.order, id)
	}

	s.logger.Debug("loaded history",
		logging.Int("processed_count", len(s.order)),
		logging.Int("check_count", s.count),
		logging.String("path", s.path),
	)
	return nil
}

// save writes the snapshot atomically via temp file and rename. Callers hold s.mu.
func (s *Store) save() error {
	snap := Snapshot{
		LastChecked:  s.last,
		CheckCount:   s.count,
		ProcessedIDs: s.order,
	}
	if snap.ProcessedIDs == nil {
		snap.ProcessedIDs = []string{}
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrPersistence, "history", "marshal snapshot", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return services.Wrap(services.ErrPersistence, "history", "create directory", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return services.Wrap(services.ErrPersistence, "history", "write temp file", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return services.Wrap(services.ErrPersistence, "history", "rename temp file", err)
	}
	return nil
}
