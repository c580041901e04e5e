// Package file persists the generation-history log as a JSON array on
// disk, most-recent entry first. The log is read once at startup and
// rewritten in full on every change; a failure here never rolls back
// in-memory state.
package file

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"sheetpilot/internal/errors"
	"sheetpilot/models"
	"sheetpilot/ports"
)

// HistoryStore implements ports.HistoryRepository on a single JSON
// file.
type HistoryStore struct {
	path string
}

// NewHistoryStore creates a store at the given path. Parent
// directories are created on the first save.
func NewHistoryStore(path string) *HistoryStore {
	return &HistoryStore{path: path}
}

var _ ports.HistoryRepository = (*HistoryStore)(nil)

// Load reads the full log. A missing file is an empty log, not an
// error.
func (s *HistoryStore) Load() ([]models.HistoryEntry, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []models.HistoryEntry{}, nil
	}
	if err != nil {
		return nil, errors.PersistenceError("failed to read history log", err)
	}

	var entries []models.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.PersistenceError("history log is corrupt", err)
	}
	if len(entries) > models.HistoryCap {
		entries = entries[:models.HistoryCap]
	}
	return entries, nil
}

// Save rewrites the whole log atomically: serialize to a temp file in
// the same directory, then rename over the target.
func (s *HistoryStore) Save(entries []models.HistoryEntry) error {
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	if len(entries) > models.HistoryCap {
		entries = entries[:models.HistoryCap]
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errors.PersistenceError("failed to serialize history log", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.PersistenceError("failed to create history directory", err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return errors.PersistenceError("failed to create temp history file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.PersistenceError("failed to write history log", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.PersistenceError("failed to close history log", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.PersistenceError("failed to replace history log", err)
	}

	log.Printf("[HistoryStore] Wrote %d entries to %s", len(entries), s.path)
	return nil
}
