package ports

import (
	"sheetpilot/models"
)

// HistoryRepository persists the generation-history log: a JSON array
// of entries, most-recent first, capped at models.HistoryCap. The log
// is read once at startup and rewritten in full on every new entry.
// Persistence failures never roll back in-memory state; callers log
// and surface them as PersistenceError.
type HistoryRepository interface {
	// Load reads the full log. A missing log is not an error; it
	// returns an empty slice.
	Load() ([]models.HistoryEntry, error)

	// Save rewrites the full log.
	Save(entries []models.HistoryEntry) error
}
