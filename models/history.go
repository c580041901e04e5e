package models

import (
	"strings"
	"time"

	"sheetpilot/domain/core"
	"sheetpilot/domain/grid"
)

// HistoryCap bounds the persisted generation log: only the 50 most
// recent entries survive a prepend.
const HistoryCap = 50

// HistoryEntry records one accepted generation: the prompt that
// produced it and a full document snapshot. Entries are immutable once
// created; the log only ever prepends and evicts.
type HistoryEntry struct {
	ID        core.EntryID   `json:"id"`
	Timestamp core.Timestamp `json:"timestamp"`
	Prompt    string         `json:"prompt"`
	Document  grid.Document  `json:"document"`
}

// NewHistoryEntry creates an entry for a just-accepted generation. The
// caller passes an already-cloned snapshot; the entry takes ownership.
func NewHistoryEntry(prompt string, snapshot grid.Document) HistoryEntry {
	return HistoryEntry{
		ID:        core.EntryID(core.NewID()),
		Timestamp: core.Now(),
		Prompt:    strings.TrimSpace(prompt),
		Document:  snapshot,
	}
}

// PrependHistory puts entry at the front of log and truncates to
// HistoryCap, returning the new log. The input slice is not modified.
func PrependHistory(log []HistoryEntry, entry HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(log)+1)
	out = append(out, entry)
	out = append(out, log...)
	if len(out) > HistoryCap {
		out = out[:HistoryCap]
	}
	return out
}

// WorkbookRecord is a saved workbook as the store sees it: the document
// payload serialized to JSON text alongside its metadata.
type WorkbookRecord struct {
	ID        core.WorkbookID `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Document  string          `json:"-" db:"document"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}
