// Package engine owns the document's mutable state: the current
// document, the undo and redo stacks, and the generation-history log.
// Every mutation flows through one discipline — push the pre-mutation
// snapshot onto the undo stack, clear the redo stack, apply — so redo
// is valid only immediately after a chain of undos.
package engine

import (
	"fmt"
	"log"
	"sync"

	"sheetpilot/domain/core"
	"sheetpilot/domain/grid"
	"sheetpilot/internal/errors"
	"sheetpilot/internal/importer"
	"sheetpilot/models"
	"sheetpilot/ports"
)

// Mutation transforms a document snapshot. The engine hands in a
// private clone of the current document; the mutation may edit it in
// place and returns the result. A failed mutation leaves the engine's
// state untouched.
type Mutation func(grid.Document) (grid.Document, error)

// Workbench is the mutation and history engine. A single mutex
// serializes every operation, the Go rendition of the source model
// where all mutations run to completion one event at a time. The
// stacks and the current document are owned exclusively by the
// workbench; nothing else reads or writes them.
type Workbench struct {
	mu      sync.Mutex
	current grid.Document
	undo    []grid.Document
	redo    []grid.Document

	history     []models.HistoryEntry
	historyRepo ports.HistoryRepository
}

// NewWorkbench creates an engine around an empty document and loads
// the persisted generation log. A log that cannot be read degrades to
// an empty one; the engine starts regardless.
func NewWorkbench(historyRepo ports.HistoryRepository) *Workbench {
	w := &Workbench{
		current:     grid.NewDocument(),
		historyRepo: historyRepo,
	}

	if historyRepo != nil {
		entries, err := historyRepo.Load()
		if err != nil {
			log.Printf("[Workbench] History log unreadable, starting empty: %v", err)
		} else {
			w.history = entries
			log.Printf("[Workbench] Loaded %d history entries", len(entries))
		}
	}
	return w
}

// Snapshot returns a deep copy of the current document.
func (w *Workbench) Snapshot() (grid.Document, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	doc, err := w.current.Clone()
	if err != nil {
		return grid.Document{}, errors.Wrap(err, "failed to snapshot document")
	}
	return doc, nil
}

// Apply runs one mutation under the engine's discipline: the
// pre-mutation document is pushed onto the undo stack and the redo
// stack is cleared before the result is installed. Any mutation
// permanently discards redo history.
func (w *Workbench) Apply(op Mutation) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.applyLocked(op)
}

func (w *Workbench) applyLocked(op Mutation) error {
	snapshot, err := w.current.Clone()
	if err != nil {
		return errors.Wrap(err, "failed to snapshot document before mutation")
	}

	next, err := op(snapshot)
	if err != nil {
		return err
	}

	w.undo = append(w.undo, w.current)
	w.redo = nil
	w.current = next
	return nil
}

// Undo restores the most recent pre-mutation snapshot. A no-op when
// the undo stack is empty. The active sheet index resets to 0.
func (w *Workbench) Undo() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.undo) == 0 {
		return nil
	}
	prev := w.undo[len(w.undo)-1]

	cur, err := w.current.Clone()
	if err != nil {
		return errors.Wrap(err, "failed to snapshot document for redo")
	}
	restored, err := prev.Clone()
	if err != nil {
		return errors.Wrap(err, "failed to restore undo snapshot")
	}

	w.undo = w.undo[:len(w.undo)-1]
	w.redo = append(w.redo, cur)
	restored.Active = 0
	restored.ClampActive()
	w.current = restored
	return nil
}

// Redo reverses the most recent Undo. A no-op when the redo stack is
// empty; any mutation since the undo has already cleared it.
func (w *Workbench) Redo() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.redo) == 0 {
		return nil
	}
	next := w.redo[len(w.redo)-1]

	cur, err := w.current.Clone()
	if err != nil {
		return errors.Wrap(err, "failed to snapshot document for undo")
	}
	restored, err := next.Clone()
	if err != nil {
		return errors.Wrap(err, "failed to restore redo snapshot")
	}

	w.redo = w.redo[:len(w.redo)-1]
	w.undo = append(w.undo, cur)
	restored.Active = 0
	restored.ClampActive()
	w.current = restored
	return nil
}

// CanUndo reports whether an Undo would do anything.
func (w *Workbench) CanUndo() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.undo) > 0
}

// CanRedo reports whether a Redo would do anything.
func (w *Workbench) CanRedo() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.redo) > 0
}

// SetActive switches the active sheet. Tab selection is view state,
// not document content, so it bypasses the undo discipline.
func (w *Workbench) SetActive(index int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current.IsEmpty() {
		return nil
	}
	if index < 0 || index >= len(w.current.Sheets) {
		return errors.InvalidInput(fmt.Sprintf("sheet index %d out of range", index))
	}
	w.current.Active = index
	return nil
}

// AcceptGeneration installs a validated generation response as one
// atomic document replacement, then prepends a history entry and
// persists the log. A persistence failure is surfaced as the returned
// error but never rolls back the already-applied replacement; the
// in-memory document stays authoritative.
func (w *Workbench) AcceptGeneration(prompt string, resp *models.GenerateResponse) (*models.HistoryEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	doc := resp.Document()
	if err := w.applyLocked(func(grid.Document) (grid.Document, error) {
		return doc.Clone()
	}); err != nil {
		return nil, err
	}

	snapshot, err := doc.Clone()
	if err != nil {
		return nil, errors.Wrap(err, "failed to snapshot generated document for history")
	}
	entry := models.NewHistoryEntry(prompt, snapshot)
	w.history = models.PrependHistory(w.history, entry)

	if err := w.persistHistoryLocked(); err != nil {
		return &entry, err
	}
	return &entry, nil
}

// RestoreEntry reinstalls a history entry's snapshot as the current
// document, pushing the current state onto the undo stack like any
// other mutation. No new history entry is created.
func (w *Workbench) RestoreEntry(id core.EntryID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, entry := range w.history {
		if entry.ID == id {
			return w.applyLocked(func(grid.Document) (grid.Document, error) {
				doc, err := entry.Document.Clone()
				if err != nil {
					return grid.Document{}, err
				}
				doc.Active = 0
				doc.ClampActive()
				return doc, nil
			})
		}
	}
	return errors.NotFound("history entry")
}

// History returns the generation log, most recent first.
func (w *Workbench) History() []models.HistoryEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]models.HistoryEntry, len(w.history))
	copy(out, w.history)
	return out
}

// ImportFile normalizes uploaded bytes and lands them in the document.
// Appended sheets and whole-document replacements both go through the
// same push-undo-then-apply discipline, so an import is undoable like
// any edit.
func (w *Workbench) ImportFile(filename string, data []byte) error {
	outcome, err := importer.Import(filename, data)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if outcome.Replacement != nil {
		return w.applyLocked(func(grid.Document) (grid.Document, error) {
			return outcome.Replacement.Clone()
		})
	}
	return w.applyLocked(func(doc grid.Document) (grid.Document, error) {
		for _, sheet := range outcome.Sheets {
			var appendErr error
			doc, appendErr = grid.AppendSheet(doc, sheet)
			if appendErr != nil {
				return grid.Document{}, appendErr
			}
		}
		return doc, nil
	})
}

func (w *Workbench) persistHistoryLocked() error {
	if w.historyRepo == nil {
		return nil
	}
	if err := w.historyRepo.Save(w.history); err != nil {
		log.Printf("[Workbench] History persistence failed (state kept): %v", err)
		return errors.PersistenceError("failed to persist history log", err)
	}
	return nil
}
