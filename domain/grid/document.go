package grid

import (
	"github.com/tiendc/go-deepcopy"
)

// Row is an ordered sequence of cells. Rows in the same sheet may be
// shorter or longer than the sheet's headers; consumers treat missing
// positions as empty cells rather than padding them.
type Row []Cell

// Cell returns the cell at col, or an empty cell when the row is too
// short. Bounds-safe accessor for ragged rows.
func (r Row) Cell(col int) Cell {
	if col < 0 || col >= len(r) {
		return EmptyCell()
	}
	return r[col]
}

// Sheet represents one named table of headers and rows.
// Name is always a sanitized string (see SanitizeSheetName); no shape
// invariant is enforced between Headers and Rows by construction.
type Sheet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// NewSheet creates an empty sheet with a sanitized name
func NewSheet(name string) Sheet {
	return Sheet{
		Name:    SanitizeSheetName(name),
		Headers: []string{},
		Rows:    []Row{},
	}
}

// Document represents the full multi-sheet state with one active sheet.
// Invariant: 0 <= Active < len(Sheets) whenever the document is
// non-empty; when empty, Active is 0 and no sheet is addressable.
type Document struct {
	Sheets []Sheet `json:"sheets"`
	Active int     `json:"active"`
}

// NewDocument creates an empty document
func NewDocument() Document {
	return Document{Sheets: []Sheet{}, Active: 0}
}

// IsEmpty reports whether the document has no sheets
func (d Document) IsEmpty() bool {
	return len(d.Sheets) == 0
}

// ActiveSheet returns the currently active sheet, or nil when the
// document is empty. The pointer addresses the document's own storage,
// so read-side derivations can use it without copying.
func (d *Document) ActiveSheet() *Sheet {
	if d.IsEmpty() || d.Active < 0 || d.Active >= len(d.Sheets) {
		return nil
	}
	return &d.Sheets[d.Active]
}

// SheetAt returns the sheet at index, or nil when out of range
func (d *Document) SheetAt(index int) *Sheet {
	if index < 0 || index >= len(d.Sheets) {
		return nil
	}
	return &d.Sheets[index]
}

// ClampActive forces the active index back into range. Empty documents
// always land on 0.
func (d *Document) ClampActive() {
	if d.IsEmpty() {
		d.Active = 0
		return
	}
	if d.Active < 0 {
		d.Active = 0
	}
	if d.Active >= len(d.Sheets) {
		d.Active = len(d.Sheets) - 1
	}
}

// Clone produces a deep, independent snapshot of the document. Undo,
// redo and the generation history all operate on snapshots so that no
// two stack entries ever share row storage.
func (d Document) Clone() (Document, error) {
	var out Document
	if err := deepcopy.Copy(&out, d); err != nil {
		return Document{}, err
	}
	// A cloned empty document keeps addressable (non-nil) slices so
	// callers can append without nil checks.
	if out.Sheets == nil {
		out.Sheets = []Sheet{}
	}
	return out, nil
}

// CloneSheet deep-copies a single sheet
func CloneSheet(s Sheet) (Sheet, error) {
	var out Sheet
	if err := deepcopy.Copy(&out, s); err != nil {
		return Sheet{}, err
	}
	return out, nil
}
