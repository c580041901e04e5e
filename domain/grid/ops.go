package grid

import (
	"errors"
	"fmt"
)

// ErrOutOfRange reports an index outside the document's current shape.
// Indices come from the caller's view of the current state, so an
// out-of-range index is a contract violation, not a recoverable
// condition; every operation checks bounds and fails hard instead of
// corrupting the document.
var ErrOutOfRange = errors.New("index out of range")

// The operations below transform a document snapshot and return the
// result. The mutation engine clones the current document before
// handing it in, so operations assume exclusive ownership of their
// input and may edit it in place.

// SetCell replaces the cell at (row, col) in the given sheet.
func SetCell(doc Document, sheetIndex, rowIndex, colIndex int, value Cell) (Document, error) {
	sheet, err := boundsSheet(doc, sheetIndex)
	if err != nil {
		return Document{}, err
	}
	if rowIndex < 0 || rowIndex >= len(sheet.Rows) {
		return Document{}, fmt.Errorf("row %d in sheet %q: %w", rowIndex, sheet.Name, ErrOutOfRange)
	}
	row := sheet.Rows[rowIndex]
	if colIndex < 0 || colIndex >= len(row) {
		return Document{}, fmt.Errorf("column %d in row %d of sheet %q: %w", colIndex, rowIndex, sheet.Name, ErrOutOfRange)
	}
	row[colIndex] = value
	return doc, nil
}

// AddRow appends a row of empty cells to the sheet. The new row's
// length follows the headers, falling back to the first existing row,
// and is never shorter than one cell.
func AddRow(doc Document, sheetIndex int) (Document, error) {
	sheet, err := boundsSheet(doc, sheetIndex)
	if err != nil {
		return Document{}, err
	}

	width := len(sheet.Headers)
	if width == 0 && len(sheet.Rows) > 0 {
		width = len(sheet.Rows[0])
	}
	if width < 1 {
		width = 1
	}

	row := make(Row, width)
	for i := range row {
		row[i] = EmptyCell()
	}
	sheet.Rows = append(sheet.Rows, row)
	return doc, nil
}

// AddColumn appends a header named "Column {n+1}" and one empty cell to
// every existing row. Rows that were shorter than the headers stay
// shorter; each is extended by exactly one cell, preserving any prior
// length mismatch.
func AddColumn(doc Document, sheetIndex int) (Document, error) {
	sheet, err := boundsSheet(doc, sheetIndex)
	if err != nil {
		return Document{}, err
	}

	sheet.Headers = append(sheet.Headers, fmt.Sprintf("Column %d", len(sheet.Headers)+1))
	for i := range sheet.Rows {
		sheet.Rows[i] = append(sheet.Rows[i], EmptyCell())
	}
	return doc, nil
}

// DeleteRow removes the row at rowIndex.
func DeleteRow(doc Document, sheetIndex, rowIndex int) (Document, error) {
	sheet, err := boundsSheet(doc, sheetIndex)
	if err != nil {
		return Document{}, err
	}
	if rowIndex < 0 || rowIndex >= len(sheet.Rows) {
		return Document{}, fmt.Errorf("row %d in sheet %q: %w", rowIndex, sheet.Name, ErrOutOfRange)
	}
	sheet.Rows = append(sheet.Rows[:rowIndex], sheet.Rows[rowIndex+1:]...)
	return doc, nil
}

// DeleteColumn removes the header at colIndex and the cell at that
// index from every row long enough to have one. Shorter rows are left
// unchanged.
func DeleteColumn(doc Document, sheetIndex, colIndex int) (Document, error) {
	sheet, err := boundsSheet(doc, sheetIndex)
	if err != nil {
		return Document{}, err
	}
	if colIndex < 0 || colIndex >= len(sheet.Headers) {
		return Document{}, fmt.Errorf("column %d in sheet %q: %w", colIndex, sheet.Name, ErrOutOfRange)
	}
	sheet.Headers = append(sheet.Headers[:colIndex], sheet.Headers[colIndex+1:]...)
	for i, row := range sheet.Rows {
		if colIndex < len(row) {
			sheet.Rows[i] = append(row[:colIndex], row[colIndex+1:]...)
		}
	}
	return doc, nil
}

// DuplicateSheet deep-clones the sheet at sheetIndex, renames the clone
// by sanitizing "{name} (copy)", and inserts it immediately after the
// original. The clone becomes the active sheet.
func DuplicateSheet(doc Document, sheetIndex int) (Document, error) {
	sheet, err := boundsSheet(doc, sheetIndex)
	if err != nil {
		return Document{}, err
	}

	clone, err := CloneSheet(*sheet)
	if err != nil {
		return Document{}, fmt.Errorf("clone sheet %q: %w", sheet.Name, err)
	}
	clone.Name = SanitizeSheetName(sheet.Name + " (copy)")

	sheets := make([]Sheet, 0, len(doc.Sheets)+1)
	sheets = append(sheets, doc.Sheets[:sheetIndex+1]...)
	sheets = append(sheets, clone)
	sheets = append(sheets, doc.Sheets[sheetIndex+1:]...)
	doc.Sheets = sheets
	doc.Active = sheetIndex + 1
	return doc, nil
}

// DeleteSheet removes the sheet at sheetIndex. The new active index is
// the previous sheet, clamped into the shrunken range; deleting the
// last remaining sheet leaves an empty document with Active 0.
func DeleteSheet(doc Document, sheetIndex int) (Document, error) {
	if _, err := boundsSheet(doc, sheetIndex); err != nil {
		return Document{}, err
	}

	doc.Sheets = append(doc.Sheets[:sheetIndex], doc.Sheets[sheetIndex+1:]...)
	doc.Active = sheetIndex - 1
	doc.ClampActive()
	return doc, nil
}

// AppendSheet adds a sheet at the end of the document and makes it
// active. The name is sanitized on the way in.
func AppendSheet(doc Document, sheet Sheet) (Document, error) {
	sheet.Name = SanitizeSheetName(sheet.Name)
	doc.Sheets = append(doc.Sheets, sheet)
	doc.Active = len(doc.Sheets) - 1
	return doc, nil
}

func boundsSheet(doc Document, sheetIndex int) (*Sheet, error) {
	if sheetIndex < 0 || sheetIndex >= len(doc.Sheets) {
		return nil, fmt.Errorf("sheet %d of %d: %w", sheetIndex, len(doc.Sheets), ErrOutOfRange)
	}
	return &doc.Sheets[sheetIndex], nil
}
