// Package query filters the active sheet's rows. Both filters are pure
// reads recomputed on demand; nothing here touches the document.
package query

import (
	"strings"

	"sheetpilot/domain/grid"
)

// DisplayCap bounds how many matches one read returns. It is a display
// and performance concern only; the underlying rows are untouched.
const DisplayCap = 500

// Match pairs a matching row with its index in the unfiltered sheet,
// so edits addressed through a filtered view still hit the right row.
type Match struct {
	Index int      `json:"index"`
	Row   grid.Row `json:"row"`
}

// Filter applies the free-text filter and then the column filter to
// the sheet's rows, returning at most DisplayCap matches.
//
// The free-text filter keeps rows where any cell's lower-cased string
// form contains the lower-cased query. The column filter has the
// syntax "name:value", split on the first colon: the named header is
// matched exactly and rows keep only when the cell at that column
// stringifies to exactly the value. An unknown column name silently
// disables the column filter rather than excluding rows.
func Filter(sheet *grid.Sheet, text, column string) []Match {
	if sheet == nil {
		return nil
	}

	matches := make([]Match, 0, len(sheet.Rows))
	for i, row := range sheet.Rows {
		matches = append(matches, Match{Index: i, Row: row})
	}

	if text != "" {
		needle := strings.ToLower(text)
		kept := matches[:0]
		for _, m := range matches {
			if rowContains(m.Row, needle) {
				kept = append(kept, m)
			}
		}
		matches = kept
	}

	if col, value, ok := parseColumnFilter(sheet.Headers, column); ok {
		kept := matches[:0]
		for _, m := range matches {
			if m.Row.Cell(col).String() == value {
				kept = append(kept, m)
			}
		}
		matches = kept
	}

	if len(matches) > DisplayCap {
		matches = matches[:DisplayCap]
	}
	return matches
}

func rowContains(row grid.Row, needle string) bool {
	for _, cell := range row {
		if strings.Contains(strings.ToLower(cell.String()), needle) {
			return true
		}
	}
	return false
}

// parseColumnFilter resolves "name:value" against the headers. It
// reports false when the filter is empty, has no colon, or names a
// column that does not exist.
func parseColumnFilter(headers []string, filter string) (int, string, bool) {
	if filter == "" {
		return 0, "", false
	}
	name, value, found := strings.Cut(filter, ":")
	if !found {
		return 0, "", false
	}
	for i, h := range headers {
		if h == name {
			return i, value, true
		}
	}
	return 0, "", false
}
