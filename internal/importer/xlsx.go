package importer

import (
	"bytes"
	"log"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"sheetpilot/domain/grid"
)

// importWorkbook decodes a binary spreadsheet. Only the first named
// worksheet is taken; later worksheets in a multi-sheet workbook are
// silently ignored. Row 0 becomes the headers (coerced to string,
// missing cells become ""); remaining rows keep their native coerced
// type, so numbers stay numeric and booleans stay boolean. A workbook
// that cannot be opened degrades to one empty sheet named after the
// file rather than failing the import.
func importWorkbook(filename string, data []byte) grid.Sheet {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		log.Printf("[Importer] Cannot open workbook %q: %v", filename, err)
		return emptySheetFor(filename)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return emptySheetFor(filename)
	}
	first := names[0]

	rows, err := f.GetRows(first)
	if err != nil {
		log.Printf("[Importer] Cannot read worksheet %q: %v", first, err)
		return emptySheetFor(filename)
	}

	sheet := grid.NewSheet(first)
	if len(rows) == 0 {
		return sheet
	}

	sheet.Headers = append(sheet.Headers, rows[0]...)
	for _, raw := range rows[1:] {
		row := make(grid.Row, len(raw))
		for i, val := range raw {
			row[i] = coerceWorkbookCell(val)
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	log.Printf("[Importer] Workbook %q: took sheet %q (%d columns, %d rows)",
		filename, first, len(sheet.Headers), len(sheet.Rows))
	return sheet
}

// coerceWorkbookCell maps a formatted spreadsheet value onto the cell
// model. Numeric cells arrive as their rendered string form and boolean
// cells as TRUE/FALSE, so parse in that order before falling back to
// text.
func coerceWorkbookCell(raw string) grid.Cell {
	if raw == "" {
		return grid.EmptyCell()
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return grid.NumberCell(f)
	}
	switch strings.ToUpper(raw) {
	case "TRUE":
		return grid.BoolCell(true)
	case "FALSE":
		return grid.BoolCell(false)
	}
	return grid.TextCell(raw)
}
