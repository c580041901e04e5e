// Package export renders the current document for consumers outside
// the editor: CSV per sheet, the canonical JSON document shape, a
// binary workbook, and a markdown/HTML report. Every surface is a pure
// read of the state it is given.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"

	"github.com/xuri/excelize/v2"

	"sheetpilot/domain/grid"
	"sheetpilot/internal/errors"
)

// SheetCSV renders one sheet as RFC-quoted CSV. The export side quotes
// properly even though the import side deliberately does not.
func SheetCSV(sheet *grid.Sheet) ([]byte, error) {
	if sheet == nil {
		return nil, errors.InvalidInput("no sheet to export")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if len(sheet.Headers) > 0 {
		if err := w.Write(sheet.Headers); err != nil {
			return nil, errors.Wrap(err, "failed to write CSV headers")
		}
	}
	for _, row := range sheet.Rows {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = cell.String()
		}
		if err := w.Write(record); err != nil {
			return nil, errors.Wrap(err, "failed to write CSV row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "failed to flush CSV")
	}
	return buf.Bytes(), nil
}

// DocumentJSON renders the whole document in the canonical
// {"sheets":[...]} shape.
func DocumentJSON(doc grid.Document) ([]byte, error) {
	payload := struct {
		Sheets []grid.Sheet `json:"sheets"`
	}{Sheets: doc.Sheets}
	if payload.Sheets == nil {
		payload.Sheets = []grid.Sheet{}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal document")
	}
	return data, nil
}

// DocumentXLSX builds a binary workbook with one worksheet per sheet.
// Cells keep their types: numbers and booleans land as native
// spreadsheet values, not rendered strings.
func DocumentXLSX(doc grid.Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range doc.Sheets {
		name := sheet.Name
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, errors.Wrap(err, "failed to name worksheet")
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return nil, errors.Wrap(err, "failed to add worksheet")
			}
		}

		if len(sheet.Headers) > 0 {
			header := make([]interface{}, len(sheet.Headers))
			for c, h := range sheet.Headers {
				header[c] = h
			}
			if err := writeRow(f, name, 1, header); err != nil {
				return nil, err
			}
		}
		for r, row := range sheet.Rows {
			values := make([]interface{}, len(row))
			for c, cell := range row {
				values[c] = cellValue(cell)
			}
			if err := writeRow(f, name, r+2, values); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize workbook")
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return errors.Wrap(err, "failed to address worksheet row")
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return errors.Wrap(err, "failed to write worksheet row")
	}
	return nil
}

func cellValue(cell grid.Cell) interface{} {
	switch cell.Kind {
	case grid.KindNumber:
		return cell.Number
	case grid.KindBool:
		return cell.Bool
	case grid.KindText:
		return cell.Text
	default:
		return nil
	}
}
