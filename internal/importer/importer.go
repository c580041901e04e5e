// Package importer converts raw uploaded bytes in heterogeneous
// formats into the canonical sheet form everything else operates on.
// Dispatch is purely on the lower-cased filename extension; content
// sniffing is deliberately out of scope.
package importer

import (
	"bytes"
	"encoding/json"
	"log"
	"path/filepath"
	"strings"

	"sheetpilot/domain/grid"
	"sheetpilot/internal/errors"
)

// Outcome is the result of one import: either sheets to append to the
// current document, or a full document replacement (the {sheets:[...]}
// JSON shape). Exactly one of the two fields is set.
type Outcome struct {
	Sheets      []grid.Sheet
	Replacement *grid.Document
}

// Import dispatches on the filename extension and normalizes the
// content. Unrecognized extensions and undecodable spreadsheet content
// degrade to one empty sheet named after the file; only a JSON parse
// failure aborts the import.
func Import(filename string, data []byte) (Outcome, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	log.Printf("[Importer] Importing %q (%d bytes, ext %s)", filename, len(data), ext)

	switch ext {
	case ".xlsx", ".xls":
		return Outcome{Sheets: []grid.Sheet{importWorkbook(filename, data)}}, nil
	case ".csv":
		return Outcome{Sheets: []grid.Sheet{importCSV(filename, data)}}, nil
	case ".json":
		return importJSON(filename, data)
	default:
		log.Printf("[Importer] Unrecognized extension %q, producing empty sheet", ext)
		return Outcome{Sheets: []grid.Sheet{emptySheetFor(filename)}}, nil
	}
}

// importCSV splits on line breaks (both \n and \r\n), drops empty
// lines, and splits each line on commas. There is no quoting or escape
// support: a comma inside a quoted field splits that field. All cells
// are text; CSV never infers numeric types.
func importCSV(filename string, data []byte) grid.Sheet {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return emptySheetFor(filename)
	}

	sheet := grid.NewSheet(stripExt(filename))
	sheet.Headers = strings.Split(lines[0], ",")
	for _, line := range lines[1:] {
		fields := strings.Split(line, ",")
		row := make(grid.Row, len(fields))
		for i, f := range fields {
			row[i] = grid.TextCell(f)
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}

// importJSON accepts two shapes: {sheets:[...]} as a full document
// replacement, or a bare array of key/value records. Malformed JSON
// aborts the import; any other valid JSON shape degrades to an empty
// named sheet.
func importJSON(filename string, data []byte) (Outcome, error) {
	var probe interface{}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Outcome{}, errors.FormatError("malformed JSON import", err)
	}

	switch v := probe.(type) {
	case map[string]interface{}:
		if _, ok := v["sheets"]; ok {
			var doc grid.Document
			if err := json.Unmarshal(data, &doc); err != nil {
				return Outcome{}, errors.FormatError("malformed sheets document", err)
			}
			for i := range doc.Sheets {
				doc.Sheets[i].Name = grid.SanitizeSheetName(doc.Sheets[i].Name)
			}
			doc.Active = 0
			doc.ClampActive()
			log.Printf("[Importer] JSON document replacement with %d sheets", len(doc.Sheets))
			return Outcome{Replacement: &doc}, nil
		}
		return Outcome{Sheets: []grid.Sheet{emptySheetFor(filename)}}, nil
	case []interface{}:
		sheet, err := recordsToSheet(filename, data)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Sheets: []grid.Sheet{sheet}}, nil
	default:
		return Outcome{Sheets: []grid.Sheet{emptySheetFor(filename)}}, nil
	}
}

// recordsToSheet flattens an array of key/value records. Headers are
// the union of all keys in first-seen order across records, never
// alphabetical, which is why this walks the token stream instead of
// unmarshalling into Go maps. A record missing a key contributes an
// empty string at that position.
func recordsToSheet(filename string, data []byte) (grid.Sheet, error) {
	type record map[string]grid.Cell

	var headers []string
	seen := map[string]bool{}
	var records []record

	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // opening [
		return grid.Sheet{}, errors.FormatError("malformed JSON records", err)
	}
	for dec.More() {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return grid.Sheet{}, errors.FormatError("malformed JSON record", err)
		}

		rec := record{}
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) > 0 && trimmed[0] == '{' {
			keys, cells, err := decodeOrderedObject(trimmed)
			if err != nil {
				return grid.Sheet{}, err
			}
			for i, key := range keys {
				if !seen[key] {
					seen[key] = true
					headers = append(headers, key)
				}
				rec[key] = cells[i]
			}
		}
		// Non-object elements carry no keys; they become a row of
		// empty strings under whatever headers the other records set.
		records = append(records, rec)
	}

	sheet := grid.NewSheet(stripExt(filename))
	sheet.Headers = headers
	for _, rec := range records {
		row := make(grid.Row, len(headers))
		for i, key := range headers {
			if cell, ok := rec[key]; ok {
				row[i] = cell
			} else {
				row[i] = grid.TextCell("")
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

// decodeOrderedObject reads one JSON object, returning its keys in
// document order with each value normalized into a cell.
func decodeOrderedObject(data []byte) ([]string, []grid.Cell, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // opening {
		return nil, nil, errors.FormatError("malformed JSON object", err)
	}

	var keys []string
	var cells []grid.Cell
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, errors.FormatError("malformed JSON object key", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, errors.FormatError("non-string JSON object key", nil)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, errors.FormatError("malformed JSON object value", err)
		}
		var cell grid.Cell
		if err := cell.UnmarshalJSON(raw); err != nil {
			return nil, nil, errors.FormatError("unsupported JSON value", err)
		}

		keys = append(keys, key)
		cells = append(cells, cell)
	}
	return keys, cells, nil
}

func emptySheetFor(filename string) grid.Sheet {
	return grid.NewSheet(stripExt(filename))
}

func stripExt(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
