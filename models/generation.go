package models

import (
	"fmt"
	"strings"

	"sheetpilot/domain/grid"
	"sheetpilot/internal/errors"
)

// GenerateOptions shape the workbook the generation service produces.
type GenerateOptions struct {
	Rows    int      `json:"rows"`
	Cols    int      `json:"cols"`
	Headers bool     `json:"headers"`
	Sheets  []string `json:"sheets"`
}

// GenerateRequest is the outbound payload for a generation call.
type GenerateRequest struct {
	Prompt  string          `json:"prompt"`
	Options GenerateOptions `json:"options"`
}

// Normalize clamps option values into their documented minimums.
func (r *GenerateRequest) Normalize() {
	if r.Options.Rows < 1 {
		r.Options.Rows = 1
	}
	if r.Options.Cols < 1 {
		r.Options.Cols = 1
	}
	if r.Options.Sheets == nil {
		r.Options.Sheets = []string{}
	}
}

// Validate checks that the request is usable before it goes out.
func (r GenerateRequest) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return errors.ValidationError("prompt cannot be empty")
	}
	return nil
}

// GenerateResponse is the inbound payload from the generation service:
// a full document replacement in canonical sheet form.
type GenerateResponse struct {
	Sheets []grid.Sheet `json:"sheets"`
}

// Validate enforces the response schema: every sheet needs a non-empty
// name; headers and rows default to empty rather than nil. A response
// that fails any check is rejected wholesale, nothing is partially
// accepted.
func (r *GenerateResponse) Validate() error {
	if len(r.Sheets) == 0 {
		return errors.ValidationError("generation response contains no sheets")
	}
	for i := range r.Sheets {
		sheet := &r.Sheets[i]
		if strings.TrimSpace(sheet.Name) == "" {
			return errors.ValidationError(fmt.Sprintf("sheet %d has an empty name", i))
		}
		if sheet.Headers == nil {
			sheet.Headers = []string{}
		}
		if sheet.Rows == nil {
			sheet.Rows = []grid.Row{}
		}
	}
	return nil
}

// Document converts a validated response into a document with the
// first sheet active. Sheet names pass through the sanitizer here so
// nothing downstream ever sees a raw name.
func (r *GenerateResponse) Document() grid.Document {
	doc := grid.NewDocument()
	for _, sheet := range r.Sheets {
		sheet.Name = grid.SanitizeSheetName(sheet.Name)
		doc.Sheets = append(doc.Sheets, sheet)
	}
	doc.Active = 0
	return doc
}
