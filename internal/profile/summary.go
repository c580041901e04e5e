// Package profile computes per-column numeric summaries for the active
// sheet. Like the query and chart paths it is a pure read, recomputed
// on demand.
package profile

import (
	"github.com/montanaflynn/stats"

	"sheetpilot/domain/grid"
)

// ColumnSummary describes the numeric content of one column. Columns
// without a single numeric cell report Count 0 and zeroed statistics.
type ColumnSummary struct {
	Header string  `json:"header"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

// Summarize profiles every column of the sheet. Only cells that are
// already numeric participate; text that happens to look like a number
// is not coerced here.
func Summarize(sheet *grid.Sheet) []ColumnSummary {
	if sheet == nil {
		return nil
	}

	summaries := make([]ColumnSummary, len(sheet.Headers))
	for col, header := range sheet.Headers {
		summaries[col] = summarizeColumn(sheet, col, header)
	}
	return summaries
}

func summarizeColumn(sheet *grid.Sheet, col int, header string) ColumnSummary {
	var data []float64
	for _, row := range sheet.Rows {
		if v, ok := row.Cell(col).Float(); ok {
			data = append(data, v)
		}
	}

	summary := ColumnSummary{Header: header, Count: len(data)}
	if len(data) == 0 {
		return summary
	}

	// The stats library only errors on empty input, which is already
	// excluded above.
	summary.Min, _ = stats.Min(data)
	summary.Max, _ = stats.Max(data)
	summary.Mean, _ = stats.Mean(data)
	summary.Median, _ = stats.Median(data)
	if len(data) > 1 {
		summary.StdDev, _ = stats.StandardDeviationSample(data)
	}
	return summary
}
