// Package chart derives a two-column name/value series from an
// arbitrary sheet for visualization. The column selection is a
// deterministic heuristic, reproduced exactly including its fallback
// order; it is knowingly ambiguous for sheets with several numeric
// columns.
package chart

import (
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"sheetpilot/domain/grid"
)

// Point is one chartable observation.
type Point struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// valueKeywords mark headers that hold the chart's value column.
var valueKeywords = []string{"value", "quant", "qtd", "total"}

// InferSeries projects a sheet into a name/value series. The name
// column is always column 0. The value column is the first header
// containing a value keyword (case-insensitive); failing that, the
// column of the first numeric cell in the first data row; failing
// that, column 1. Rows whose name stringifies to "" are skipped; a
// value that coerces to something non-finite is recorded as 0 rather
// than dropping the row.
func InferSeries(sheet *grid.Sheet) []Point {
	if sheet == nil || len(sheet.Headers) < 2 {
		return nil
	}

	valueIdx := inferValueIndex(sheet)

	var points []Point
	for _, row := range sheet.Rows {
		name := row.Cell(0).String()
		if name == "" {
			continue
		}
		points = append(points, Point{Name: name, Value: coerceValue(row.Cell(valueIdx))})
	}
	return points
}

func inferValueIndex(sheet *grid.Sheet) int {
	for i, header := range sheet.Headers {
		lower := strings.ToLower(header)
		for _, kw := range valueKeywords {
			if strings.Contains(lower, kw) {
				return i
			}
		}
	}

	if len(sheet.Rows) > 0 {
		for i, cell := range sheet.Rows[0] {
			if _, ok := cell.Float(); ok {
				return i
			}
		}
	}
	return 1
}

// coerceValue turns a cell into a chartable number. Numeric cells pass
// through; anything else goes through its trimmed string form, where
// an empty string reads as 0 and an unparseable or non-finite result
// is recorded as 0.
func coerceValue(cell grid.Cell) float64 {
	if v, ok := cell.Float(); ok {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	}

	s := strings.TrimSpace(cell.String())
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Trendline fits a least-squares line through the series, indexing
// points by position. It reports ok=false when fewer than two points
// are available or the fit degenerates.
func Trendline(points []Point) (slope, intercept float64, ok bool) {
	if len(points) < 2 {
		return 0, 0, false
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(i)
		ys[i] = p.Value
	}

	intercept, slope = stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(slope) || math.IsInf(slope, 0) || math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		return 0, 0, false
	}
	return slope, intercept, true
}
