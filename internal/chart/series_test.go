package chart

import (
	"math"
	"testing"

	"sheetpilot/domain/grid"
)

func TestInferSeriesKeywordColumn(t *testing.T) {
	sheet := &grid.Sheet{
		Headers: []string{"Item", "Total"},
		Rows: []grid.Row{
			{grid.TextCell("A"), grid.NumberCell(10)},
			{grid.TextCell("B"), grid.NumberCell(20)},
		},
	}
	got := InferSeries(sheet)
	want := []Point{{Name: "A", Value: 10}, {Name: "B", Value: 20}}
	if len(got) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

// Keyword matching is case-insensitive containment, and earlier
// keyword columns win over later numeric ones.
func TestInferSeriesKeywordVariants(t *testing.T) {
	tests := []struct {
		header  string
		wantIdx int
	}{
		{"VALUE", 1},
		{"Quantity", 1},
		{"qtd", 1},
		{"Grand Total", 1},
	}
	for _, tt := range tests {
		sheet := &grid.Sheet{
			Headers: []string{"Name", tt.header, "Other"},
			Rows:    []grid.Row{{grid.TextCell("x"), grid.NumberCell(5), grid.NumberCell(9)}},
		}
		got := InferSeries(sheet)
		if len(got) != 1 || got[0].Value != 5 {
			t.Errorf("header %q: expected value from column 1, got %+v", tt.header, got)
		}
	}
}

// Without a keyword header, the first numeric cell of the first data
// row picks the column.
func TestInferSeriesNumericFallback(t *testing.T) {
	sheet := &grid.Sheet{
		Headers: []string{"City", "Region", "Population"},
		Rows: []grid.Row{
			{grid.TextCell("Lisbon"), grid.TextCell("South"), grid.NumberCell(545000)},
			{grid.TextCell("Porto"), grid.TextCell("North"), grid.NumberCell(231000)},
		},
	}
	got := InferSeries(sheet)
	if got[0].Value != 545000 || got[1].Value != 231000 {
		t.Errorf("expected population column selected, got %+v", got)
	}
}

// No keyword and no numeric cell in the first row: column 1.
func TestInferSeriesIndexOneFallback(t *testing.T) {
	sheet := &grid.Sheet{
		Headers: []string{"a", "b", "c"},
		Rows: []grid.Row{
			{grid.TextCell("x"), grid.TextCell("7"), grid.TextCell("other")},
		},
	}
	got := InferSeries(sheet)
	if len(got) != 1 || got[0].Value != 7 {
		t.Errorf("expected string coercion of column 1, got %+v", got)
	}
}

func TestInferSeriesFewHeaders(t *testing.T) {
	sheet := &grid.Sheet{Headers: []string{"only"}}
	if got := InferSeries(sheet); got != nil {
		t.Errorf("expected nil for fewer than 2 headers, got %v", got)
	}
	if got := InferSeries(nil); got != nil {
		t.Errorf("expected nil for nil sheet, got %v", got)
	}
}

// Rows with an empty name are skipped entirely; unparseable values are
// recorded as 0 without dropping the row.
func TestInferSeriesRowPolicy(t *testing.T) {
	sheet := &grid.Sheet{
		Headers: []string{"Name", "Value"},
		Rows: []grid.Row{
			{grid.EmptyCell(), grid.NumberCell(1)},
			{grid.TextCell(""), grid.NumberCell(2)},
			{grid.TextCell("kept"), grid.TextCell("not a number")},
			{grid.TextCell("blank"), grid.EmptyCell()},
			{grid.TextCell("short")},
		},
	}
	got := InferSeries(sheet)
	if len(got) != 3 {
		t.Fatalf("expected 3 points, got %d: %+v", len(got), got)
	}
	for _, p := range got {
		if p.Value != 0 {
			t.Errorf("expected value 0 for %q, got %v", p.Name, p.Value)
		}
	}
}

func TestInferSeriesNonFiniteBecomesZero(t *testing.T) {
	sheet := &grid.Sheet{
		Headers: []string{"Name", "Value"},
		Rows: []grid.Row{
			{grid.TextCell("inf"), grid.NumberCell(math.Inf(1))},
			{grid.TextCell("nan"), grid.NumberCell(math.NaN())},
		},
	}
	got := InferSeries(sheet)
	if got[0].Value != 0 || got[1].Value != 0 {
		t.Errorf("expected non-finite values recorded as 0, got %+v", got)
	}
}

func TestTrendline(t *testing.T) {
	points := []Point{{Value: 1}, {Value: 3}, {Value: 5}, {Value: 7}}
	slope, intercept, ok := Trendline(points)
	if !ok {
		t.Fatal("expected a fit")
	}
	if math.Abs(slope-2) > 1e-9 || math.Abs(intercept-1) > 1e-9 {
		t.Errorf("expected slope 2 intercept 1, got %v and %v", slope, intercept)
	}
}

func TestTrendlineTooFewPoints(t *testing.T) {
	if _, _, ok := Trendline([]Point{{Value: 4}}); ok {
		t.Error("expected no fit for a single point")
	}
}
