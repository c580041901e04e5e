package profile

import (
	"math"
	"testing"

	"sheetpilot/domain/grid"
)

func TestSummarizeMixedColumns(t *testing.T) {
	sheet := &grid.Sheet{
		Headers: []string{"Label", "Amount"},
		Rows: []grid.Row{
			{grid.TextCell("a"), grid.NumberCell(10)},
			{grid.TextCell("b"), grid.NumberCell(20)},
			{grid.TextCell("c"), grid.NumberCell(30)},
			{grid.TextCell("d"), grid.TextCell("30")},
		},
	}

	got := Summarize(sheet)
	if len(got) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(got))
	}

	label := got[0]
	if label.Count != 0 {
		t.Errorf("text column should have count 0, got %d", label.Count)
	}

	amount := got[1]
	// Numeric-looking text does not count; only typed numbers do.
	if amount.Count != 3 {
		t.Fatalf("expected 3 numeric cells, got %d", amount.Count)
	}
	if amount.Min != 10 || amount.Max != 30 {
		t.Errorf("min/max = %v/%v, want 10/30", amount.Min, amount.Max)
	}
	if amount.Mean != 20 || amount.Median != 20 {
		t.Errorf("mean/median = %v/%v, want 20/20", amount.Mean, amount.Median)
	}
	if math.Abs(amount.StdDev-10) > 1e-9 {
		t.Errorf("sample stddev = %v, want 10", amount.StdDev)
	}
}

func TestSummarizeRaggedRows(t *testing.T) {
	sheet := &grid.Sheet{
		Headers: []string{"a", "b"},
		Rows: []grid.Row{
			{grid.NumberCell(1)},
			{grid.NumberCell(2), grid.NumberCell(5)},
		},
	}
	got := Summarize(sheet)
	if got[1].Count != 1 || got[1].Mean != 5 {
		t.Errorf("short rows should contribute nothing to column b, got %+v", got[1])
	}
}

func TestSummarizeSingleValueNoStdDev(t *testing.T) {
	sheet := &grid.Sheet{
		Headers: []string{"x"},
		Rows:    []grid.Row{{grid.NumberCell(7)}},
	}
	got := Summarize(sheet)
	if got[0].StdDev != 0 {
		t.Errorf("single observation should report stddev 0, got %v", got[0].StdDev)
	}
}

func TestSummarizeNilSheet(t *testing.T) {
	if got := Summarize(nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}
