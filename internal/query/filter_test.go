package query

import (
	"fmt"
	"testing"

	"sheetpilot/domain/grid"
)

func categorySheet() *grid.Sheet {
	return &grid.Sheet{
		Name:    "Spending",
		Headers: []string{"Item", "Category", "Total"},
		Rows: []grid.Row{
			{grid.TextCell("Rent"), grid.TextCell("Housing"), grid.NumberCell(1200)},
			{grid.TextCell("Groceries"), grid.TextCell("Food"), grid.NumberCell(300)},
			{grid.TextCell("Takeout"), grid.TextCell("Food"), grid.NumberCell(150)},
		},
	}
}

func TestFreeTextFilter(t *testing.T) {
	got := Filter(categorySheet(), "FOOD", "")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].Index != 1 || got[1].Index != 2 {
		t.Errorf("expected original row indices preserved, got %d and %d", got[0].Index, got[1].Index)
	}
}

// Numeric cells participate in the text filter through their string
// form.
func TestFreeTextFilterMatchesNumbers(t *testing.T) {
	got := Filter(categorySheet(), "1200", "")
	if len(got) != 1 || got[0].Index != 0 {
		t.Errorf("expected to match the Rent row, got %+v", got)
	}
}

func TestColumnFilter(t *testing.T) {
	got := Filter(categorySheet(), "", "Category:Food")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	for _, m := range got {
		if m.Row.Cell(1).String() != "Food" {
			t.Errorf("row %d does not match the column filter", m.Index)
		}
	}
}

// The value side of the filter may itself contain colons; only the
// first colon splits.
func TestColumnFilterSplitsOnFirstColon(t *testing.T) {
	sheet := &grid.Sheet{
		Headers: []string{"When"},
		Rows:    []grid.Row{{grid.TextCell("12:30:00")}, {grid.TextCell("09:00:00")}},
	}
	got := Filter(sheet, "", "When:12:30:00")
	if len(got) != 1 || got[0].Index != 0 {
		t.Errorf("expected exact match on 12:30:00, got %+v", got)
	}
}

// An unknown column name disables the filter entirely instead of
// excluding everything.
func TestColumnFilterUnknownHeaderIgnored(t *testing.T) {
	got := Filter(categorySheet(), "", "Missing:Food")
	if len(got) != 3 {
		t.Errorf("expected full row set when the column is unknown, got %d", len(got))
	}
}

func TestColumnFilterWithoutColonIgnored(t *testing.T) {
	got := Filter(categorySheet(), "", "CategoryFood")
	if len(got) != 3 {
		t.Errorf("expected full row set for malformed filter, got %d", len(got))
	}
}

// Both filters compose by intersection, text first.
func TestFiltersIntersect(t *testing.T) {
	got := Filter(categorySheet(), "takeout", "Category:Food")
	if len(got) != 1 || got[0].Index != 2 {
		t.Errorf("expected only the Takeout row, got %+v", got)
	}

	got = Filter(categorySheet(), "rent", "Category:Food")
	if len(got) != 0 {
		t.Errorf("expected empty intersection, got %d", len(got))
	}
}

// Ragged rows are filterable; missing cells read as empty.
func TestFilterRaggedRows(t *testing.T) {
	sheet := &grid.Sheet{
		Headers: []string{"a", "b"},
		Rows: []grid.Row{
			{grid.TextCell("x")},
			{grid.TextCell("y"), grid.TextCell("z")},
		},
	}
	got := Filter(sheet, "", "b:z")
	if len(got) != 1 || got[0].Index != 1 {
		t.Errorf("expected only the full row to match, got %+v", got)
	}
	got = Filter(sheet, "", "b:")
	if len(got) != 1 || got[0].Index != 0 {
		t.Errorf("expected the short row to match empty value, got %+v", got)
	}
}

func TestDisplayCap(t *testing.T) {
	sheet := &grid.Sheet{Headers: []string{"n"}}
	for i := 0; i < DisplayCap+100; i++ {
		sheet.Rows = append(sheet.Rows, grid.Row{grid.TextCell(fmt.Sprintf("row %d", i))})
	}
	got := Filter(sheet, "", "")
	if len(got) != DisplayCap {
		t.Errorf("expected results capped at %d, got %d", DisplayCap, len(got))
	}
}

func TestFilterNilSheet(t *testing.T) {
	if got := Filter(nil, "x", "y:z"); got != nil {
		t.Errorf("expected nil for nil sheet, got %v", got)
	}
}
