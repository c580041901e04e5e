package importer

import (
	"testing"

	"github.com/xuri/excelize/v2"

	"sheetpilot/domain/grid"
	"sheetpilot/internal/errors"
)

func TestImportCSV(t *testing.T) {
	out, err := Import("data.csv", []byte("a,b\n1,2\n3,4"))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(out.Sheets) != 1 || out.Replacement != nil {
		t.Fatalf("expected one appended sheet, got %+v", out)
	}

	sheet := out.Sheets[0]
	if sheet.Name != "data" {
		t.Errorf("expected sheet named after file, got %q", sheet.Name)
	}
	wantHeaders := []string{"a", "b"}
	for i, h := range wantHeaders {
		if sheet.Headers[i] != h {
			t.Errorf("header %d = %q, want %q", i, sheet.Headers[i], h)
		}
	}
	// CSV cells are always text, never inferred numbers.
	wantRows := [][]string{{"1", "2"}, {"3", "4"}}
	for i, want := range wantRows {
		for j, cell := range want {
			got := sheet.Rows[i][j]
			if got.Kind != grid.KindText || got.Text != cell {
				t.Errorf("row %d col %d = %+v, want text %q", i, j, got, cell)
			}
		}
	}
}

func TestImportCSVCRLFAndBlankLines(t *testing.T) {
	out, err := Import("win.csv", []byte("h1,h2\r\n\r\nx,y\r\n"))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	sheet := out.Sheets[0]
	if len(sheet.Rows) != 1 {
		t.Fatalf("expected blank lines dropped, got %d rows", len(sheet.Rows))
	}
	if sheet.Rows[0][0].Text != "x" || sheet.Rows[0][1].Text != "y" {
		t.Errorf("unexpected row: %v", sheet.Rows[0])
	}
}

// The naive splitter has no quoting support: a quoted comma splits the
// field. Documented limitation, asserted so nobody fixes it silently.
func TestImportCSVNoQuoting(t *testing.T) {
	out, err := Import("q.csv", []byte("a,b\n\"x,y\",2"))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	row := out.Sheets[0].Rows[0]
	if len(row) != 3 {
		t.Fatalf("expected quoted comma to split the field into 3 cells, got %d", len(row))
	}
	if row[0].Text != `"x` || row[1].Text != `y"` {
		t.Errorf("unexpected split: %v", row)
	}
}

func TestImportJSONRecords(t *testing.T) {
	out, err := Import("recs.json", []byte(`[{"x":1},{"y":2}]`))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	sheet := out.Sheets[0]

	// Headers in first-seen order across records, not alphabetical.
	if len(sheet.Headers) != 2 || sheet.Headers[0] != "x" || sheet.Headers[1] != "y" {
		t.Fatalf("expected headers [x y], got %v", sheet.Headers)
	}

	if v, ok := sheet.Rows[0][0].Float(); !ok || v != 1 {
		t.Errorf("row 0 col 0 = %+v, want number 1", sheet.Rows[0][0])
	}
	if c := sheet.Rows[0][1]; c.Kind != grid.KindText || c.Text != "" {
		t.Errorf("missing key should be empty string, got %+v", c)
	}
	if c := sheet.Rows[1][0]; c.Kind != grid.KindText || c.Text != "" {
		t.Errorf("missing key should be empty string, got %+v", c)
	}
	if v, ok := sheet.Rows[1][1].Float(); !ok || v != 2 {
		t.Errorf("row 1 col 1 = %+v, want number 2", sheet.Rows[1][1])
	}
}

func TestImportJSONKeyOrderAcrossRecords(t *testing.T) {
	out, err := Import("order.json", []byte(`[{"z":1,"a":2},{"a":3,"m":4}]`))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	got := out.Sheets[0].Headers
	want := []string{"z", "a", "m"}
	if len(got) != len(want) {
		t.Fatalf("expected headers %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected headers %v, got %v", want, got)
		}
	}
}

func TestImportJSONDocumentReplacement(t *testing.T) {
	payload := `{"sheets":[{"name":"alpha/beta","headers":["h"],"rows":[["v"]]},{"name":"second","headers":[],"rows":[]}]}`
	out, err := Import("doc.json", []byte(payload))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if out.Replacement == nil {
		t.Fatal("expected a document replacement, got appended sheets")
	}
	doc := out.Replacement
	if len(doc.Sheets) != 2 {
		t.Fatalf("expected 2 sheets, got %d", len(doc.Sheets))
	}
	if doc.Sheets[0].Name != "alpha beta" {
		t.Errorf("expected sanitized sheet name, got %q", doc.Sheets[0].Name)
	}
	if doc.Active != 0 {
		t.Errorf("expected active index 0, got %d", doc.Active)
	}
}

func TestImportJSONMalformedAborts(t *testing.T) {
	_, err := Import("bad.json", []byte(`{not json`))
	if errors.GetCode(err) != errors.CodeFormatError {
		t.Errorf("expected FormatError for malformed JSON, got %v", err)
	}
}

// A valid JSON scalar is neither shape the importer accepts; it
// degrades to an empty named sheet instead of failing.
func TestImportJSONUnexpectedShape(t *testing.T) {
	out, err := Import("scalar.json", []byte(`42`))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	sheet := out.Sheets[0]
	if sheet.Name != "scalar" || len(sheet.Headers) != 0 || len(sheet.Rows) != 0 {
		t.Errorf("expected empty sheet named scalar, got %+v", sheet)
	}
}

func TestImportUnknownExtension(t *testing.T) {
	out, err := Import("notes.txt", []byte("whatever"))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	sheet := out.Sheets[0]
	if sheet.Name != "notes" {
		t.Errorf("expected sheet named after stripped filename, got %q", sheet.Name)
	}
	if len(sheet.Headers) != 0 || len(sheet.Rows) != 0 {
		t.Errorf("expected empty sheet, got %+v", sheet)
	}
}

func TestImportXLSXFirstSheetOnly(t *testing.T) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "First"); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	must := func(err error) {
		if err != nil {
			t.Fatalf("build workbook: %v", err)
		}
	}
	must(f.SetCellValue("First", "A1", "Item"))
	must(f.SetCellValue("First", "B1", "Total"))
	must(f.SetCellValue("First", "A2", "Rent"))
	must(f.SetCellValue("First", "B2", 1200))
	must(f.SetCellValue("First", "A3", "Paid"))
	must(f.SetCellValue("First", "B3", true))

	// A second worksheet that must be silently ignored.
	if _, err := f.NewSheet("Second"); err != nil {
		t.Fatalf("add sheet: %v", err)
	}
	must(f.SetCellValue("Second", "A1", "ignored"))

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("serialize workbook: %v", err)
	}

	out, err := Import("book.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(out.Sheets) != 1 {
		t.Fatalf("expected exactly one imported sheet, got %d", len(out.Sheets))
	}

	sheet := out.Sheets[0]
	if sheet.Name != "First" {
		t.Errorf("expected worksheet name First, got %q", sheet.Name)
	}
	if len(sheet.Headers) != 2 || sheet.Headers[0] != "Item" || sheet.Headers[1] != "Total" {
		t.Errorf("unexpected headers: %v", sheet.Headers)
	}
	if v, ok := sheet.Rows[0][1].Float(); !ok || v != 1200 {
		t.Errorf("expected numeric cell 1200, got %+v", sheet.Rows[0][1])
	}
	if c := sheet.Rows[1][1]; c.Kind != grid.KindBool || !c.Bool {
		t.Errorf("expected boolean cell true, got %+v", c)
	}
}

func TestImportXLSXCorruptDegrades(t *testing.T) {
	out, err := Import("broken.xlsx", []byte("not a zip archive"))
	if err != nil {
		t.Fatalf("Import should degrade, not fail: %v", err)
	}
	sheet := out.Sheets[0]
	if sheet.Name != "broken" || len(sheet.Rows) != 0 {
		t.Errorf("expected empty fallback sheet, got %+v", sheet)
	}
}
