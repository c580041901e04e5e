// Command viewer serves a read-only HTML view of an imported file:
// sheet picker, row filters, chart series. It mutates nothing; the
// document is built once at startup from the file on the command line.
package main

import (
	"flag"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"sheetpilot/domain/grid"
	"sheetpilot/internal/chart"
	"sheetpilot/internal/importer"
	"sheetpilot/internal/query"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 10px; }
th { background: #f0f0f0; }
.tabs a { margin-right: 1rem; }
.tabs a.active { font-weight: bold; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="tabs">
{{range $i, $s := .Sheets}}<a href="?sheet={{$i}}" {{if eq $i $.ActiveIndex}}class="active"{{end}}>{{$s}}</a>{{end}}
</div>
<form method="GET">
<input type="hidden" name="sheet" value="{{.ActiveIndex}}">
<input name="text" placeholder="search" value="{{.Text}}">
<input name="column" placeholder="Column:value" value="{{.Column}}">
<button>Filter</button>
</form>
<p>{{.Count}} row(s){{if .Series}}, chartable series: {{len .Series}} point(s){{end}}</p>
<table>
<tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}
</table>
</body>
</html>`

type viewer struct {
	doc      grid.Document
	template *template.Template
}

type pageData struct {
	Title       string
	Sheets      []string
	ActiveIndex int
	Headers     []string
	Rows        [][]string
	Count       int
	Text        string
	Column      string
	Series      []chart.Point
}

func main() {
	port := flag.String("port", "8090", "listen port")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: viewer [-port PORT] <file>")
		os.Exit(1)
	}
	path := flag.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("cannot read %s: %v", path, err)
	}
	outcome, err := importer.Import(path, data)
	if err != nil {
		log.Fatalf("cannot import %s: %v", path, err)
	}

	doc := grid.NewDocument()
	if outcome.Replacement != nil {
		doc = *outcome.Replacement
	} else {
		for _, sheet := range outcome.Sheets {
			doc, _ = grid.AppendSheet(doc, sheet)
		}
		doc.Active = 0
	}

	v := &viewer{
		doc:      doc,
		template: template.Must(template.New("page").Parse(pageTemplate)),
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Get("/", v.handleIndex)

	log.Printf("[Viewer] Serving %s on :%s (%d sheets)", path, *port, len(doc.Sheets))
	if err := http.ListenAndServe(":"+*port, r); err != nil {
		log.Fatal(err)
	}
}

func (v *viewer) handleIndex(w http.ResponseWriter, r *http.Request) {
	active := 0
	if raw := r.URL.Query().Get("sheet"); raw != "" {
		if i, err := strconv.Atoi(raw); err == nil && i >= 0 && i < len(v.doc.Sheets) {
			active = i
		}
	}

	data := pageData{
		Title:       "Workbook Viewer",
		ActiveIndex: active,
		Text:        r.URL.Query().Get("text"),
		Column:      r.URL.Query().Get("column"),
	}
	for _, s := range v.doc.Sheets {
		data.Sheets = append(data.Sheets, s.Name)
	}

	if active < len(v.doc.Sheets) {
		sheet := &v.doc.Sheets[active]
		data.Headers = sheet.Headers
		data.Series = chart.InferSeries(sheet)

		matches := query.Filter(sheet, data.Text, data.Column)
		data.Count = len(matches)
		for _, m := range matches {
			row := make([]string, len(m.Row))
			for i, cell := range m.Row {
				row[i] = cell.String()
			}
			data.Rows = append(data.Rows, row)
		}
	}

	if err := v.template.Execute(w, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
