package export

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"sheetpilot/domain/grid"
	"sheetpilot/internal/chart"
	"sheetpilot/internal/profile"
)

// Report renders a markdown summary of the document: the sheet
// inventory, numeric column profiles, and a preview of the chart
// series inferred from each sheet.
func Report(doc grid.Document) []byte {
	var b strings.Builder

	b.WriteString("# Workbook Report\n\n")
	if doc.IsEmpty() {
		b.WriteString("The document is empty.\n")
		return []byte(b.String())
	}

	b.WriteString(fmt.Sprintf("%d sheet(s), active: **%s**\n\n", len(doc.Sheets), doc.Sheets[doc.Active].Name))

	for i := range doc.Sheets {
		sheet := &doc.Sheets[i]
		b.WriteString(fmt.Sprintf("## %s\n\n", sheet.Name))
		b.WriteString(fmt.Sprintf("%d column(s), %d row(s)\n\n", len(sheet.Headers), len(sheet.Rows)))

		writeProfileTable(&b, profile.Summarize(sheet))
		writeSeriesPreview(&b, chart.InferSeries(sheet))
	}
	return []byte(b.String())
}

// ReportHTML renders the markdown report as an HTML fragment.
func ReportHTML(doc grid.Document) []byte {
	md := Report(doc)
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(p.Parse(md), renderer)
}

func writeProfileTable(b *strings.Builder, summaries []profile.ColumnSummary) {
	numeric := 0
	for _, s := range summaries {
		if s.Count > 0 {
			numeric++
		}
	}
	if numeric == 0 {
		return
	}

	b.WriteString("| Column | Count | Min | Max | Mean | Median | StdDev |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, s := range summaries {
		if s.Count == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("| %s | %d | %g | %g | %g | %g | %g |\n",
			s.Header, s.Count, s.Min, s.Max, s.Mean, s.Median, s.StdDev))
	}
	b.WriteString("\n")
}

func writeSeriesPreview(b *strings.Builder, points []chart.Point) {
	if len(points) == 0 {
		return
	}

	const previewLimit = 5
	b.WriteString("Chart series preview:\n\n")
	for i, p := range points {
		if i == previewLimit {
			b.WriteString(fmt.Sprintf("- … %d more\n", len(points)-previewLimit))
			break
		}
		b.WriteString(fmt.Sprintf("- %s: %g\n", p.Name, p.Value))
	}

	if slope, intercept, ok := chart.Trendline(points); ok {
		b.WriteString(fmt.Sprintf("\nTrend: slope %.4g, intercept %.4g\n", slope, intercept))
	}
	b.WriteString("\n")
}
