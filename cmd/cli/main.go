// Command cli works the editing core from the terminal: import files
// into a canonical workbook document, export it, and inspect its chart
// series and column statistics without a running server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"sheetpilot/adapters/llm"
	"sheetpilot/domain/grid"
	"sheetpilot/internal/chart"
	"sheetpilot/internal/config"
	"sheetpilot/internal/export"
	"sheetpilot/internal/importer"
	"sheetpilot/internal/profile"
	"sheetpilot/models"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sheetpilot-cli",
		Short: "Import, export and inspect workbook documents",
	}

	rootCmd.AddCommand(
		newImportCmd(),
		newExportCmd(),
		newChartCmd(),
		newStatsCmd(),
		newGenerateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newImportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import files into one canonical workbook document",
		Long: `Import one or more files (.xlsx, .xls, .csv, .json) into a single
document. Files are parsed in parallel and appended in input order; a
.json file in the {sheets:[...]} shape replaces everything imported
before it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outcomes := make([]importer.Outcome, len(args))

			g, _ := errgroup.WithContext(cmd.Context())
			for i, path := range args {
				g.Go(func() error {
					data, err := os.ReadFile(path)
					if err != nil {
						return fmt.Errorf("read %s: %w", path, err)
					}
					outcome, err := importer.Import(path, data)
					if err != nil {
						return fmt.Errorf("import %s: %w", path, err)
					}
					outcomes[i] = outcome
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			doc := grid.NewDocument()
			for _, outcome := range outcomes {
				if outcome.Replacement != nil {
					doc = *outcome.Replacement
					continue
				}
				for _, sheet := range outcome.Sheets {
					var err error
					doc, err = grid.AppendSheet(doc, sheet)
					if err != nil {
						return err
					}
				}
			}
			doc.Active = 0
			doc.ClampActive()

			payload, err := export.DocumentJSON(doc)
			if err != nil {
				return err
			}
			return writeOutput(out, payload)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newExportCmd() *cobra.Command {
	var format string
	var sheetIndex int
	var out string

	cmd := &cobra.Command{
		Use:   "export [document.json]",
		Short: "Export a workbook document as csv, json, xlsx or report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}

			var payload []byte
			switch strings.ToLower(format) {
			case "csv":
				sheet := doc.SheetAt(sheetIndex)
				if sheet == nil {
					return fmt.Errorf("sheet %d out of range", sheetIndex)
				}
				payload, err = export.SheetCSV(sheet)
			case "json":
				payload, err = export.DocumentJSON(doc)
			case "xlsx":
				payload, err = export.DocumentXLSX(doc)
			case "report":
				payload = export.Report(doc)
			case "html":
				payload = export.ReportHTML(doc)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
			if err != nil {
				return err
			}
			return writeOutput(out, payload)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "csv | json | xlsx | report | html")
	cmd.Flags().IntVar(&sheetIndex, "sheet", 0, "sheet index for csv export")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newChartCmd() *cobra.Command {
	var sheetIndex int

	cmd := &cobra.Command{
		Use:   "chart [document.json]",
		Short: "Print the inferred name/value series for a sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			sheet := doc.SheetAt(sheetIndex)
			if sheet == nil {
				return fmt.Errorf("sheet %d out of range", sheetIndex)
			}

			points := chart.InferSeries(sheet)
			for _, p := range points {
				fmt.Printf("%-24s %g\n", p.Name, p.Value)
			}
			if slope, intercept, ok := chart.Trendline(points); ok {
				fmt.Printf("\ntrend: slope %.4g, intercept %.4g\n", slope, intercept)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&sheetIndex, "sheet", 0, "sheet index")
	return cmd
}

func newStatsCmd() *cobra.Command {
	var sheetIndex int

	cmd := &cobra.Command{
		Use:   "stats [document.json]",
		Short: "Print numeric column summaries for a sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			sheet := doc.SheetAt(sheetIndex)
			if sheet == nil {
				return fmt.Errorf("sheet %d out of range", sheetIndex)
			}

			fmt.Printf("%-20s %6s %10s %10s %10s %10s %10s\n",
				"column", "count", "min", "max", "mean", "median", "stddev")
			for _, s := range profile.Summarize(sheet) {
				fmt.Printf("%-20s %6d %10g %10g %10g %10g %10g\n",
					s.Header, s.Count, s.Min, s.Max, s.Mean, s.Median, s.StdDev)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&sheetIndex, "sheet", 0, "sheet index")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var rows, cols int
	var headers bool
	var sheets []string
	var out string

	cmd := &cobra.Command{
		Use:   "generate [prompt]",
		Short: "Generate a workbook document from a prompt",
		Long: `Call the configured generation service (GENERATOR_URL,
GENERATOR_KEY) and print the resulting document in canonical JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			gen := llm.NewSheetGenerator(cfg.Generator)
			resp, err := gen.Generate(context.Background(), models.GenerateRequest{
				Prompt: args[0],
				Options: models.GenerateOptions{
					Rows:    rows,
					Cols:    cols,
					Headers: headers,
					Sheets:  sheets,
				},
			})
			if err != nil {
				return err
			}

			payload, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return err
			}
			return writeOutput(out, payload)
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 10, "target row count")
	cmd.Flags().IntVar(&cols, "cols", 4, "target column count")
	cmd.Flags().BoolVar(&headers, "headers", true, "generate a header row")
	cmd.Flags().StringSliceVar(&sheets, "sheets", nil, "sheet name hints")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

// loadDocument reads a canonical {sheets:[...]} JSON document.
func loadDocument(path string) (grid.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return grid.Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	var doc grid.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return grid.Document{}, fmt.Errorf("parse %s: %w", path, err)
	}
	doc.ClampActive()
	return doc, nil
}

func writeOutput(path string, payload []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(payload)
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}
