package ui

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sheetpilot/domain/core"
	"sheetpilot/domain/grid"
	"sheetpilot/internal/chart"
	"sheetpilot/internal/errors"
	"sheetpilot/internal/export"
	"sheetpilot/internal/profile"
	"sheetpilot/internal/query"
	"sheetpilot/models"
)

func (s *Server) handleGetDocument(c *gin.Context) {
	doc, err := s.bench.Snapshot()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"document": doc,
		"can_undo": s.bench.CanUndo(),
		"can_redo": s.bench.CanRedo(),
	})
}

func (s *Server) handleGetSheet(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	doc, err := s.bench.Snapshot()
	if err != nil {
		respondError(c, err)
		return
	}
	sheet := doc.SheetAt(index)
	if sheet == nil {
		respondError(c, errors.NotFound("sheet"))
		return
	}
	c.JSON(http.StatusOK, sheet)
}

func (s *Server) handleSetActive(c *gin.Context) {
	var body struct {
		Index int `json:"index"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, errors.InvalidInput("invalid request body"))
		return
	}
	if err := s.bench.SetActive(body.Index); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": body.Index})
}

func (s *Server) handleSetCell(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	var body struct {
		Row   int             `json:"row"`
		Col   int             `json:"col"`
		Value json.RawMessage `json:"value"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, errors.InvalidInput("invalid request body"))
		return
	}

	var cell grid.Cell
	if len(body.Value) > 0 {
		if err := cell.UnmarshalJSON(body.Value); err != nil {
			respondError(c, errors.InvalidInput("unsupported cell value"))
			return
		}
	}

	s.mutate(c, func(doc grid.Document) (grid.Document, error) {
		return grid.SetCell(doc, index, body.Row, body.Col, cell)
	})
}

func (s *Server) handleAddRow(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	s.mutate(c, func(doc grid.Document) (grid.Document, error) {
		return grid.AddRow(doc, index)
	})
}

func (s *Server) handleAddColumn(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	s.mutate(c, func(doc grid.Document) (grid.Document, error) {
		return grid.AddColumn(doc, index)
	})
}

func (s *Server) handleDeleteRow(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	row, ok := intParam(c, "row")
	if !ok {
		return
	}
	s.mutate(c, func(doc grid.Document) (grid.Document, error) {
		return grid.DeleteRow(doc, index, row)
	})
}

func (s *Server) handleDeleteColumn(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	col, ok := intParam(c, "col")
	if !ok {
		return
	}
	s.mutate(c, func(doc grid.Document) (grid.Document, error) {
		return grid.DeleteColumn(doc, index, col)
	})
}

func (s *Server) handleDuplicateSheet(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	s.mutate(c, func(doc grid.Document) (grid.Document, error) {
		return grid.DuplicateSheet(doc, index)
	})
}

func (s *Server) handleDeleteSheet(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	s.mutate(c, func(doc grid.Document) (grid.Document, error) {
		return grid.DeleteSheet(doc, index)
	})
}

func (s *Server) handleUndo(c *gin.Context) {
	if err := s.bench.Undo(); err != nil {
		respondError(c, err)
		return
	}
	s.handleGetDocument(c)
}

func (s *Server) handleRedo(c *gin.Context) {
	if err := s.bench.Redo(); err != nil {
		respondError(c, err)
		return
	}
	s.handleGetDocument(c)
}

func (s *Server) handleImport(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, errors.InvalidInput("missing file upload"))
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		respondError(c, errors.Wrap(err, "failed to open upload"))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		respondError(c, errors.Wrap(err, "failed to read upload"))
		return
	}

	if err := s.bench.ImportFile(fileHeader.Filename, data); err != nil {
		respondError(c, err)
		return
	}
	s.handleGetDocument(c)
}

func (s *Server) handleGenerate(c *gin.Context) {
	if s.generator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "generation is not configured"})
		return
	}

	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput("invalid request body"))
		return
	}

	resp, err := s.generator.Generate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	entry, err := s.bench.AcceptGeneration(req.Prompt, resp)
	if err != nil && errors.GetCode(err) != errors.CodePersistenceError {
		respondError(c, err)
		return
	}

	payload := gin.H{"entry_id": entry.ID, "sheets": len(resp.Sheets)}
	if err != nil {
		// The replacement is already applied; persistence failure is
		// surfaced without rolling back.
		payload["warning"] = err.Error()
	}
	c.JSON(http.StatusOK, payload)
}

func (s *Server) handleHistory(c *gin.Context) {
	entries := s.bench.History()
	out := make([]gin.H, len(entries))
	for i, e := range entries {
		out[i] = gin.H{
			"id":        e.ID,
			"timestamp": e.Timestamp,
			"prompt":    e.Prompt,
			"sheets":    len(e.Document.Sheets),
		}
	}
	c.JSON(http.StatusOK, gin.H{"entries": out})
}

func (s *Server) handleRestoreEntry(c *gin.Context) {
	if err := s.bench.RestoreEntry(core.EntryID(c.Param("id"))); err != nil {
		respondError(c, err)
		return
	}
	s.handleGetDocument(c)
}

func (s *Server) handleQuery(c *gin.Context) {
	doc, err := s.bench.Snapshot()
	if err != nil {
		respondError(c, err)
		return
	}
	matches := query.Filter(doc.ActiveSheet(), c.Query("text"), c.Query("column"))
	if matches == nil {
		matches = []query.Match{}
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches, "count": len(matches)})
}

func (s *Server) handleChart(c *gin.Context) {
	doc, err := s.bench.Snapshot()
	if err != nil {
		respondError(c, err)
		return
	}
	points := chart.InferSeries(doc.ActiveSheet())
	if points == nil {
		points = []chart.Point{}
	}

	payload := gin.H{"points": points}
	if slope, intercept, ok := chart.Trendline(points); ok {
		payload["trend"] = gin.H{"slope": slope, "intercept": intercept}
	}
	c.JSON(http.StatusOK, payload)
}

func (s *Server) handleStats(c *gin.Context) {
	doc, err := s.bench.Snapshot()
	if err != nil {
		respondError(c, err)
		return
	}
	summaries := profile.Summarize(doc.ActiveSheet())
	if summaries == nil {
		summaries = []profile.ColumnSummary{}
	}
	c.JSON(http.StatusOK, gin.H{"columns": summaries})
}

func (s *Server) handleExportCSV(c *gin.Context) {
	doc, err := s.bench.Snapshot()
	if err != nil {
		respondError(c, err)
		return
	}
	sheet := doc.ActiveSheet()
	if sheet == nil {
		respondError(c, errors.NotFound("active sheet"))
		return
	}
	out, err := export.SheetCSV(sheet)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+sheet.Name+`.csv"`)
	c.Data(http.StatusOK, "text/csv", out)
}

func (s *Server) handleExportJSON(c *gin.Context) {
	doc, err := s.bench.Snapshot()
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := export.DocumentJSON(doc)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", out)
}

func (s *Server) handleExportXLSX(c *gin.Context) {
	doc, err := s.bench.Snapshot()
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := export.DocumentXLSX(doc)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="workbook.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", out)
}

func (s *Server) handleExportReport(c *gin.Context) {
	doc, err := s.bench.Snapshot()
	if err != nil {
		respondError(c, err)
		return
	}
	if c.Query("format") == "html" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", export.ReportHTML(doc))
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", export.Report(doc))
}

func (s *Server) handleListWorkbooks(c *gin.Context) {
	if s.workbooks == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "workbook store is not configured"})
		return
	}
	records, err := s.workbooks.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workbooks": records})
}

func (s *Server) handleSaveWorkbook(c *gin.Context) {
	if s.workbooks == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "workbook store is not configured"})
		return
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Name == "" {
		respondError(c, errors.InvalidInput("workbook name is required"))
		return
	}

	doc, err := s.bench.Snapshot()
	if err != nil {
		respondError(c, err)
		return
	}
	payload, err := export.DocumentJSON(doc)
	if err != nil {
		respondError(c, err)
		return
	}

	record := &models.WorkbookRecord{
		ID:       core.WorkbookID(core.NewID()),
		Name:     body.Name,
		Document: string(payload),
	}
	if err := s.workbooks.Save(c.Request.Context(), record); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": record.ID, "name": record.Name})
}

func (s *Server) handleGetWorkbook(c *gin.Context) {
	if s.workbooks == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "workbook store is not configured"})
		return
	}
	record, err := s.workbooks.Get(c.Request.Context(), core.WorkbookID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) handleLoadWorkbook(c *gin.Context) {
	if s.workbooks == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "workbook store is not configured"})
		return
	}
	record, err := s.workbooks.Get(c.Request.Context(), core.WorkbookID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}

	var stored struct {
		Sheets []grid.Sheet `json:"sheets"`
	}
	if err := json.Unmarshal([]byte(record.Document), &stored); err != nil {
		respondError(c, errors.FormatError("stored workbook is corrupt", err))
		return
	}

	// Loading replaces the document through the same undo discipline
	// as any other mutation.
	if err := s.bench.Apply(func(grid.Document) (grid.Document, error) {
		doc := grid.Document{Sheets: stored.Sheets, Active: 0}
		doc.ClampActive()
		return doc.Clone()
	}); err != nil {
		respondError(c, err)
		return
	}
	s.handleGetDocument(c)
}

func (s *Server) handleDeleteWorkbook(c *gin.Context) {
	if s.workbooks == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "workbook store is not configured"})
		return
	}
	if err := s.workbooks.Delete(c.Request.Context(), core.WorkbookID(c.Param("id"))); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// mutate runs one document mutation and answers with the refreshed
// document payload.
// Out-of-range indices are caller bugs; they come back as 400, never
// as partial writes.
func (s *Server) mutate(c *gin.Context, op func(grid.Document) (grid.Document, error)) {
	if err := s.bench.Apply(op); err != nil {
		if stderrors.Is(err, grid.ErrOutOfRange) {
			err = errors.WithCode(errors.CodeInvalidInput, err)
		}
		respondError(c, err)
		return
	}
	s.handleGetDocument(c)
}

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		respondError(c, errors.InvalidInput("parameter "+name+" must be an integer"))
		return 0, false
	}
	return v, true
}
