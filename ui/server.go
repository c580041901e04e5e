// Package ui exposes the editing core over a JSON HTTP API. Rendering,
// chart drawing and keyboard dispatch live in the client; every route
// here is a thin translation onto a core operation.
package ui

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"sheetpilot/internal/engine"
	"sheetpilot/internal/errors"
	"sheetpilot/ports"
)

// Server wires the engine and its collaborator ports into a gin
// router.
type Server struct {
	router    *gin.Engine
	bench     *engine.Workbench
	generator ports.GeneratorPort
	workbooks ports.WorkbookRepository
}

// NewServer creates the API server. The generator and workbook store
// are optional; their routes answer 503 when unconfigured.
func NewServer(bench *engine.Workbench, generator ports.GeneratorPort, workbooks ports.WorkbookRepository) *Server {
	s := &Server{
		router:    gin.Default(),
		bench:     bench,
		generator: generator,
		workbooks: workbooks,
	}
	s.setupRoutes()
	return s
}

// Router exposes the underlying handler for serving and tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run starts the HTTP server on the given port.
func (s *Server) Run(port string) error {
	log.Printf("[Server] Listening on :%s", port)
	return s.router.Run(":" + port)
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")

	api.GET("/document", s.handleGetDocument)
	api.GET("/document/sheets/:index", s.handleGetSheet)
	api.POST("/document/active", s.handleSetActive)

	api.POST("/sheets/:index/cells", s.handleSetCell)
	api.POST("/sheets/:index/rows", s.handleAddRow)
	api.POST("/sheets/:index/columns", s.handleAddColumn)
	api.DELETE("/sheets/:index/rows/:row", s.handleDeleteRow)
	api.DELETE("/sheets/:index/columns/:col", s.handleDeleteColumn)
	api.POST("/sheets/:index/duplicate", s.handleDuplicateSheet)
	api.DELETE("/sheets/:index", s.handleDeleteSheet)

	api.POST("/undo", s.handleUndo)
	api.POST("/redo", s.handleRedo)

	api.POST("/import", s.handleImport)
	api.POST("/generate", s.handleGenerate)
	api.GET("/history", s.handleHistory)
	api.POST("/history/:id/restore", s.handleRestoreEntry)

	api.GET("/query", s.handleQuery)
	api.GET("/chart", s.handleChart)
	api.GET("/stats", s.handleStats)

	api.GET("/export/csv", s.handleExportCSV)
	api.GET("/export/json", s.handleExportJSON)
	api.GET("/export/xlsx", s.handleExportXLSX)
	api.GET("/export/report", s.handleExportReport)

	api.GET("/workbooks", s.handleListWorkbooks)
	api.POST("/workbooks", s.handleSaveWorkbook)
	api.GET("/workbooks/:id", s.handleGetWorkbook)
	api.POST("/workbooks/:id/load", s.handleLoadWorkbook)
	api.DELETE("/workbooks/:id", s.handleDeleteWorkbook)
}

// respondError maps the error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeValidationError, errors.CodeInvalidInput, errors.CodeConfigInvalid:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeFormatError:
		status = http.StatusUnprocessableEntity
	case errors.CodeExternalService:
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
}
