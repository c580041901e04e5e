package ports

import (
	"context"

	"sheetpilot/domain/core"
	"sheetpilot/models"
)

// WorkbookRepository stores named workbook snapshots outside the
// session. Store failures never affect the in-memory document.
type WorkbookRepository interface {
	// Save inserts or updates a workbook record
	Save(ctx context.Context, record *models.WorkbookRecord) error

	// Get retrieves a workbook by ID
	Get(ctx context.Context, id core.WorkbookID) (*models.WorkbookRecord, error)

	// List returns all workbooks, most recently updated first
	List(ctx context.Context) ([]*models.WorkbookRecord, error)

	// Delete removes a workbook by ID
	Delete(ctx context.Context, id core.WorkbookID) error
}
