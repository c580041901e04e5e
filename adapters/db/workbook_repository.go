// Package db stores named workbook snapshots through sqlx. The driver
// follows the DSN: postgres:// URLs connect through lib/pq, anything
// else is treated as a SQLite file path. Queries are written with ?
// placeholders and rebound per driver, so both backends share the same
// SQL.
package db

import (
	"context"
	"database/sql"
	"log"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"sheetpilot/domain/core"
	"sheetpilot/internal/errors"
	"sheetpilot/models"
	"sheetpilot/ports"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know
	// a bindvar style for.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

const schema = `
CREATE TABLE IF NOT EXISTS workbooks (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	document   TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// WorkbookRepositoryImpl implements ports.WorkbookRepository over sqlx.
type WorkbookRepositoryImpl struct {
	db *sqlx.DB
}

// Open connects to the store named by the DSN and ensures the schema
// exists.
func Open(dsn string) (*WorkbookRepositoryImpl, error) {
	driver := "sqlite"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = "postgres"
	}

	conn, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to workbook store (%s)", driver)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to initialize workbook schema")
	}

	log.Printf("[WorkbookStore] Connected via %s", driver)
	return &WorkbookRepositoryImpl{db: conn}, nil
}

// NewWorkbookRepository wraps an existing connection; the caller owns
// its lifecycle.
func NewWorkbookRepository(db *sqlx.DB) ports.WorkbookRepository {
	return &WorkbookRepositoryImpl{db: db}
}

var _ ports.WorkbookRepository = (*WorkbookRepositoryImpl)(nil)

// Close releases the underlying connection.
func (r *WorkbookRepositoryImpl) Close() error {
	return r.db.Close()
}

// Save inserts the record, or updates name/document/updated_at when
// the ID already exists.
func (r *WorkbookRepositoryImpl) Save(ctx context.Context, record *models.WorkbookRecord) error {
	now := time.Now().UTC()
	record.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE workbooks SET name = ?, document = ?, updated_at = ? WHERE id = ?
	`), record.Name, record.Document, record.UpdatedAt, record.ID)
	if err != nil {
		return errors.PersistenceError("failed to update workbook", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}

	record.CreatedAt = now
	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO workbooks (id, name, document, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`), record.ID, record.Name, record.Document, record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return errors.PersistenceError("failed to insert workbook", err)
	}
	return nil
}

// Get retrieves a workbook by ID.
func (r *WorkbookRepositoryImpl) Get(ctx context.Context, id core.WorkbookID) (*models.WorkbookRecord, error) {
	var record models.WorkbookRecord
	err := r.db.GetContext(ctx, &record, r.db.Rebind(`
		SELECT id, name, document, created_at, updated_at FROM workbooks WHERE id = ?
	`), id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("workbook")
	}
	if err != nil {
		return nil, errors.PersistenceError("failed to load workbook", err)
	}
	return &record, nil
}

// List returns all workbooks, most recently updated first.
func (r *WorkbookRepositoryImpl) List(ctx context.Context) ([]*models.WorkbookRecord, error) {
	var records []*models.WorkbookRecord
	err := r.db.SelectContext(ctx, &records, `
		SELECT id, name, document, created_at, updated_at FROM workbooks ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, errors.PersistenceError("failed to list workbooks", err)
	}
	return records, nil
}

// Delete removes a workbook by ID. Deleting an unknown ID reports
// NotFound.
func (r *WorkbookRepositoryImpl) Delete(ctx context.Context, id core.WorkbookID) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM workbooks WHERE id = ?`), id)
	if err != nil {
		return errors.PersistenceError("failed to delete workbook", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NotFound("workbook")
	}
	return nil
}
