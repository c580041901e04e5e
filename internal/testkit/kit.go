// Package testkit provides fixtures and in-memory port fakes shared by
// tests across the module.
package testkit

import (
	"context"
	"sync"

	"sheetpilot/domain/grid"
	"sheetpilot/models"
)

// BudgetDocument returns a two-sheet fixture with typed cells: a
// chartable expenses sheet and a second sheet with ragged rows.
func BudgetDocument() grid.Document {
	return grid.Document{
		Sheets: []grid.Sheet{
			{
				Name:    "Expenses",
				Headers: []string{"Item", "Total"},
				Rows: []grid.Row{
					{grid.TextCell("Rent"), grid.NumberCell(1200)},
					{grid.TextCell("Food"), grid.NumberCell(450)},
					{grid.TextCell("Transport"), grid.NumberCell(90)},
				},
			},
			{
				Name:    "Notes",
				Headers: []string{"Topic", "Done", "Detail"},
				Rows: []grid.Row{
					{grid.TextCell("taxes"), grid.BoolCell(true), grid.TextCell("filed in April")},
					{grid.TextCell("insurance")},
				},
			},
		},
		Active: 0,
	}
}

// GeneratedResponse returns a minimal valid generation response.
func GeneratedResponse(sheetName string) *models.GenerateResponse {
	return &models.GenerateResponse{
		Sheets: []grid.Sheet{
			{
				Name:    sheetName,
				Headers: []string{"Name", "Value"},
				Rows: []grid.Row{
					{grid.TextCell("alpha"), grid.NumberCell(1)},
					{grid.TextCell("beta"), grid.NumberCell(2)},
				},
			},
		},
	}
}

// MemoryHistoryRepository is an in-memory ports.HistoryRepository.
// Setting FailSave or FailLoad injects persistence failures.
type MemoryHistoryRepository struct {
	mu       sync.Mutex
	entries  []models.HistoryEntry
	FailSave error
	FailLoad error
	Saves    int
}

// NewMemoryHistoryRepository creates an empty in-memory history log.
func NewMemoryHistoryRepository() *MemoryHistoryRepository {
	return &MemoryHistoryRepository{}
}

func (r *MemoryHistoryRepository) Load() ([]models.HistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailLoad != nil {
		return nil, r.FailLoad
	}
	out := make([]models.HistoryEntry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

func (r *MemoryHistoryRepository) Save(entries []models.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Saves++
	if r.FailSave != nil {
		return r.FailSave
	}
	r.entries = make([]models.HistoryEntry, len(entries))
	copy(r.entries, entries)
	return nil
}

// Entries returns a copy of what the fake currently holds.
func (r *MemoryHistoryRepository) Entries() []models.HistoryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.HistoryEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// StubGenerator is a ports.GeneratorPort returning a fixed response or
// error. It records the last request it saw.
type StubGenerator struct {
	Response *models.GenerateResponse
	Err      error
	LastReq  models.GenerateRequest
}

func (g *StubGenerator) Generate(_ context.Context, req models.GenerateRequest) (*models.GenerateResponse, error) {
	g.LastReq = req
	if g.Err != nil {
		return nil, g.Err
	}
	return g.Response, nil
}
