package ports

import (
	"context"

	"sheetpilot/models"
)

// GeneratorPort produces workbook sheets from a natural-language
// prompt. The call is opaque to the core: whatever comes back is
// validated against the canonical sheet schema before it is accepted,
// and an invalid payload rejects the whole response.
type GeneratorPort interface {
	Generate(ctx context.Context, req models.GenerateRequest) (*models.GenerateResponse, error)
}
