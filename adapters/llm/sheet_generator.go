// Package llm talks to the external sheet-generation service: a JSON
// HTTP endpoint that turns a natural-language prompt into workbook
// sheets. The core treats the call as opaque; everything that comes
// back is validated against the canonical schema before acceptance.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"sheetpilot/internal/config"
	"sheetpilot/internal/errors"
	"sheetpilot/models"
	"sheetpilot/ports"
)

// SheetGenerator implements ports.GeneratorPort over HTTP.
type SheetGenerator struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	client  *http.Client
}

// NewSheetGenerator creates a generator client from configuration.
func NewSheetGenerator(cfg config.GeneratorConfig) *SheetGenerator {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	log.Printf("[SheetGenerator] Initializing client for %s (timeout %v)", cfg.URL, timeout)
	return &SheetGenerator{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

var _ ports.GeneratorPort = (*SheetGenerator)(nil)

// Generate posts the prompt and options and validates the response
// schema. An invalid payload is rejected wholesale; nothing partial is
// ever accepted. In-flight calls are not cancelled by newer ones —
// whichever response lands last wins at the engine.
func (g *SheetGenerator) Generate(ctx context.Context, req models.GenerateRequest) (*models.GenerateResponse, error) {
	if g.baseURL == "" {
		return nil, errors.ConfigInvalid("generator URL is not configured")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.Normalize()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal generation request")
	}

	log.Printf("[SheetGenerator] Requesting generation (prompt %d chars, %d sheet hints)",
		len(req.Prompt), len(req.Options.Sheets))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build generation request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.ExternalServiceError("generator", errors.Wrapf(err, "timeout after %v", g.timeout))
		}
		return nil, errors.ExternalServiceError("generator", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.ExternalServiceError("generator", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("[SheetGenerator] ERROR: status %d: %s", resp.StatusCode, raw)
		return nil, errors.ExternalServiceError("generator",
			errors.New(errors.CodeExternalService, http.StatusText(resp.StatusCode)))
	}

	content := cleanJSONContent(string(raw))

	var out models.GenerateResponse
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		log.Printf("[SheetGenerator] ERROR: response is not valid JSON: %v", err)
		return nil, errors.ValidationError("generation response is not valid JSON")
	}
	if err := out.Validate(); err != nil {
		log.Printf("[SheetGenerator] ERROR: response failed schema validation: %v", err)
		return nil, err
	}

	log.Printf("[SheetGenerator] Generation accepted (%d sheets)", len(out.Sheets))
	return &out, nil
}

// cleanJSONContent strips a markdown code fence when the service wraps
// its JSON body in one.
func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") && strings.HasSuffix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") && strings.HasSuffix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}
	return content
}
