package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// knownModels is a static lookup table of commonly used OpenRouter model
// identifiers. It is a convenience for callers that want offline listings
// or display names; ListModels queries the live catalog.
var knownModels = map[string]ModelInfo{
	"openai/gpt-4o":                  {ID: "openai/gpt-4o", Name: "GPT-4o", ContextLength: 128000},
	"openai/gpt-4o-mini":             {ID: "openai/gpt-4o-mini", Name: "GPT-4o mini", ContextLength: 128000},
	"anthropic/claude-3.5-sonnet":    {ID: "anthropic/claude-3.5-sonnet", Name: "Claude 3.5 Sonnet", ContextLength: 200000},
	"google/gemini-flash-1.5":        {ID: "google/gemini-flash-1.5", Name: "Gemini Flash 1.5", ContextLength: 1000000},
	"meta-llama/llama-3.1-70b-instruct": {ID: "meta-llama/llama-3.1-70b-instruct", Name: "Llama 3.1 70B", ContextLength: 131072},
	"mistralai/mistral-large":        {ID: "mistralai/mistral-large", Name: "Mistral Large", ContextLength: 128000},
}

// LookupModel returns the static table entry for id, if known.
func LookupModel(id string) (ModelInfo, bool) {
	m, ok := knownModels[id]
	return m, ok
}

// KnownModels returns the static model table as a slice.
func KnownModels() []ModelInfo {
	out := make([]ModelInfo, 0, len(knownModels))
	for _, m := range knownModels {
		out = append(out, m)
	}
	return out
}

// ListModels queries the live model catalog from the backend.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, mapTransportError(ctx, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, mapHTTPError(httpResp)
	}

	var modelsResp ModelsResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&modelsResp); err != nil {
		return nil, fmt.Errorf("failed to parse models response: %w", err)
	}

	return modelsResp.Data, nil
}
