package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/orbit-llm/orbit/pkg/api"
	"github.com/orbit-llm/orbit/pkg/debug"
)

// DefaultBaseURL is the public OpenRouter API root.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

// Config holds the static settings for a Client.
type Config struct {
	BaseURL string
	APIKey  string

	// Referer and Title identify the calling application to OpenRouter
	// (sent as HTTP-Referer and X-Title).
	Referer string
	Title   string

	// Timeout bounds non-streaming requests. Zero selects a default.
	Timeout time.Duration
}

// Client performs HTTP requests against the OpenRouter Chat Completions
// backend. It is safe for concurrent use and carries no per-request state.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	referer    string
	title      string
}

// New creates a Client from cfg. The base URL is normalized and the
// timeout defaulted; the API key is checked lazily at call time so a
// misconfigured client fails with a classified error, not a panic.
func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		referer:    cfg.Referer,
		title:      cfg.Title,
	}
}

// Complete performs one non-streaming completion call. It validates its
// preconditions before any network access and classifies every failure.
func (c *Client) Complete(ctx context.Context, req *ChatCompletionRequest) (*api.GenerationResult, error) {
	if err := c.precheck(req); err != nil {
		return nil, err
	}

	reqCopy := *req
	reqCopy.Stream = false

	httpResp, err := c.post(ctx, &reqCopy)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, mapHTTPError(httpResp)
	}

	var chatResp ChatCompletionResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&chatResp); err != nil {
		return nil, api.NewServerError(fmt.Sprintf("failed to parse backend response: %s", err.Error()))
	}

	if len(chatResp.Choices) == 0 {
		return nil, api.NewServerError("backend response contained no choices")
	}

	result := &api.GenerationResult{
		Content: chatResp.Choices[0].Message.Content,
		Model:   chatResp.Model,
	}
	if chatResp.Usage != nil {
		result.Usage = api.Usage{
			PromptTokens:     chatResp.Usage.PromptTokens,
			CompletionTokens: chatResp.Usage.CompletionTokens,
			TotalTokens:      chatResp.Usage.TotalTokens,
		}
	}

	return result, nil
}

// Stream performs one streaming completion call. It returns a channel of
// StreamEvents that is closed when the stream completes, fails, or the
// context is cancelled. The response body is released on every exit path.
//
// The HTTP client timeout is not applied for streaming requests because a
// stream can legitimately outlast any fixed timeout; the context controls
// the request lifetime instead.
func (c *Client) Stream(ctx context.Context, req *ChatCompletionRequest) (<-chan StreamEvent, error) {
	if err := c.precheck(req); err != nil {
		return nil, err
	}

	reqCopy := *req
	reqCopy.Stream = true

	body, err := json.Marshal(&reqCopy)
	if err != nil {
		return nil, api.NewInvalidRequestError("", fmt.Sprintf("failed to marshal request: %s", err.Error()))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, api.NewInvalidRequestError("", fmt.Sprintf("failed to create HTTP request: %s", err.Error()))
	}
	c.setHeaders(httpReq)
	httpReq.Header.Set("Accept", "text/event-stream")

	// Streaming uses a client without timeout; the context governs lifetime.
	streamClient := &http.Client{Transport: c.httpClient.Transport}
	debug.Log("streaming", "stream request", "url", httpReq.URL.String(), "model", req.Model)
	httpResp, err := streamClient.Do(httpReq)
	if err != nil {
		return nil, mapTransportError(ctx, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		defer httpResp.Body.Close()
		return nil, mapHTTPError(httpResp)
	}

	ch := make(chan StreamEvent, 16)
	go func() {
		defer close(ch)
		defer httpResp.Body.Close()
		ParseSSEStream(ctx, httpResp.Body, ch)
	}()

	return ch, nil
}

// precheck validates the executor preconditions before any network access.
func (c *Client) precheck(req *ChatCompletionRequest) error {
	if c.apiKey == "" {
		return api.NewAuthenticationError("API key is not configured")
	}
	if req == nil || len(req.Messages) == 0 {
		return api.NewInvalidRequestError("messages", "messages must contain at least one entry")
	}
	return nil
}

// post marshals req and issues the POST to /chat/completions.
func (c *Client) post(ctx context.Context, req *ChatCompletionRequest) (*http.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, api.NewInvalidRequestError("", fmt.Sprintf("failed to marshal request: %s", err.Error()))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, api.NewInvalidRequestError("", fmt.Sprintf("failed to create HTTP request: %s", err.Error()))
	}
	c.setHeaders(httpReq)

	debug.Log("transport", "completion request", "url", httpReq.URL.String(), "model", req.Model)
	if debug.TraceIsEnabled("transport") {
		debug.Raw("transport", string(body))
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, mapTransportError(ctx, err)
	}
	debug.Log("transport", "completion response", "status", httpResp.StatusCode)
	return httpResp, nil
}

// setHeaders applies the authorization and identification headers.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.referer != "" {
		req.Header.Set("HTTP-Referer", c.referer)
	}
	if c.title != "" {
		req.Header.Set("X-Title", c.title)
	}
}

// Close releases client resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
