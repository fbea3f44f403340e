package openrouter

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/orbit-llm/orbit/pkg/api"
)

// StreamEventType discriminates the events produced while decoding a stream.
type StreamEventType string

const (
	// StreamEventDelta carries one incremental text fragment.
	StreamEventDelta StreamEventType = "delta"
	// StreamEventDone signals normal termination ([DONE] or finish_reason).
	StreamEventDone StreamEventType = "done"
	// StreamEventError signals a fatal stream-level failure.
	StreamEventError StreamEventType = "error"
)

// StreamEvent is one element of the decoded SSE stream.
type StreamEvent struct {
	Type         StreamEventType
	Delta        string
	FinishReason string
	Usage        *api.Usage
	Err          error
}

// ParseSSEStream reads Chat Completions SSE records from body and sends the
// decoded events on ch. The channel is NOT closed by this function; the
// caller is responsible for closing it.
//
// SSE format expected:
//
//	data: {"id":"...","choices":[{"delta":{"content":"..."}}]}\n
//	\n
//	data: [DONE]\n
//	\n
//
// Partial lines are buffered across reads; a record is only decoded once its
// terminating newline arrives. Malformed records are logged and skipped.
// Context cancellation stops reading immediately. No event is ever sent
// after a done or error event.
func ParseSSEStream(ctx context.Context, body io.Reader, ch chan<- StreamEvent) {
	scanner := bufio.NewScanner(body)

	for scanner.Scan() {
		// Check for context cancellation between lines.
		if ctx.Err() != nil {
			return
		}

		line := scanner.Text()

		// SSE lines that don't start with "data: " are ignored
		// (e.g., empty lines, comments starting with ":").
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		payload := strings.TrimPrefix(line, "data: ")

		// The [DONE] sentinel terminates the stream without a final value.
		if payload == "[DONE]" {
			ch <- StreamEvent{Type: StreamEventDone}
			return
		}

		var chunk ChatCompletionChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			slog.Warn("skipping malformed SSE chunk",
				"error", err.Error(),
				"data", truncate(payload, 200),
			)
			continue
		}

		if done := emitChunk(&chunk, ch); done {
			return
		}
	}

	// Scanner error (e.g., connection dropped). Context cancellation is not
	// an error from our perspective.
	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return
		}
		ch <- StreamEvent{
			Type: StreamEventError,
			Err:  api.NewNetworkError("SSE stream read error: " + err.Error()),
		}
	}
}

// emitChunk translates one decoded chunk into events on ch and reports
// whether the stream is finished.
func emitChunk(chunk *ChatCompletionChunk, ch chan<- StreamEvent) bool {
	// A usage-only chunk has no choices.
	if len(chunk.Choices) == 0 {
		if chunk.Usage != nil {
			ch <- StreamEvent{
				Type:  StreamEventDone,
				Usage: chunkUsage(chunk),
			}
			return true
		}
		return false
	}

	choice := chunk.Choices[0]

	if choice.FinishReason != nil && *choice.FinishReason != "" {
		// A final chunk may still carry trailing content.
		if choice.Delta.Content != nil && *choice.Delta.Content != "" {
			ch <- StreamEvent{Type: StreamEventDelta, Delta: *choice.Delta.Content}
		}
		ch <- StreamEvent{
			Type:         StreamEventDone,
			FinishReason: *choice.FinishReason,
			Usage:        chunkUsage(chunk),
		}
		return true
	}

	if choice.Delta.Content != nil && *choice.Delta.Content != "" {
		ch <- StreamEvent{Type: StreamEventDelta, Delta: *choice.Delta.Content}
	}

	// Role-only or empty deltas (some backends send them) carry nothing.
	return false
}

func chunkUsage(chunk *ChatCompletionChunk) *api.Usage {
	if chunk.Usage == nil {
		return nil
	}
	return &api.Usage{
		PromptTokens:     chunk.Usage.PromptTokens,
		CompletionTokens: chunk.Usage.CompletionTokens,
		TotalTokens:      chunk.Usage.TotalTokens,
	}
}

// truncate limits a string to maxLen characters for log output.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
