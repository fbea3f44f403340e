package client

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/orbit-llm/orbit/pkg/api"
	"github.com/orbit-llm/orbit/pkg/observability"
	"github.com/orbit-llm/orbit/pkg/openrouter"
	"github.com/orbit-llm/orbit/pkg/retry"
)

// StreamCompletion runs one streaming completion through the pipeline and
// returns a lazy, single-pass sequence of text fragments plus a channel
// delivering at most one terminal error.
//
// Streaming responses are never cached. The retry policy applies only to
// establishing the stream; once fragments flow, a failure is terminal.
// Cancelling ctx stops emission and releases the connection.
func (c *Client) StreamCompletion(ctx context.Context, messages []api.Message, opts api.GenerationOptions) (<-chan string, <-chan error, error) {
	requestID := uuid.NewString()

	resolved, err := c.prepare(messages, opts)
	if err != nil {
		return nil, nil, err
	}

	log := c.logger.With("request_id", requestID, "model", resolved.Model)

	if err := c.admit(ctx, log); err != nil {
		observability.RequestsTotal.WithLabelValues("stream", resolved.Model, "rejected").Inc()
		return nil, nil, err
	}
	c.limiter.Record()

	req := openrouter.BuildChatRequest(messages, resolved)

	events, err := retry.Do(ctx, c.policy, func(ctx context.Context) (<-chan openrouter.StreamEvent, error) {
		ch, err := c.executor.Stream(ctx, req)
		if err != nil {
			log.Warn("stream attempt failed", "kind", api.KindOf(err), "error", err)
			observability.RetryAttemptsTotal.WithLabelValues(string(api.KindOf(err))).Inc()
		}
		return ch, err
	})
	if err != nil {
		observability.RequestsTotal.WithLabelValues("stream", resolved.Model, "error").Inc()
		return nil, nil, err
	}

	out := make(chan string, 16)
	errCh := make(chan error, 1)

	observability.StreamingConnections.Inc()
	start := time.Now()

	go func() {
		defer close(out)
		defer close(errCh)
		defer observability.StreamingConnections.Dec()

		status := "ok"
		for ev := range events {
			switch ev.Type {
			case openrouter.StreamEventDelta:
				select {
				case out <- ev.Delta:
				case <-ctx.Done():
					status = "cancelled"
					errCh <- api.NewTimeoutError("stream aborted: " + ctx.Err().Error())
					c.drain(events)
					goto done
				}
			case openrouter.StreamEventDone:
				if ev.Usage != nil {
					observability.TokensTotal.WithLabelValues(resolved.Model, "prompt").Add(float64(ev.Usage.PromptTokens))
					observability.TokensTotal.WithLabelValues(resolved.Model, "completion").Add(float64(ev.Usage.CompletionTokens))
				}
				goto done
			case openrouter.StreamEventError:
				status = "error"
				errCh <- ev.Err
				goto done
			}
		}

	done:
		observability.RequestsTotal.WithLabelValues("stream", resolved.Model, status).Inc()
		observability.RequestDuration.WithLabelValues("stream", resolved.Model).Observe(time.Since(start).Seconds())
		log.Debug("stream finished", "status", status, "duration", time.Since(start))
	}()

	return out, errCh, nil
}

// drain consumes remaining events so the producing goroutine can close the
// response body.
func (c *Client) drain(events <-chan openrouter.StreamEvent) {
	for range events {
	}
}
