// Package client composes the resilient request pipeline: response cache,
// rate limiter, retry policy, and the OpenRouter executor, in that order.
//
// Control flow per call: cache lookup (hit returns immediately), admission
// (deny or block), one rate-limiter tick, then the executor under the retry
// policy, and finally a cache fill on success.
package client

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/orbit-llm/orbit/pkg/api"
	"github.com/orbit-llm/orbit/pkg/cache"
	"github.com/orbit-llm/orbit/pkg/config"
	"github.com/orbit-llm/orbit/pkg/observability"
	"github.com/orbit-llm/orbit/pkg/openrouter"
	"github.com/orbit-llm/orbit/pkg/ratelimit"
	"github.com/orbit-llm/orbit/pkg/retry"
)

// Client is the public entry point of the pipeline. It is safe for
// concurrent use; the cache and limiter serialize their own state.
type Client struct {
	cfg      config.Config
	executor *openrouter.Client
	cache    *cache.Cache // nil when disabled
	limiter  *ratelimit.Limiter
	policy   retry.Policy
	logger   *slog.Logger

	// sleep is used while blocking for a rate-limit slot; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New builds a Client from a validated configuration.
func New(cfg config.Config) *Client {
	c := &Client{
		cfg: cfg,
		executor: openrouter.New(openrouter.Config{
			BaseURL: cfg.API.BaseURL,
			APIKey:  cfg.API.Key,
			Referer: cfg.API.Referer,
			Title:   cfg.API.Title,
			Timeout: cfg.API.Timeout,
		}),
		limiter: ratelimit.New(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window),
		policy: retry.Policy{
			MaxAttempts:   cfg.Retry.MaxAttempts,
			BaseDelay:     cfg.Retry.BaseDelay,
			MaxDelay:      cfg.Retry.MaxDelay,
			BackoffFactor: cfg.Retry.BackoffFactor,
		},
		logger: slog.Default(),
		sleep:  ctxSleep,
	}

	if cfg.Cache.Enabled {
		c.cache = cache.NewWithClock(cfg.Cache.TTL, time.Now)
	}

	return c
}

// GenerateCompletion runs one non-streaming completion through the full
// pipeline and returns the result with its token usage.
func (c *Client) GenerateCompletion(ctx context.Context, messages []api.Message, opts api.GenerationOptions) (*api.GenerationResult, error) {
	requestID := uuid.NewString()
	start := time.Now()

	resolved, err := c.prepare(messages, opts)
	if err != nil {
		return nil, err
	}

	log := c.logger.With("request_id", requestID, "model", resolved.Model)

	var key string
	if c.cache != nil {
		key = cache.Key(messages, resolved)
		if result, ok := c.cache.Get(key); ok {
			log.Debug("cache hit")
			observability.CacheEventsTotal.WithLabelValues("hit").Inc()
			observability.RequestsTotal.WithLabelValues("generate", resolved.Model, "cached").Inc()
			return result, nil
		}
		observability.CacheEventsTotal.WithLabelValues("miss").Inc()
	}

	if err := c.admit(ctx, log); err != nil {
		observability.RequestsTotal.WithLabelValues("generate", resolved.Model, "rejected").Inc()
		return nil, err
	}
	c.limiter.Record()

	result, err := c.executeWithRetry(ctx, log, messages, resolved)
	if err != nil {
		observability.RequestsTotal.WithLabelValues("generate", resolved.Model, "error").Inc()
		return nil, err
	}

	if c.cache != nil {
		c.cache.Set(key, result)
		observability.CacheEventsTotal.WithLabelValues("fill").Inc()
	}

	observability.RequestsTotal.WithLabelValues("generate", resolved.Model, "ok").Inc()
	observability.RequestDuration.WithLabelValues("generate", resolved.Model).Observe(time.Since(start).Seconds())
	observability.TokensTotal.WithLabelValues(resolved.Model, "prompt").Add(float64(result.Usage.PromptTokens))
	observability.TokensTotal.WithLabelValues(resolved.Model, "completion").Add(float64(result.Usage.CompletionTokens))

	log.Debug("completion finished",
		"total_tokens", result.Usage.TotalTokens,
		"duration", time.Since(start),
	)

	return result, nil
}

// executeWithRetry runs the executor under the retry policy, counting each
// failed attempt by classification.
func (c *Client) executeWithRetry(ctx context.Context, log *slog.Logger, messages []api.Message, resolved api.GenerationOptions) (*api.GenerationResult, error) {
	req := openrouter.BuildChatRequest(messages, resolved)

	return retry.Do(ctx, c.policy, func(ctx context.Context) (*api.GenerationResult, error) {
		result, err := c.executor.Complete(ctx, req)
		if err != nil {
			log.Warn("attempt failed", "kind", api.KindOf(err), "error", err)
			observability.RetryAttemptsTotal.WithLabelValues(string(api.KindOf(err))).Inc()
		}
		return result, err
	})
}

// prepare validates the call and resolves unset options to configured
// defaults.
func (c *Client) prepare(messages []api.Message, opts api.GenerationOptions) (api.GenerationOptions, error) {
	if err := api.ValidateMessages(messages); err != nil {
		return opts, err
	}
	if err := api.ValidateOptions(opts); err != nil {
		return opts, err
	}

	if opts.Model == "" {
		opts.Model = c.cfg.Defaults.Model
	}
	if opts.Temperature == nil {
		opts.Temperature = api.Float64Ptr(c.cfg.Defaults.Temperature)
	}
	if opts.MaxTokens == nil {
		opts.MaxTokens = api.IntPtr(c.cfg.Defaults.MaxTokens)
	}
	if opts.TopP == nil {
		opts.TopP = api.Float64Ptr(c.cfg.Defaults.TopP)
	}

	return opts, nil
}

// admit gates the call on the sliding window. Depending on configuration it
// either fails fast with a rate-limit error carrying the suggested wait, or
// blocks until a slot frees. Nothing is recorded here: a caller that is
// denied, or cancelled while waiting, leaves no trace in the window.
func (c *Client) admit(ctx context.Context, log *slog.Logger) error {
	if err := ctx.Err(); err != nil {
		return api.NewTimeoutError("request aborted: " + err.Error())
	}

	if c.limiter.Admit() {
		return nil
	}

	observability.RateLimitRejectedTotal.Inc()

	if !c.cfg.RateLimit.WaitForSlot {
		wait := c.limiter.TimeUntilReset()
		log.Debug("rate limit exceeded", "retry_after", wait)
		return api.NewRateLimitError("client-side rate limit exceeded", wait)
	}

	for !c.limiter.Admit() {
		wait := c.limiter.TimeUntilReset()
		if wait <= 0 {
			wait = time.Millisecond
		}
		log.Debug("waiting for rate limit slot", "wait", wait)
		if err := c.sleep(ctx, wait); err != nil {
			return api.NewTimeoutError("request aborted: " + err.Error())
		}
	}
	return nil
}

// Close releases the underlying HTTP resources.
func (c *Client) Close() error {
	return c.executor.Close()
}

func ctxSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
