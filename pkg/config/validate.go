package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	if c.API.Key == "" {
		errs = append(errs, fmt.Errorf("api.key or api.key_file is required"))
	}

	if c.API.BaseURL == "" {
		errs = append(errs, fmt.Errorf("api.base_url is required"))
	}

	if c.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("api.timeout must be > 0, got %s", c.API.Timeout))
	}

	if c.Defaults.Temperature < 0 || c.Defaults.Temperature > 2 {
		errs = append(errs, fmt.Errorf("defaults.temperature must be in [0, 2], got %g", c.Defaults.Temperature))
	}

	if c.Defaults.TopP < 0 || c.Defaults.TopP > 1 {
		errs = append(errs, fmt.Errorf("defaults.top_p must be in [0, 1], got %g", c.Defaults.TopP))
	}

	if c.Defaults.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("defaults.max_tokens must be > 0, got %d", c.Defaults.MaxTokens))
	}

	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("retry.max_attempts must be >= 1, got %d", c.Retry.MaxAttempts))
	}

	if c.Retry.BackoffFactor <= 1 {
		errs = append(errs, fmt.Errorf("retry.backoff_factor must be > 1, got %g", c.Retry.BackoffFactor))
	}

	if c.RateLimit.MaxRequests <= 0 {
		errs = append(errs, fmt.Errorf("ratelimit.max_requests must be > 0, got %d", c.RateLimit.MaxRequests))
	}

	if c.RateLimit.Window <= 0 {
		errs = append(errs, fmt.Errorf("ratelimit.window must be > 0, got %s", c.RateLimit.Window))
	}

	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		errs = append(errs, fmt.Errorf("cache.ttl must be > 0 when the cache is enabled, got %s", c.Cache.TTL))
	}

	return errors.Join(errs...)
}
