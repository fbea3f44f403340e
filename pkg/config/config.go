// Package config provides unified configuration for the orbit client.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (ORBIT_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the orbit client.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Defaults  DefaultsConfig  `yaml:"defaults"`
	Retry     RetryConfig     `yaml:"retry"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
	Cache     CacheConfig     `yaml:"cache"`
}

// APIConfig holds OpenRouter endpoint and credential settings.
type APIConfig struct {
	Key     string `yaml:"key"`      // required (or key_file)
	KeyFile string `yaml:"key_file"` // _file variant for key
	BaseURL string `yaml:"base_url"` // default: https://openrouter.ai/api/v1

	// Referer and Title are sent as the HTTP-Referer and X-Title
	// identifying headers on every request.
	Referer string `yaml:"referer"`
	Title   string `yaml:"title"`

	Timeout time.Duration `yaml:"timeout"` // default: 120s
}

// DefaultsConfig holds generation parameters applied when a call does not
// override them.
type DefaultsConfig struct {
	Model       string  `yaml:"model"`       // default: openai/gpt-4o-mini
	Temperature float64 `yaml:"temperature"` // default: 0.7
	MaxTokens   int     `yaml:"max_tokens"`  // default: 1024
	TopP        float64 `yaml:"top_p"`       // default: 1.0
}

// RetryConfig holds retry-with-backoff settings.
type RetryConfig struct {
	MaxAttempts   int           `yaml:"max_attempts"`   // default: 3
	BaseDelay     time.Duration `yaml:"base_delay"`     // default: 1s
	MaxDelay      time.Duration `yaml:"max_delay"`      // default: 30s
	BackoffFactor float64       `yaml:"backoff_factor"` // default: 2
}

// RateLimitConfig holds sliding-window admission settings.
type RateLimitConfig struct {
	MaxRequests int           `yaml:"max_requests"` // default: 20
	Window      time.Duration `yaml:"window"`       // default: 1m

	// WaitForSlot blocks until a slot frees instead of failing fast with
	// a rate-limit error.
	WaitForSlot bool `yaml:"wait_for_slot"`
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"` // default: true
	TTL     time.Duration `yaml:"ttl"`     // default: 5m
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		API: APIConfig{
			BaseURL: "https://openrouter.ai/api/v1",
			Timeout: 120 * time.Second,
		},
		Defaults: DefaultsConfig{
			Model:       "openai/gpt-4o-mini",
			Temperature: 0.7,
			MaxTokens:   1024,
			TopP:        1.0,
		},
		Retry: RetryConfig{
			MaxAttempts:   3,
			BaseDelay:     time.Second,
			MaxDelay:      30 * time.Second,
			BackoffFactor: 2,
		},
		RateLimit: RateLimitConfig{
			MaxRequests: 20,
			Window:      time.Minute,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     5 * time.Minute,
		},
	}
}
