// Package openrouter implements the HTTP executor for the OpenRouter
// Chat Completions API: request construction, response parsing, error
// classification, and SSE stream decoding.
//
// The package performs exactly one outbound call per invocation and holds
// no shared pipeline state; caching, rate limiting, and retries live in the
// layers above (pkg/client).
package openrouter
