// Package api defines the core types for the orbit OpenRouter client.
//
// This package provides the data model shared by every layer of the request
// pipeline: conversation messages, generation options, completion results,
// and the structured error taxonomy used for retry decisions.
//
// The package has zero external dependencies (Go standard library only) and
// performs no I/O.
//
// Core types:
//   - [Message]: One turn of a conversation (user, assistant, or system)
//   - [GenerationOptions]: Model and sampling parameters for one call
//   - [GenerationResult]: Completion text plus token usage
//   - [Error]: Structured error with a classification kind driving retries
package api
