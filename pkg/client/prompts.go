package client

import (
	"context"

	"github.com/orbit-llm/orbit/pkg/api"
)

// System prompts for the code-oriented convenience wrappers.
const (
	explainSystemPrompt = "You are an expert software engineer. Explain the given code " +
		"clearly and concisely: what it does, how it works, and any notable " +
		"pitfalls or edge cases. Use plain language."

	optimizeSystemPrompt = "You are an expert software engineer. Review the given code " +
		"and suggest concrete optimizations for readability, performance, and " +
		"idiomatic style. Show the improved code and explain each change briefly."

	generateSystemPrompt = "You are an expert software engineer. Write clean, idiomatic, " +
		"well-structured code that satisfies the given description. Include only " +
		"the code and brief usage notes."
)

// ExplainCode asks the model to explain the given source code.
func (c *Client) ExplainCode(ctx context.Context, code string, opts api.GenerationOptions) (*api.GenerationResult, error) {
	opts.SystemPrompt = explainSystemPrompt
	return c.GenerateCompletion(ctx, []api.Message{api.UserMessage(code)}, opts)
}

// OptimizeCode asks the model to suggest improvements for the given code.
func (c *Client) OptimizeCode(ctx context.Context, code string, opts api.GenerationOptions) (*api.GenerationResult, error) {
	opts.SystemPrompt = optimizeSystemPrompt
	return c.GenerateCompletion(ctx, []api.Message{api.UserMessage(code)}, opts)
}

// GenerateCode asks the model to produce code from a description.
func (c *Client) GenerateCode(ctx context.Context, description string, opts api.GenerationOptions) (*api.GenerationResult, error) {
	opts.SystemPrompt = generateSystemPrompt
	return c.GenerateCompletion(ctx, []api.Message{api.UserMessage(description)}, opts)
}
