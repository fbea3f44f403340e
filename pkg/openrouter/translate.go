package openrouter

import "github.com/orbit-llm/orbit/pkg/api"

// BuildChatRequest translates a conversation plus generation options into
// the Chat Completions wire format. A non-empty SystemPrompt is prepended
// as a system message unless the conversation already starts with one.
func BuildChatRequest(messages []api.Message, opts api.GenerationOptions) *ChatCompletionRequest {
	wireMessages := make([]ChatMessage, 0, len(messages)+1)

	if opts.SystemPrompt != "" && (len(messages) == 0 || messages[0].Role != api.RoleSystem) {
		wireMessages = append(wireMessages, ChatMessage{
			Role:    string(api.RoleSystem),
			Content: opts.SystemPrompt,
		})
	}

	for _, m := range messages {
		wireMessages = append(wireMessages, ChatMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	return &ChatCompletionRequest{
		Model:       opts.Model,
		Messages:    wireMessages,
		Temperature: opts.Temperature,
		TopP:        opts.TopP,
		MaxTokens:   opts.MaxTokens,
	}
}
