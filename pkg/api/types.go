package api

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one turn of a conversation. Messages are treated as immutable
// once created; an ordered slice of them forms the conversation sent to the
// model.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserMessage builds a user-role message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage builds an assistant-role message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// SystemMessage builds a system-role message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// GenerationOptions holds the model and sampling parameters for one call.
// Zero-valued fields fall back to configured defaults before dispatch.
// Pointer fields distinguish "not set" from an explicit zero.
type GenerationOptions struct {
	Model        string
	Temperature  *float64 // [0, 2]
	MaxTokens    *int     // > 0
	TopP         *float64 // [0, 1]
	SystemPrompt string
}

// Usage holds token accounting for one completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// GenerationResult is the outcome of one successful completion call.
// Produced once and never mutated afterwards.
type GenerationResult struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Usage   Usage  `json:"usage"`
}

// Float64Ptr returns a pointer to v. Convenience for GenerationOptions.
func Float64Ptr(v float64) *float64 { return &v }

// IntPtr returns a pointer to v. Convenience for GenerationOptions.
func IntPtr(v int) *int { return &v }
