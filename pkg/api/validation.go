package api

import "fmt"

// ValidateMessages checks the conversation for validity. It returns an
// *Error describing the first validation failure, or nil when the
// conversation is valid.
func ValidateMessages(messages []Message) *Error {
	if len(messages) == 0 {
		return NewInvalidRequestError("messages", "messages must contain at least one entry")
	}

	for i, m := range messages {
		switch m.Role {
		case RoleUser, RoleAssistant, RoleSystem:
		default:
			return NewInvalidRequestError("messages",
				fmt.Sprintf("message %d has unknown role %q", i, m.Role))
		}
	}

	return nil
}

// ValidateOptions checks generation options for validity. Unset pointer
// fields are skipped; they resolve to defaults later.
func ValidateOptions(opts GenerationOptions) *Error {
	if opts.Temperature != nil {
		if *opts.Temperature < 0.0 || *opts.Temperature > 2.0 {
			return NewInvalidRequestError("temperature", "temperature must be between 0.0 and 2.0")
		}
	}

	if opts.TopP != nil {
		if *opts.TopP < 0.0 || *opts.TopP > 1.0 {
			return NewInvalidRequestError("top_p", "top_p must be between 0.0 and 1.0")
		}
	}

	if opts.MaxTokens != nil && *opts.MaxTokens <= 0 {
		return NewInvalidRequestError("max_tokens", "max_tokens must be positive")
	}

	return nil
}
