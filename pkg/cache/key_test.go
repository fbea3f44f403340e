package cache

import (
	"testing"

	"github.com/orbit-llm/orbit/pkg/api"
)

func baseMessages() []api.Message {
	return []api.Message{
		api.SystemMessage("be brief"),
		api.UserMessage("hello"),
	}
}

func baseOptions() api.GenerationOptions {
	return api.GenerationOptions{
		Model:        "openai/gpt-4o-mini",
		Temperature:  api.Float64Ptr(0.7),
		MaxTokens:    api.IntPtr(1024),
		TopP:         api.Float64Ptr(0.9),
		SystemPrompt: "sp",
	}
}

func TestKeyIsDeterministic(t *testing.T) {
	k1 := Key(baseMessages(), baseOptions())
	k2 := Key(baseMessages(), baseOptions())
	if k1 != k2 {
		t.Errorf("identical inputs produced different keys:\n%s\n%s", k1, k2)
	}
	if len(k1) != 64 {
		t.Errorf("key length = %d, want 64 (full sha256 hex)", len(k1))
	}
}

func TestKeySensitivity(t *testing.T) {
	base := Key(baseMessages(), baseOptions())

	mutations := []struct {
		name string
		msgs []api.Message
		opts api.GenerationOptions
	}{
		{"model", baseMessages(), func() api.GenerationOptions {
			o := baseOptions()
			o.Model = "openai/gpt-4o"
			return o
		}()},
		{"temperature", baseMessages(), func() api.GenerationOptions {
			o := baseOptions()
			o.Temperature = api.Float64Ptr(0.8)
			return o
		}()},
		{"max_tokens", baseMessages(), func() api.GenerationOptions {
			o := baseOptions()
			o.MaxTokens = api.IntPtr(2048)
			return o
		}()},
		{"top_p", baseMessages(), func() api.GenerationOptions {
			o := baseOptions()
			o.TopP = api.Float64Ptr(0.95)
			return o
		}()},
		{"system_prompt", baseMessages(), func() api.GenerationOptions {
			o := baseOptions()
			o.SystemPrompt = "different"
			return o
		}()},
		{"message content", []api.Message{
			api.SystemMessage("be brief"),
			api.UserMessage("goodbye"),
		}, baseOptions()},
		{"message order", []api.Message{
			api.UserMessage("hello"),
			api.SystemMessage("be brief"),
		}, baseOptions()},
		{"extra message", append(baseMessages(), api.UserMessage("more")), baseOptions()},
	}

	seen := map[string]string{base: "base"}
	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			k := Key(tt.msgs, tt.opts)
			if k == base {
				t.Errorf("mutating %s did not change the key", tt.name)
			}
			if prev, dup := seen[k]; dup {
				t.Errorf("key collision between %s and %s", tt.name, prev)
			}
			seen[k] = tt.name
		})
	}
}

func TestKeyUnsetVersusZeroOptions(t *testing.T) {
	msgs := baseMessages()

	unset := Key(msgs, api.GenerationOptions{Model: "m"})
	zero := Key(msgs, api.GenerationOptions{Model: "m", Temperature: api.Float64Ptr(0)})
	if unset == zero {
		t.Error("nil temperature and explicit 0 map to the same key")
	}
}

func TestKeyFieldBoundaries(t *testing.T) {
	// Length delimiting keeps adjacent fields from bleeding together.
	a := Key([]api.Message{api.UserMessage("ab")}, api.GenerationOptions{Model: "c"})
	b := Key([]api.Message{api.UserMessage("a")}, api.GenerationOptions{Model: "bc"})
	if a == b {
		t.Error("field boundary collision")
	}
}
