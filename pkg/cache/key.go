package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"strconv"

	"github.com/orbit-llm/orbit/pkg/api"
)

// Key derives the cache key for a conversation plus generation options.
//
// The key is the full hex SHA-256 of a canonical, length-delimited encoding
// of every message in order and every option that affects model output.
// Identical inputs always produce identical keys; changing any single field
// produces a different key. The hash is never truncated: a shortened prefix
// invites collisions between unrelated conversations.
func Key(messages []api.Message, opts api.GenerationOptions) string {
	h := sha256.New()

	writeField(h, "model", opts.Model)
	writeField(h, "system", opts.SystemPrompt)
	writeField(h, "temperature", formatFloat(opts.Temperature))
	writeField(h, "max_tokens", formatInt(opts.MaxTokens))
	writeField(h, "top_p", formatFloat(opts.TopP))

	for _, m := range messages {
		writeField(h, string(m.Role), m.Content)
	}

	return hex.EncodeToString(h.Sum(nil))
}

// writeField writes a length-delimited name/value pair. Length prefixes
// keep adjacent fields from bleeding into each other ("ab"+"c" vs "a"+"bc").
func writeField(h hash.Hash, name, value string) {
	var lenBuf [8]byte

	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(name)))
	h.Write(lenBuf[:])
	h.Write([]byte(name))

	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(value)))
	h.Write(lenBuf[:])
	h.Write([]byte(value))
}

// formatFloat encodes an optional float so that nil and zero differ.
func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

// formatInt encodes an optional int so that nil and zero differ.
func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
