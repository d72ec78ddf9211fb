// Package llm defines the generative-text backend contract shared by all
// providers (Gemini, OpenAI-compatible, Copilot) and helpers for the
// JSON-shaped exchanges the review pipeline relies on.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// TextGenerator is the minimal capability any backend must provide. Every
// call is expected to respect ctx cancellation and carry the provider's own
// request timeout.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Service is the full provider interface with lifecycle management, used by
// main to start and stop whichever backend configuration selected.
type Service interface {
	TextGenerator
	Start() error
	Stop() error
}

// GenerateJSON sends prompt to the backend with a strict JSON-only
// instruction appended and unmarshals the reply into out. A reply that does
// not parse as the expected shape is an error; callers treat it as an empty
// result for that call.
func GenerateJSON(ctx context.Context, gen TextGenerator, prompt string, out any) error {
	full := prompt + "\n\nIMPORTANT: Return ONLY valid JSON, no markdown, no backticks, no preamble."

	text, err := gen.GenerateText(ctx, full)
	if err != nil {
		return fmt.Errorf("generate response: %w", err)
	}

	cleaned := StripFences(text)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("parse backend response: %w", err)
	}
	return nil
}

// StripFences removes a surrounding markdown code fence from a backend
// reply. Models add them despite instructions not to.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
