// Package gemini implements the generative backend on the Google GenAI API.
// It is the default provider; the review pipeline only sees the llm
// interfaces.
package gemini

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// Config holds Gemini provider settings.
type Config struct {
	APIKey  string
	Model   string        // If empty, uses gemini-1.5-flash
	Timeout time.Duration // Per-request timeout; defaults to 30s
}

// Service generates text through the Gemini API.
type Service struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewService creates a Gemini-backed text generator.
func NewService(ctx context.Context, cfg Config) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Service{client: client, model: model, timeout: timeout}, nil
}

// GenerateText sends a prompt to Gemini and returns the reply text. The call
// carries a fixed timeout; an expired deadline surfaces as an ordinary error
// to the caller.
func (s *Service) GenerateText(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.3),
		TopP:            genai.Ptr[float32](0.95),
		MaxOutputTokens: 8192,
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty response")
	}
	return text, nil
}

// Start is a no-op; the client is ready after construction.
func (s *Service) Start() error {
	return nil
}

// Stop is a no-op; the genai client holds no persistent connection.
func (s *Service) Stop() error {
	return nil
}
