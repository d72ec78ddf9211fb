// Package copilot implements the generative backend on the Copilot SDK,
// available as an alternative to the default Gemini provider.
package copilot

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	copilot "github.com/github/copilot-sdk/go"
)

// Service manages Copilot SDK client lifecycle and exposes the llm contract.
type Service struct {
	client  *copilot.Client
	model   string
	timeout time.Duration
	mu      sync.Mutex
	wg      sync.WaitGroup
	started bool
}

// NewService creates a new Copilot-backed text generator. A non-positive
// timeout falls back to 30s.
func NewService(model string, timeout time.Duration) *Service {
	if model == "" {
		model = "gpt-5-mini"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{
		client:  copilot.NewClient(nil),
		model:   model,
		timeout: timeout,
	}
}

// Start initializes the Copilot client.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if err := s.client.Start(); err != nil {
		return fmt.Errorf("start copilot client: %w", err)
	}

	s.started = true
	return nil
}

// Stop waits for in-flight generations and shuts the client down.
func (s *Service) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	s.client.Stop()
	s.mu.Unlock()
	return nil
}

// GenerateText runs a single prompt through a fresh Copilot session. The
// ctx deadline, when present, bounds the wait for the reply.
func (s *Service) GenerateText(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return "", fmt.Errorf("copilot service not started")
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	session, err := s.client.CreateSession(&copilot.SessionConfig{
		Model:     s.model,
		Streaming: true,
	})
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	var respMu sync.Mutex
	var respBuf bytes.Buffer
	session.On(func(event copilot.SessionEvent) {
		if event.Type == "assistant.message_delta" && event.Data.DeltaContent != nil {
			respMu.Lock()
			respBuf.WriteString(*event.Data.DeltaContent)
			respMu.Unlock()
		}
	})

	wait, err := callWait(ctx, s.timeout)
	if err != nil {
		return "", err
	}

	if _, err := session.SendAndWait(copilot.MessageOptions{Prompt: prompt}, wait); err != nil {
		return "", fmt.Errorf("send prompt: %w", err)
	}

	respMu.Lock()
	out := strings.TrimSpace(respBuf.String())
	respMu.Unlock()

	return out, nil
}

// callWait bounds one reply wait: the fallback timeout applies always, and
// a tighter ctx deadline shortens it. An already-expired deadline is the
// ctx error.
func callWait(ctx context.Context, fallback time.Duration) (time.Duration, error) {
	wait := fallback
	if deadline, ok := ctx.Deadline(); ok {
		until := time.Until(deadline)
		if until <= 0 {
			return 0, ctx.Err()
		}
		if until < wait {
			wait = until
		}
	}
	return wait, nil
}
