// Package webhook turns GitHub pull request events into review runs,
// decoupled from the HTTP handler by a bounded in-memory queue.
package webhook

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v82/github"
	"go.uber.org/zap"

	ghclient "prpilot/internal/github"
	"prpilot/internal/review"
)

// ReviewRunner runs the review pipeline for one pull request.
type ReviewRunner interface {
	ReviewPR(ctx context.Context, req review.Request) (*review.Result, error)
}

type Processor struct {
	runner ReviewRunner
	logger *zap.Logger
}

func NewProcessor(runner ReviewRunner, logger *zap.Logger) *Processor {
	return &Processor{runner: runner, logger: logger}
}

// Process dispatches one webhook delivery. Events that do not concern open
// pull request changes are acknowledged and dropped.
func (p *Processor) Process(ctx context.Context, eventType string, payload []byte, deliveryID string) error {
	if p.runner == nil {
		return fmt.Errorf("review runner not configured")
	}

	event, err := github.ParseWebHook(eventType, payload)
	if err != nil {
		return fmt.Errorf("parse webhook event: %w", err)
	}

	switch e := event.(type) {
	case *github.PingEvent:
		p.logger.Info("webhook ping", zap.String("delivery_id", deliveryID))
		return nil
	case *github.PullRequestEvent:
		return p.handlePullRequest(ctx, e, deliveryID)
	default:
		return nil
	}
}

func (p *Processor) handlePullRequest(ctx context.Context, e *github.PullRequestEvent, deliveryID string) error {
	action := strings.ToLower(e.GetAction())
	switch action {
	case "opened", "reopened", "synchronize":
	default:
		return nil
	}

	fullName := e.GetRepo().GetFullName()
	owner, repo, err := ghclient.ParseRepoFullName(fullName)
	if err != nil {
		return fmt.Errorf("webhook repository: %w", err)
	}

	req := review.Request{
		Owner:       owner,
		Repo:        repo,
		PRNumber:    e.GetPullRequest().GetNumber(),
		PostComment: true,
	}

	p.logger.Info("webhook triggered review",
		zap.String("delivery_id", deliveryID),
		zap.String("repo", fullName),
		zap.Int("pr", req.PRNumber),
		zap.String("action", action))

	if _, err := p.runner.ReviewPR(ctx, req); err != nil {
		return fmt.Errorf("review pr %s#%d: %w", fullName, req.PRNumber, err)
	}
	return nil
}
