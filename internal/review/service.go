package review

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"prpilot/internal/diff"
	ghclient "prpilot/internal/github"
	"prpilot/internal/llm"
)

// GitHubClient defines the hosting-platform operations the pipeline needs.
type GitHubClient interface {
	GetPullRequest(ctx context.Context, owner, repo string, prNumber int) (*ghclient.PullRequest, error)
	GetPRDiff(ctx context.Context, owner, repo string, prNumber int) (string, error)
	CreatePRComment(ctx context.Context, owner, repo string, prNumber int, body string) error
}

// Service orchestrates a review run: fetch, parse, analyze, aggregate,
// summarize, and optionally publish. Each run owns its own diff model,
// findings, and report; nothing is shared across runs.
type Service struct {
	githubClient GitHubClient
	analyzers    []Analyzer
	aggregator   *Aggregator
	builder      *ReportBuilder
	logger       *zap.Logger
}

// NewService wires the pipeline around one GitHub client and one generative
// backend.
func NewService(gh GitHubClient, gen llm.TextGenerator, logger *zap.Logger) *Service {
	return &Service{
		githubClient: gh,
		analyzers: []Analyzer{
			NewQualityAnalyzer(gen, logger),
			NewSecurityAnalyzer(gen, logger),
			NewPerformanceAnalyzer(gen, logger),
		},
		aggregator: NewAggregator(gen, logger),
		builder:    NewReportBuilder(gen, logger),
		logger:     logger,
	}
}

// ReviewPR runs the full pipeline for one pull request. Only fetch failures
// return an error; every later stage degrades instead of failing, so any
// diff that parses to at least one file always produces a report.
func (s *Service) ReviewPR(ctx context.Context, req Request) (*Result, error) {
	runID := uuid.NewString()
	logger := s.logger.With(
		zap.String("run_id", runID),
		zap.String("repo", req.Owner+"/"+req.Repo),
		zap.Int("pr", req.PRNumber),
	)
	logger.Info("starting review")

	pr, err := s.githubClient.GetPullRequest(ctx, req.Owner, req.Repo, req.PRNumber)
	if err != nil {
		return nil, fmt.Errorf("fetch pull request: %w", err)
	}

	diffText, err := s.githubClient.GetPRDiff(ctx, req.Owner, req.Repo, req.PRNumber)
	if err != nil {
		return nil, fmt.Errorf("fetch pr diff: %w", err)
	}

	meta := PRMetadata{
		Number:       pr.Number,
		Title:        pr.Title,
		Body:         pr.Body,
		Author:       pr.Author,
		Additions:    pr.Additions,
		Deletions:    pr.Deletions,
		ChangedFiles: pr.ChangedFiles,
	}

	files := diff.Parse(diffText)
	for i := range files {
		files[i].Language = diff.Language(files[i].Filename)
	}
	if len(files) == 0 {
		logger.Info("no files changed in pr")
		return &Result{Report: emptyReport(meta)}, nil
	}
	logger.Info("parsed diff", zap.Int("files", len(files)))

	byAgent := runAnalyzers(ctx, s.analyzers, files, meta, logger)
	merged := s.aggregator.Merge(byAgent)
	logger.Info("analysis complete", zap.Int("raw_findings", len(merged)))

	final := s.aggregator.Refine(ctx, merged)

	report := s.builder.Build(ctx, final, files, meta)

	result := &Result{Report: report}
	if req.PostComment {
		body := RenderComment(report)
		if err := s.githubClient.CreatePRComment(ctx, req.Owner, req.Repo, req.PRNumber, body); err != nil {
			logger.Warn("failed to post review comment", zap.Error(err))
		} else {
			result.CommentPosted = true
			logger.Info("review comment posted")
		}
	}

	logger.Info("review complete",
		zap.Int("files", report.TotalFiles),
		zap.Int("issues", report.TotalIssues))
	return result, nil
}

// emptyReport is the successful outcome for a PR whose diff contains no
// parseable file changes.
func emptyReport(pr PRMetadata) *Report {
	return &Report{
		Summary:          "No code changes detected",
		Files:            []FileReview{},
		IssuesBySeverity: map[Severity]int{SeverityHigh: 0, SeverityMedium: 0, SeverityLow: 0},
		IssuesByCategory: map[Category]int{},
		Metadata: ReportMetadata{
			PRNumber: pr.Number,
			PRTitle:  pr.Title,
			PRAuthor: pr.Author,
		},
	}
}
