package review

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"prpilot/internal/llm"
)

const refinerAgent = "senior_engineer"

// Aggregator merges analyzer outputs and optionally refines them through the
// generative backend.
type Aggregator struct {
	gen    llm.TextGenerator
	logger *zap.Logger
}

// NewAggregator creates an aggregator backed by the given text generator.
func NewAggregator(gen llm.TextGenerator, logger *zap.Logger) *Aggregator {
	return &Aggregator{gen: gen, logger: logger}
}

// Merge concatenates all analyzers' findings in analyzer registration order,
// preserving each finding's agent provenance. No information is lost.
func (g *Aggregator) Merge(byAgent [][]Finding) []Finding {
	var all []Finding
	for _, findings := range byAgent {
		all = append(all, findings...)
	}
	return all
}

// Refine groups findings by file and asks the backend to combine duplicates,
// drop low-value items, and rewrite messages. Refinement is best-effort: a
// failure for one file falls back to that file's raw findings and leaves
// every other file's refinement untouched.
func (g *Aggregator) Refine(ctx context.Context, findings []Finding) []Finding {
	if len(findings) == 0 {
		return nil
	}

	// Group by file path, preserving first-seen file order.
	byFile := make(map[string][]Finding)
	var order []string
	for _, f := range findings {
		if _, seen := byFile[f.FilePath]; !seen {
			order = append(order, f.FilePath)
		}
		byFile[f.FilePath] = append(byFile[f.FilePath], f)
	}

	var refined []Finding
	for _, file := range order {
		fileFindings := byFile[file]

		raw, err := json.MarshalIndent(fileFindings, "", "  ")
		if err != nil {
			refined = append(refined, fileFindings...)
			continue
		}

		var resp refinedResponse
		if err := llm.GenerateJSON(ctx, g.gen, refinePrompt(file, string(raw)), &resp); err != nil {
			g.logger.Warn("refinement failed, keeping raw findings",
				zap.String("file", file),
				zap.Int("findings", len(fileFindings)),
				zap.Error(err))
			refined = append(refined, fileFindings...)
			continue
		}

		for _, issue := range resp.RefinedIssues {
			refined = append(refined, Finding{
				FilePath:     file,
				Severity:     parseSeverity(issue.Severity),
				Category:     parseCategory(issue.Type, CategoryBestPractices),
				Title:        titleFromMessage(issue.Message),
				Message:      issue.Message,
				SuggestedFix: issue.Suggestion,
				Agent:        refinerAgent,
			})
		}
	}

	return refined
}
