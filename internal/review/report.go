package review

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"prpilot/internal/diff"
	"prpilot/internal/llm"
)

// ReportBuilder combines final findings with per-file and overall narrative
// summaries. Narratives come from the generative backend with deterministic
// templated fallbacks, so the report is never empty even when the backend is
// completely unavailable.
type ReportBuilder struct {
	gen    llm.TextGenerator
	logger *zap.Logger
}

// NewReportBuilder creates a report builder backed by the given generator.
func NewReportBuilder(gen llm.TextGenerator, logger *zap.Logger) *ReportBuilder {
	return &ReportBuilder{gen: gen, logger: logger}
}

// Build assembles the aggregated report. File order follows the parsed diff.
func (b *ReportBuilder) Build(ctx context.Context, findings []Finding, files []diff.FilePatch, pr PRMetadata) *Report {
	byFile := make(map[string][]Finding)
	for _, f := range findings {
		byFile[f.FilePath] = append(byFile[f.FilePath], f)
	}

	bySeverity := map[Severity]int{SeverityHigh: 0, SeverityMedium: 0, SeverityLow: 0}
	byCategory := make(map[Category]int)
	for _, f := range findings {
		bySeverity[f.Severity]++
		byCategory[f.Category]++
	}

	fileReviews := make([]FileReview, 0, len(files))
	for _, f := range files {
		additions, deletions := countChanges(f)
		fileFindings := byFile[f.Filename]

		fileReviews = append(fileReviews, FileReview{
			Filename:  f.Filename,
			Status:    f.Status,
			Language:  diff.Language(f.Filename),
			Additions: additions,
			Deletions: deletions,
			Review:    b.fileNarrative(ctx, f, fileFindings, additions, deletions, pr),
			Issues:    fileFindings,
		})
	}

	return &Report{
		Summary:          b.overallSummary(ctx, findings, files, bySeverity, byCategory, pr),
		Files:            fileReviews,
		TotalFiles:       len(files),
		TotalIssues:      len(findings),
		IssuesBySeverity: bySeverity,
		IssuesByCategory: byCategory,
		Metadata: ReportMetadata{
			PRNumber:     pr.Number,
			PRTitle:      pr.Title,
			PRAuthor:     pr.Author,
			FilesChanged: len(files),
			Additions:    pr.Additions,
			Deletions:    pr.Deletions,
		},
	}
}

// countChanges scans a patch's hunks for added/removed line totals.
func countChanges(f diff.FilePatch) (additions, deletions int) {
	for _, h := range f.Hunks {
		for _, l := range h.Lines {
			switch l.Type {
			case diff.Added:
				additions++
			case diff.Removed:
				deletions++
			}
		}
	}
	return additions, deletions
}

func (b *ReportBuilder) fileNarrative(ctx context.Context, f diff.FilePatch, findings []Finding, additions, deletions int, pr PRMetadata) string {
	text, err := b.gen.GenerateText(ctx, fileReviewPrompt(f, findings, additions, deletions, pr))
	if err == nil && strings.TrimSpace(text) != "" {
		return strings.TrimSpace(text)
	}
	if err != nil {
		b.logger.Warn("file narrative generation failed, using fallback",
			zap.String("file", f.Filename), zap.Error(err))
	}

	if len(findings) > 0 {
		return fmt.Sprintf("Found %d issues in this file. Review the specific comments for details.", len(findings))
	}
	return "No significant issues detected. Changes look reasonable."
}

func (b *ReportBuilder) overallSummary(ctx context.Context, findings []Finding, files []diff.FilePatch, bySeverity map[Severity]int, byCategory map[Category]int, pr PRMetadata) string {
	text, err := b.gen.GenerateText(ctx, summaryPrompt(findings, files, bySeverity, byCategory, pr))
	if err == nil && strings.TrimSpace(text) != "" {
		return strings.TrimSpace(text)
	}
	if err != nil {
		b.logger.Warn("overall summary generation failed, using fallback", zap.Error(err))
	}
	return fallbackSummary(findings, files, bySeverity, pr)
}

// fallbackSummary builds a deterministic summary from counts and the top
// findings when the backend is unavailable.
func fallbackSummary(findings []Finding, files []diff.FilePatch, bySeverity map[Severity]int, pr PRMetadata) string {
	status := "✅"
	if bySeverity[SeverityHigh] > 0 {
		status = "⚠️"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s **Code Review Complete**\n", status)
	fmt.Fprintf(&sb, "\n**PR #%d**: %s", pr.Number, orUnknown(pr.Title))
	fmt.Fprintf(&sb, "\n**Analyzed**: %d files", len(files))
	fmt.Fprintf(&sb, "\n**Issues Found**: %d total", len(findings))

	if bySeverity[SeverityHigh] > 0 {
		fmt.Fprintf(&sb, "\n⚠️ **%d high-severity issues** require immediate attention", bySeverity[SeverityHigh])
	}

	if len(findings) == 0 {
		sb.WriteString("\n✅ No major issues detected. Code looks good!")
		return sb.String()
	}

	sb.WriteString("\n\n**Top Issues:**")
	for i, f := range topFindings(findings, 3) {
		fmt.Fprintf(&sb, "\n%d. [%s] %s", i+1, strings.ToUpper(string(f.Severity)), f.Title)
	}
	return sb.String()
}

// topFindings returns up to n findings ordered by severity rank, preserving
// the aggregate order within a rank.
func topFindings(findings []Finding, n int) []Finding {
	ordered := make([]Finding, 0, n)
	for _, rank := range []Severity{SeverityHigh, SeverityMedium, SeverityLow} {
		for _, f := range findings {
			if f.Severity == rank {
				ordered = append(ordered, f)
				if len(ordered) == n {
					return ordered
				}
			}
		}
	}
	return ordered
}

var severityGlyphs = map[Severity]string{
	SeverityHigh:   "🔴",
	SeverityMedium: "🟡",
	SeverityLow:    "🟢",
}

// RenderComment formats a report as the GitHub comment body. Pure function
// with no side effects.
func RenderComment(r *Report) string {
	var sb strings.Builder
	sb.WriteString("## 🤖 Automated PR Review\n\n")

	if r.Summary != "" {
		fmt.Fprintf(&sb, "### Summary\n%s\n\n", r.Summary)
	}

	if r.TotalIssues == 0 {
		sb.WriteString("✅ No issues found!\n")
	} else {
		sb.WriteString("### Detailed Findings\n\n")
		for _, fr := range r.Files {
			if len(fr.Issues) == 0 {
				continue
			}
			fmt.Fprintf(&sb, "#### 📄 `%s`\n\n", fr.Filename)
			for _, issue := range fr.Issues {
				glyph, ok := severityGlyphs[issue.Severity]
				if !ok {
					glyph = "⚪"
				}
				line := "N/A"
				if issue.Line > 0 {
					line = fmt.Sprintf("%d", issue.Line)
				}
				fmt.Fprintf(&sb, "%s **%s** (Line %s)\n", glyph, strings.ToUpper(string(issue.Category)), line)
				fmt.Fprintf(&sb, "- %s\n", issue.Message)
				if issue.SuggestedFix != "" {
					fmt.Fprintf(&sb, "- 💡 *Suggestion:* %s\n", issue.SuggestedFix)
				}
				sb.WriteString("\n")
			}
		}
	}

	sb.WriteString("\n---\n*Generated by AI-powered PR Review Agent*")
	return sb.String()
}
