// Package review implements the PR review pipeline: independent analyzers
// over a parsed diff, aggregation and refinement of their findings, and the
// final report with its rendered GitHub comment.
package review

import (
	"prpilot/internal/diff"
)

// Severity levels for findings.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Category classifies what kind of issue a finding reports.
type Category string

const (
	CategorySecurity      Category = "security"
	CategoryPerformance   Category = "performance"
	CategoryCodeQuality   Category = "code_quality"
	CategoryBestPractices Category = "best_practices"
	CategoryStyle         Category = "style"
)

// Finding is one reported issue produced by an analyzer. Findings are never
// mutated after emission; aggregation builds new values.
type Finding struct {
	FilePath     string   `json:"file_path"`
	Line         int      `json:"line,omitempty"` // 0 when not tied to a specific line
	Severity     Severity `json:"severity"`
	Category     Category `json:"category"`
	Title        string   `json:"title"`
	Message      string   `json:"message"`
	SuggestedFix string   `json:"suggested_fix,omitempty"`
	Agent        string   `json:"agent"`
}

// PRMetadata is the pull request context passed to analyzers and the report
// builder.
type PRMetadata struct {
	Number       int    `json:"number"`
	Title        string `json:"title"`
	Body         string `json:"body"`
	Author       string `json:"author"`
	Additions    int    `json:"additions"`
	Deletions    int    `json:"deletions"`
	ChangedFiles int    `json:"changed_files"`
}

// FileReview is one file's section of the final report.
type FileReview struct {
	Filename  string          `json:"filename"`
	Status    diff.FileStatus `json:"status"`
	Language  string          `json:"language,omitempty"`
	Additions int             `json:"additions"`
	Deletions int             `json:"deletions"`
	Review    string          `json:"review"`
	Issues    []Finding       `json:"issues"`
}

// Report is the aggregated outcome of a review run.
type Report struct {
	Summary          string           `json:"summary"`
	Files            []FileReview     `json:"files_review"`
	TotalFiles       int              `json:"total_files_analyzed"`
	TotalIssues      int              `json:"total_issues_found"`
	IssuesBySeverity map[Severity]int `json:"issues_by_severity"`
	IssuesByCategory map[Category]int `json:"issues_by_category"`
	Metadata         ReportMetadata   `json:"metadata"`
}

// ReportMetadata echoes the reviewed PR's identity and change totals.
type ReportMetadata struct {
	PRNumber     int    `json:"pr_number"`
	PRTitle      string `json:"pr_title"`
	PRAuthor     string `json:"pr_author"`
	FilesChanged int    `json:"files_changed"`
	Additions    int    `json:"additions"`
	Deletions    int    `json:"deletions"`
}

// Request contains parameters for reviewing a PR.
type Request struct {
	Owner       string
	Repo        string
	PRNumber    int
	PostComment bool
}

// Result contains the outcome of a review run.
type Result struct {
	Report        *Report
	CommentPosted bool
}

// rawIssue is the structured-issue shape the generative backend returns for
// both analysis and refinement calls.
type rawIssue struct {
	Type       string `json:"type"`
	Severity   string `json:"severity"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

type issuesResponse struct {
	Issues []rawIssue `json:"issues"`
}

type refinedResponse struct {
	RefinedIssues []rawIssue `json:"refined_issues"`
}

// parseSeverity normalizes a backend severity string, defaulting to low.
func parseSeverity(s string) Severity {
	switch Severity(s) {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return Severity(s)
	}
	return SeverityLow
}

// parseCategory normalizes a backend issue type, falling back to the given
// default when the backend strays from the expected vocabulary.
func parseCategory(s string, def Category) Category {
	switch Category(s) {
	case CategorySecurity, CategoryPerformance, CategoryCodeQuality, CategoryBestPractices, CategoryStyle:
		return Category(s)
	}
	return def
}

// titleFromMessage derives a short finding title from the first sentence of
// a backend message.
func titleFromMessage(msg string) string {
	for i, r := range msg {
		if r == '.' || r == '\n' {
			msg = msg[:i]
			break
		}
	}
	const max = 80
	if len(msg) > max {
		msg = msg[:max]
	}
	return msg
}
