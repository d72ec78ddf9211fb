package review

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"prpilot/internal/diff"
)

func TestBuild_Histograms(t *testing.T) {
	gen := &fakeGenerator{respond: func(string) (string, error) {
		return "narrative text", nil
	}}
	b := NewReportBuilder(gen, zap.NewNop())

	files := diff.Parse("diff --git a/x.py b/x.py\n@@ -1,1 +1,2 @@\n-old\n+new1\n+new2\n")
	findings := []Finding{
		{FilePath: "x.py", Severity: SeverityHigh, Category: CategorySecurity},
		{FilePath: "x.py", Severity: SeverityHigh, Category: CategoryPerformance},
		{FilePath: "x.py", Severity: SeverityLow, Category: CategorySecurity},
	}

	r := b.Build(context.Background(), findings, files, PRMetadata{Number: 7, Title: "t", Author: "u"})

	if r.TotalFiles != 1 || r.TotalIssues != 3 {
		t.Errorf("totals = %d files / %d issues, want 1/3", r.TotalFiles, r.TotalIssues)
	}
	if r.IssuesBySeverity[SeverityHigh] != 2 || r.IssuesBySeverity[SeverityMedium] != 0 || r.IssuesBySeverity[SeverityLow] != 1 {
		t.Errorf("severity histogram = %v", r.IssuesBySeverity)
	}
	if r.IssuesByCategory[CategorySecurity] != 2 || r.IssuesByCategory[CategoryPerformance] != 1 {
		t.Errorf("category histogram = %v", r.IssuesByCategory)
	}

	if len(r.Files) != 1 {
		t.Fatalf("got %d file reviews, want 1", len(r.Files))
	}
	fr := r.Files[0]
	if fr.Filename != "x.py" || fr.Language != "python" {
		t.Errorf("file review = %q (%s)", fr.Filename, fr.Language)
	}
	if fr.Additions != 2 || fr.Deletions != 1 {
		t.Errorf("additions/deletions = %d/%d, want 2/1", fr.Additions, fr.Deletions)
	}
	if len(fr.Issues) != 3 {
		t.Errorf("file issues = %d, want 3", len(fr.Issues))
	}
	if fr.Review != "narrative text" {
		t.Errorf("file review narrative = %q", fr.Review)
	}
	if r.Metadata.PRNumber != 7 || r.Metadata.FilesChanged != 1 {
		t.Errorf("metadata = %+v", r.Metadata)
	}
}

func TestBuild_FallbackNarratives(t *testing.T) {
	gen := &fakeGenerator{respond: func(string) (string, error) {
		return "", errors.New("backend down")
	}}
	b := NewReportBuilder(gen, zap.NewNop())

	files := diff.Parse("diff --git a/x.py b/x.py\n@@ -1,1 +1,1 @@\n+new\n")
	findings := []Finding{{FilePath: "x.py", Severity: SeverityHigh, Title: "Bad thing"}}

	r := b.Build(context.Background(), findings, files, PRMetadata{Number: 1})

	if !strings.Contains(r.Files[0].Review, "Found 1 issues") {
		t.Errorf("file fallback narrative = %q", r.Files[0].Review)
	}
	if !strings.Contains(r.Summary, "Code Review Complete") {
		t.Errorf("fallback summary = %q", r.Summary)
	}
	if !strings.Contains(r.Summary, "⚠️") {
		t.Errorf("high-severity fallback summary missing warning marker: %q", r.Summary)
	}
	if !strings.Contains(r.Summary, "Bad thing") {
		t.Errorf("fallback summary missing top issue: %q", r.Summary)
	}
}

func TestBuild_FallbackNoFindings(t *testing.T) {
	gen := &fakeGenerator{respond: func(string) (string, error) {
		return "", errors.New("backend down")
	}}
	b := NewReportBuilder(gen, zap.NewNop())

	files := diff.Parse("diff --git a/x.py b/x.py\n@@ -1,1 +1,1 @@\n+new\n")
	r := b.Build(context.Background(), nil, files, PRMetadata{Number: 1})

	if !strings.Contains(r.Files[0].Review, "No significant issues") {
		t.Errorf("clean file fallback = %q", r.Files[0].Review)
	}
	if !strings.Contains(r.Summary, "No major issues detected") {
		t.Errorf("clean fallback summary = %q", r.Summary)
	}
	if strings.Contains(r.Summary, "Top Issues") {
		t.Errorf("clean fallback summary should not list top issues: %q", r.Summary)
	}
}

func TestTopFindings_SeverityOrder(t *testing.T) {
	findings := []Finding{
		{Title: "low1", Severity: SeverityLow},
		{Title: "high1", Severity: SeverityHigh},
		{Title: "med1", Severity: SeverityMedium},
		{Title: "high2", Severity: SeverityHigh},
	}

	top := topFindings(findings, 3)
	got := make([]string, len(top))
	for i, f := range top {
		got[i] = f.Title
	}
	want := []string{"high1", "high2", "med1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("topFindings order = %v, want %v", got, want)
		}
	}
}

func TestRenderComment_NoIssues(t *testing.T) {
	r := &Report{Summary: "All clean", TotalIssues: 0}
	body := RenderComment(r)

	for _, want := range []string{
		"## 🤖 Automated PR Review",
		"### Summary\nAll clean",
		"✅ No issues found!",
		"*Generated by AI-powered PR Review Agent*",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("comment missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "Detailed Findings") {
		t.Errorf("clean comment should have no findings section:\n%s", body)
	}
}

func TestRenderComment_Findings(t *testing.T) {
	r := &Report{
		Summary:     "Needs work",
		TotalIssues: 2,
		Files: []FileReview{
			{Filename: "clean.go"},
			{
				Filename: "app.py",
				Issues: []Finding{
					{Severity: SeverityHigh, Category: CategorySecurity, Line: 42, Message: "SQL injection", SuggestedFix: "use params"},
					{Severity: Severity("unknown"), Category: CategoryStyle, Message: "file-level nit"},
				},
			},
		},
	}

	body := RenderComment(r)

	for _, want := range []string{
		"### Detailed Findings",
		"#### 📄 `app.py`",
		"🔴 **SECURITY** (Line 42)",
		"- SQL injection",
		"- 💡 *Suggestion:* use params",
		"⚪ **STYLE** (Line N/A)",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("comment missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "clean.go") {
		t.Errorf("files without issues should be omitted:\n%s", body)
	}
}
