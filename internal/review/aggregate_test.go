package review

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestMerge_PreservesOrderAndProvenance(t *testing.T) {
	g := NewAggregator(nil, zap.NewNop())

	byAgent := [][]Finding{
		{{FilePath: "a.go", Agent: "code_reviewer", Message: "one"}},
		{},
		{
			{FilePath: "a.go", Agent: "performance_analyst", Message: "two"},
			{FilePath: "b.go", Agent: "performance_analyst", Message: "three"},
		},
	}

	merged := g.Merge(byAgent)
	if len(merged) != 3 {
		t.Fatalf("got %d findings, want 3", len(merged))
	}

	wantAgents := []string{"code_reviewer", "performance_analyst", "performance_analyst"}
	for i, want := range wantAgents {
		if merged[i].Agent != want {
			t.Errorf("merged[%d].Agent = %q, want %q", i, merged[i].Agent, want)
		}
	}
}

func TestRefine_RewritesFindings(t *testing.T) {
	gen := &fakeGenerator{respond: func(string) (string, error) {
		return `{"refined_issues":[{"type":"security","severity":"high","message":"Combined issue. Details follow.","suggestion":"do this"}]}`, nil
	}}
	g := NewAggregator(gen, zap.NewNop())

	raw := []Finding{
		{FilePath: "a.go", Agent: "security_auditor", Severity: SeverityMedium, Message: "dup 1"},
		{FilePath: "a.go", Agent: "code_reviewer", Severity: SeverityMedium, Message: "dup 2"},
	}

	refined := g.Refine(context.Background(), raw)
	if len(refined) != 1 {
		t.Fatalf("got %d findings, want 1", len(refined))
	}

	f := refined[0]
	if f.FilePath != "a.go" {
		t.Errorf("FilePath = %q, want a.go", f.FilePath)
	}
	if f.Agent != refinerAgent {
		t.Errorf("Agent = %q, want %q", f.Agent, refinerAgent)
	}
	if f.Severity != SeverityHigh || f.Category != CategorySecurity {
		t.Errorf("severity/category = %s/%s, want high/security", f.Severity, f.Category)
	}
	if f.Line != 0 {
		t.Errorf("Line = %d, want 0 (refined findings are file-level)", f.Line)
	}
}

func TestRefine_FailureKeepsRawFindingsPerFile(t *testing.T) {
	// Refinement for a.go fails; b.go refines normally.
	gen := &fakeGenerator{respond: func(prompt string) (string, error) {
		if strings.Contains(prompt, "File: a.go") {
			return "", errors.New("backend down")
		}
		return `{"refined_issues":[{"type":"performance","severity":"low","message":"polished"}]}`, nil
	}}
	g := NewAggregator(gen, zap.NewNop())

	raw := []Finding{
		{FilePath: "a.go", Agent: "security_auditor", Message: "raw a1"},
		{FilePath: "a.go", Agent: "code_reviewer", Message: "raw a2"},
		{FilePath: "b.go", Agent: "performance_analyst", Message: "raw b"},
	}

	refined := g.Refine(context.Background(), raw)
	if len(refined) != 3 {
		t.Fatalf("got %d findings, want 3 (2 raw for a.go + 1 refined for b.go)", len(refined))
	}

	if refined[0].Message != "raw a1" || refined[1].Message != "raw a2" {
		t.Errorf("a.go findings not preserved raw: %q, %q", refined[0].Message, refined[1].Message)
	}
	if refined[0].Agent != "security_auditor" {
		t.Errorf("raw finding lost its agent: %q", refined[0].Agent)
	}
	if refined[2].FilePath != "b.go" || refined[2].Agent != refinerAgent {
		t.Errorf("b.go finding not refined: %+v", refined[2])
	}
}

func TestRefine_EmptyInput(t *testing.T) {
	gen := &fakeGenerator{}
	g := NewAggregator(gen, zap.NewNop())

	if out := g.Refine(context.Background(), nil); len(out) != 0 {
		t.Errorf("got %d findings for empty input, want 0", len(out))
	}
	if gen.callCount() != 0 {
		t.Errorf("backend called %d times for empty input, want 0", gen.callCount())
	}
}
