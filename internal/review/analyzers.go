package review

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"prpilot/internal/diff"
	"prpilot/internal/llm"
)

// Analyzer is the uniform capability every analysis pass implements. Analyze
// never returns an error: per-file failures are absorbed inside the pass and
// that file's contribution is omitted.
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, files []diff.FilePatch, pr PRMetadata) []Finding
}

// promptAnalyzer is the shared implementation behind the three analysis
// passes; each instance differs only in its name, prompt flavor, and default
// category.
type promptAnalyzer struct {
	name            string
	analysisType    string
	defaultCategory Category
	gen             llm.TextGenerator
	logger          *zap.Logger
}

// NewQualityAnalyzer detects logic bugs, code smells, and readability issues.
func NewQualityAnalyzer(gen llm.TextGenerator, logger *zap.Logger) Analyzer {
	return &promptAnalyzer{
		name:            "code_reviewer",
		analysisType:    "review",
		defaultCategory: CategoryCodeQuality,
		gen:             gen,
		logger:          logger,
	}
}

// NewSecurityAnalyzer audits added code for vulnerabilities.
func NewSecurityAnalyzer(gen llm.TextGenerator, logger *zap.Logger) Analyzer {
	return &promptAnalyzer{
		name:            "security_auditor",
		analysisType:    "security",
		defaultCategory: CategorySecurity,
		gen:             gen,
		logger:          logger,
	}
}

// NewPerformanceAnalyzer looks for inefficiencies in added code.
func NewPerformanceAnalyzer(gen llm.TextGenerator, logger *zap.Logger) Analyzer {
	return &promptAnalyzer{
		name:            "performance_analyst",
		analysisType:    "performance",
		defaultCategory: CategoryPerformance,
		gen:             gen,
		logger:          logger,
	}
}

func (a *promptAnalyzer) Name() string {
	return a.name
}

// Analyze prompts the backend with each file's added-line text and maps the
// returned structured issues into findings tagged with the analyzer's name.
// Files with no added lines are skipped without a backend call.
func (a *promptAnalyzer) Analyze(ctx context.Context, files []diff.FilePatch, pr PRMetadata) []Finding {
	var findings []Finding

	for _, f := range files {
		added := f.AddedLines()
		if len(added) == 0 {
			continue
		}

		contents := make([]string, len(added))
		for i, l := range added {
			contents[i] = l.Content
		}
		snippet := strings.Join(contents, "\n")
		if strings.TrimSpace(snippet) == "" {
			continue
		}

		prompt := analysisPrompt(a.analysisType, f.Filename, pr, snippet)

		var resp issuesResponse
		if err := llm.GenerateJSON(ctx, a.gen, prompt, &resp); err != nil {
			a.logger.Warn("analyzer call failed, skipping file",
				zap.String("agent", a.name),
				zap.String("file", f.Filename),
				zap.Error(err))
			continue
		}

		for _, issue := range resp.Issues {
			findings = append(findings, Finding{
				FilePath:     f.Filename,
				Line:         added[0].Number,
				Severity:     parseSeverity(issue.Severity),
				Category:     parseCategory(issue.Type, a.defaultCategory),
				Title:        titleFromMessage(issue.Message),
				Message:      issue.Message,
				SuggestedFix: issue.Suggestion,
				Agent:        a.name,
			})
		}
	}

	return findings
}

// agentResult keeps one analyzer's outcome visible to the fan-in, including
// recovered panics, instead of silently suppressing failures.
type agentResult struct {
	agent    string
	findings []Finding
	failed   bool
}

// runAnalyzers fans the analyzers out concurrently and joins their results
// in registration order. A failing analyzer contributes nothing; the others
// are unaffected.
func runAnalyzers(ctx context.Context, analyzers []Analyzer, files []diff.FilePatch, pr PRMetadata, logger *zap.Logger) [][]Finding {
	results := make([]agentResult, len(analyzers))
	var mu sync.Mutex

	eg, egCtx := errgroup.WithContext(ctx)
	for i, a := range analyzers {
		eg.Go(func() error {
			res := agentResult{agent: a.Name()}
			func() {
				defer func() {
					if r := recover(); r != nil {
						res.failed = true
						logger.Error("analyzer panicked", zap.String("agent", a.Name()), zap.Any("panic", r))
					}
				}()
				res.findings = a.Analyze(egCtx, files, pr)
			}()
			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()

	out := make([][]Finding, len(analyzers))
	for i, res := range results {
		out[i] = res.findings
	}
	return out
}
