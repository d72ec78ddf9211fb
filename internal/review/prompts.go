package review

import (
	"fmt"
	"strings"

	"prpilot/internal/diff"
)

const issuesFormat = `Return JSON in this EXACT format:
{
  "issues": [
    {
      "type": "%s",
      "severity": "high|medium|low",
      "message": "Clear description of the issue",
      "suggestion": "How to fix it"
    }
  ]
}`

// analysisPrompt builds the per-file prompt for one analyzer over the added
// lines of a file.
func analysisPrompt(analysisType, fileName string, pr PRMetadata, code string) string {
	var sb strings.Builder

	switch analysisType {
	case "security":
		sb.WriteString(`You are a security auditor. Analyze this code for:
- SQL injection vulnerabilities
- XSS vulnerabilities
- Authentication/authorization issues
- Insecure data handling
- Exposed secrets or credentials
- Unsafe API calls
- Path traversal vulnerabilities
`)
	case "performance":
		sb.WriteString(`You are a performance analyst. Analyze this code for:
- Inefficient algorithms (O(n^2) or worse)
- Unnecessary loops or iterations
- Memory leaks or excessive memory usage
- Blocking operations that should be async
- Database N+1 queries
- Missing caching opportunities
- Resource-intensive operations
`)
	default:
		sb.WriteString(`You are an expert code reviewer. Analyze this code for:
- Logic bugs and errors
- Code smells and bad practices
- Readability issues
- Potential runtime errors
- Best practice violations
`)
	}

	fmt.Fprintf(&sb, "\nFile: %s\n", fileName)
	if pr.Title != "" {
		fmt.Fprintf(&sb, "PR title: %s\n", pr.Title)
	}
	if pr.Body != "" {
		fmt.Fprintf(&sb, "PR description: %s\n", pr.Body)
	}
	fmt.Fprintf(&sb, "\nCode:\n%s\n\n", code)

	issueType := "code_quality"
	if analysisType == "security" || analysisType == "performance" {
		issueType = analysisType
	}
	fmt.Fprintf(&sb, issuesFormat, issueType)

	return sb.String()
}

// refinePrompt asks the backend to merge, deduplicate, and rewrite one
// file's raw findings.
func refinePrompt(fileName, findingsJSON string) string {
	return fmt.Sprintf(`You are a senior software engineer reviewing code feedback from multiple automated agents.

Your task is to refine these findings into clear, professional, actionable comments that would be helpful to a developer.

File: %s

Raw findings from agents:
%s

Instructions:
1. Combine duplicate or similar issues
2. Prioritize the most critical issues
3. Rewrite messages in a professional, helpful tone
4. Ensure suggestions are specific and actionable
5. Remove any false positives or low-value findings

Return JSON in this EXACT format:
{
  "refined_issues": [
    {
      "type": "security|performance|code_quality",
      "severity": "high|medium|low",
      "message": "Clear, professional description",
      "suggestion": "Specific, actionable suggestion"
    }
  ]
}`, fileName, findingsJSON)
}

// fileReviewPrompt asks for a short narrative review of one file change.
func fileReviewPrompt(f diff.FilePatch, findings []Finding, additions, deletions int, pr PRMetadata) string {
	issuesSummary := "No issues detected"
	if len(findings) > 0 {
		parts := make([]string, 0, 5)
		for i, fd := range findings {
			if i == 5 {
				break
			}
			parts = append(parts, fmt.Sprintf("%s %s", fd.Severity, fd.Category))
		}
		issuesSummary = strings.Join(parts, ", ")
	}

	return fmt.Sprintf(`You are an expert code reviewer. Provide a concise, professional review of this file change.

**File:** %s
**Language:** %s
**Status:** %s
**Changes:** +%d -%d lines

**PR Context:**
- Title: %s
- Author: %s

**Detected Issues:** %s

**Code Sample:**
%s

Provide a 2-3 sentence review focusing on:
1. Overall quality of changes
2. Main concerns (if any)
3. Positive aspects or good practices

Keep it professional, specific, and actionable. Don't repeat the issues list.`,
		f.Filename, orUnknown(f.Language), f.Status, additions, deletions,
		orUnknown(pr.Title), orUnknown(pr.Author), issuesSummary, codeSnippet(f, 15))
}

// summaryPrompt asks for the overall narrative summary of the whole PR.
func summaryPrompt(findings []Finding, files []diff.FilePatch, bySeverity map[Severity]int, byCategory map[Category]int, pr PRMetadata) string {
	var fileList strings.Builder
	for i, f := range files {
		if i == 10 {
			break
		}
		fmt.Fprintf(&fileList, "- %s (%s)\n", f.Filename, f.Status)
	}

	var catList strings.Builder
	for cat, count := range byCategory {
		fmt.Fprintf(&catList, "- %s: %d\n", cat, count)
	}

	var samples strings.Builder
	for i, fd := range findings {
		if i == 5 {
			break
		}
		fmt.Fprintf(&samples, "- [%s] %s in %s:%d\n", strings.ToUpper(string(fd.Severity)), fd.Title, fd.FilePath, fd.Line)
	}

	return fmt.Sprintf(`You are a senior software engineer conducting a comprehensive PR review. Generate a professional, detailed summary.

**PR Information:**
- Number: #%d
- Title: %s
- Author: @%s
- Files Changed: %d

**Files Modified:**
%s
**Issues Found:**
- Total: %d
- High Severity: %d
- Medium Severity: %d
- Low Severity: %d

**Issue Categories:**
%s
**Sample Issues:**
%s
Generate a comprehensive review summary with:
1. **Overview**: Brief assessment of PR quality and scope
2. **Key Findings**: Most important issues discovered (2-4 points)
3. **Recommendations**: Actionable next steps (2-3 points)

Use a professional, constructive tone. Be specific and actionable. Format as markdown with clear sections.`,
		pr.Number, orUnknown(pr.Title), orUnknown(pr.Author), len(files),
		fileList.String(), len(findings),
		bySeverity[SeverityHigh], bySeverity[SeverityMedium], bySeverity[SeverityLow],
		catList.String(), samples.String())
}

// codeSnippet extracts a short representative sample of added and context
// lines from the first hunks of a patch.
func codeSnippet(f diff.FilePatch, maxLines int) string {
	var lines []string
	for i, h := range f.Hunks {
		if i == 3 || len(lines) >= maxLines {
			break
		}
		for _, l := range h.Lines {
			if len(lines) >= maxLines {
				break
			}
			switch l.Type {
			case diff.Added:
				lines = append(lines, "+ "+l.Content)
			case diff.Context:
				lines = append(lines, "  "+l.Content)
			}
		}
	}
	return strings.Join(lines, "\n")
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
