package pr

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"coverbot/internal/coverage"
	"coverbot/internal/llm"
	"coverbot/internal/logging"
	"coverbot/internal/pipeline"
)

// messageSystemPrompt frames the model as a release-notes writer for commit
// messages and PR titles.
const messageSystemPrompt = "You are a technical writer specializing in creating clear, professional " +
	"commit messages and pull request titles. Generate concise, descriptive content that follows " +
	"conventional commit standards."

// commitMessage asks the model for a conventional commit message; any model
// failure falls back to a counted template.
func commitMessage(ctx context.Context, client llm.Client, report *coverage.Report, summary *pipeline.Summary) string {
	fallback := fmt.Sprintf("test: add unit tests for %d modules to improve coverage",
		len(summary.GeneratedFiles))
	if client == nil {
		return fallback
	}

	var files []string
	for _, f := range summary.GeneratedFiles {
		files = append(files, fmt.Sprintf("%s (%.1f%% coverage)", f.SourceFile, f.Coverage))
	}

	prompt := fmt.Sprintf(`Generate a concise commit message for adding unit tests to improve code coverage.

Files being tested:
%s

Repository: %s
Target coverage: %g%%

Requirements:
- Use conventional commit format (test: description)
- Be specific about what's being tested
- Keep it under 72 characters
- Don't mention AI or automation
- Focus on the testing improvements

Generate only the commit message, no explanation.`,
		strings.Join(files, "\n"), report.Repository, report.TargetCoverage)

	msg, err := client.CompleteWithSystem(ctx, messageSystemPrompt, prompt)
	if err != nil || strings.TrimSpace(msg) == "" {
		logging.PR("commit message generation failed, using fallback: %v", err)
		return fallback
	}
	return strings.TrimSpace(msg)
}

// prTitle asks the model for a PR title; any model failure falls back to a
// counted template.
func prTitle(ctx context.Context, client llm.Client, report *coverage.Report, summary *pipeline.Summary) string {
	fallback := fmt.Sprintf("Add unit tests to improve coverage for %d modules",
		len(summary.GeneratedFiles))
	if client == nil || len(summary.GeneratedFiles) == 0 {
		return fallback
	}

	var names []string
	var total float64
	for _, f := range summary.GeneratedFiles {
		base := filepath.Base(f.SourceFile)
		names = append(names, strings.TrimSuffix(base, filepath.Ext(base)))
		total += f.Coverage
	}
	avg := total / float64(len(summary.GeneratedFiles))

	prompt := fmt.Sprintf(`Generate a concise pull request title for adding unit tests to improve code coverage.

Modules being tested: %s
Average current coverage: %.1f%%
Target coverage: %g%%
Number of files: %d

Requirements:
- Be descriptive and professional
- Keep it under 60 characters
- Don't mention AI or automation
- Focus on the testing improvements
- Use action words like "Add", "Improve", "Enhance"

Generate only the title, no explanation.`,
		strings.Join(names, ", "), avg, report.TargetCoverage, len(summary.GeneratedFiles))

	title, err := client.CompleteWithSystem(ctx, messageSystemPrompt, prompt)
	if err != nil || strings.TrimSpace(title) == "" {
		logging.PR("PR title generation failed, using fallback: %v", err)
		return fallback
	}
	return strings.TrimSpace(title)
}

// prDescription renders the PR body: a per-file coverage table plus review
// guidance, built from templates without a model call.
func prDescription(report *coverage.Report, summary *pipeline.Summary) string {
	var sb strings.Builder

	sb.WriteString("## Test Coverage Improvement\n\n")
	sb.WriteString("This PR adds unit tests for modules with low test coverage.\n\n")
	sb.WriteString("### Coverage Analysis\n\n")
	sb.WriteString("| File | Current Coverage | Tests Added |\n")
	sb.WriteString("|------|------------------|-------------|\n")

	for _, f := range summary.GeneratedFiles {
		fmt.Fprintf(&sb, "| `%s` | %.1f%% | `%s` |\n",
			f.SourceFile, f.Coverage, filepath.Base(f.TestFile))
	}

	sb.WriteString("\n### What's Included\n\n")
	fmt.Fprintf(&sb, "- %d test files covering edge cases, error handling, and boundary values\n",
		len(summary.GeneratedFiles))
	sb.WriteString("- Mocking of external dependencies where appropriate\n")

	sb.WriteString("\n### Review Notes\n\n")
	sb.WriteString("Please review the generated tests for assertion accuracy, scenario completeness, and adherence to project testing conventions.\n")

	fmt.Fprintf(&sb, "\n---\n\nAnalysis source: %s, %s branch. Target coverage: %g%%.\n",
		report.Repository, report.Branch, report.TargetCoverage)

	return sb.String()
}
