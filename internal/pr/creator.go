package pr

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"coverbot/internal/coverage"
	"coverbot/internal/llm"
	"coverbot/internal/logging"
	"coverbot/internal/pipeline"
)

// Result describes the outcome of a PR attempt. Success false with
// Reason "no_changes" means the working tree had nothing to commit,
// which is not an error.
type Result struct {
	Success       bool   `json:"success"`
	Reason        string `json:"reason,omitempty"`
	PRURL         string `json:"pr_url,omitempty"`
	BranchName    string `json:"branch_name,omitempty"`
	PRTitle       string `json:"pr_title,omitempty"`
	CommitMessage string `json:"commit_message,omitempty"`
}

// Creator stages generated tests and opens a pull request.
type Creator struct {
	runner CommandRunner
	client llm.Client

	// BranchPrefix names new branches <prefix>-<timestamp>. Defaults to
	// "coverage-boost".
	BranchPrefix string
	// Title overrides the model-generated PR title when non-empty.
	Title string
	// InfoPath is where the outcome JSON is written. Defaults to
	// pr_info.json in the working directory.
	InfoPath string
	// now is swappable for deterministic branch names in tests.
	now func() time.Time
}

// NewCreator builds a Creator. A nil client skips model-assisted messages
// and uses the template fallbacks.
func NewCreator(runner CommandRunner, client llm.Client) *Creator {
	return &Creator{
		runner:       runner,
		client:       client,
		BranchPrefix: "coverage-boost",
		InfoPath:     "pr_info.json",
		now:          time.Now,
	}
}

// Create runs the full branch-commit-push-PR flow and writes pr_info.json
// with the outcome.
func (c *Creator) Create(ctx context.Context, report *coverage.Report, summary *pipeline.Summary) (*Result, error) {
	branch := fmt.Sprintf("%s-%s", c.BranchPrefix, c.now().Format("20060102-150405"))

	steps := [][]string{
		{"git", "config", "--local", "user.email", "action@github.com"},
		{"git", "config", "--local", "user.name", "GitHub Action"},
		{"git", "checkout", "-b", branch},
		{"git", "add", "."},
	}
	for _, step := range steps {
		if _, err := c.runner.Run(ctx, step[0], step[1:]...); err != nil {
			return nil, err
		}
	}

	// git diff --staged --quiet exits 0 when nothing is staged.
	if _, err := c.runner.Run(ctx, "git", "diff", "--staged", "--quiet"); err == nil {
		logging.PR("no changes to commit on %s", branch)
		result := &Result{Success: false, Reason: "no_changes"}
		return result, c.saveInfo(result)
	}

	message := commitMessage(ctx, c.client, report, summary)
	title := c.Title
	if title == "" {
		title = prTitle(ctx, c.client, report, summary)
	}

	if _, err := c.runner.Run(ctx, "git", "commit", "-m", message); err != nil {
		return nil, err
	}
	if _, err := c.runner.Run(ctx, "git", "push", "origin", branch); err != nil {
		return nil, err
	}

	url, err := c.runner.Run(ctx, "gh", "pr", "create",
		"--title", title,
		"--body", prDescription(report, summary),
		"--head", branch,
		"--label", "testing,coverage,automated")
	if err != nil {
		return nil, err
	}

	result := &Result{
		Success:       true,
		PRURL:         strings.TrimSpace(url),
		BranchName:    branch,
		PRTitle:       title,
		CommitMessage: message,
	}

	logging.PR("created pull request %s", result.PRURL)
	return result, c.saveInfo(result)
}

// saveInfo persists the outcome for downstream workflow steps.
func (c *Creator) saveInfo(result *Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pr info: %w", err)
	}
	if err := os.WriteFile(c.InfoPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write pr info: %w", err)
	}
	return nil
}
