package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"coverbot/internal/coverage"
	"coverbot/internal/llm"
	"coverbot/internal/pipeline"
	"coverbot/internal/pr"
)

var (
	prCoverageData   string
	prGeneratedTests string
	prBranchPrefix   string
	prTitle          string
	prModel          string
)

var prCmd = &cobra.Command{
	Use:   "pr",
	Short: "Create a pull request with generated tests",
	Long: `Stages the generated test files on a fresh branch, writes an
AI-assisted commit message and PR title (with template fallbacks), pushes the
branch, and opens the pull request through the gh CLI.`,
	RunE: runPR,
}

func init() {
	prCmd.Flags().StringVar(&prCoverageData, "coverage-data", "", "Coverage data JSON file (required)")
	prCmd.Flags().StringVar(&prGeneratedTests, "generated-tests", "generated_tests", "Generated tests directory")
	prCmd.Flags().StringVar(&prBranchPrefix, "branch-prefix", "", "Branch name prefix")
	prCmd.Flags().StringVar(&prTitle, "pr-title", "", "Custom PR title")
	prCmd.Flags().StringVar(&prModel, "ai-model", "", "AI model for generating content")
	_ = prCmd.MarkFlagRequired("coverage-data")
}

func runPR(cmd *cobra.Command, args []string) error {
	report, err := coverage.LoadReport(prCoverageData)
	if err != nil {
		return fmt.Errorf("failed to load coverage data: %w", err)
	}

	summary, err := pipeline.LoadSummary(filepath.Join(prGeneratedTests, "summary.json"))
	if err != nil {
		return fmt.Errorf("failed to load generation summary: %w", err)
	}

	if summary.TestsGenerated == 0 {
		logger.Info("no generated tests, skipping pull request")
		return nil
	}

	// Message generation is best-effort: a missing or failing client falls
	// back to templates.
	var client llm.Client
	model := prModel
	if model == "" {
		model = cfg.LLM.Model
	}
	client, err = llm.NewClient(llm.Options{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		Model:    model,
		BaseURL:  cfg.LLM.BaseURL,
	})
	if err != nil {
		logger.Warn("completion client unavailable, using template messages", zap.Error(err))
		client = nil
	}

	creator := pr.NewCreator(&pr.ExecRunner{Dir: workspace}, client)
	if prBranchPrefix != "" {
		creator.BranchPrefix = prBranchPrefix
	} else if cfg.PR.BranchPrefix != "" {
		creator.BranchPrefix = cfg.PR.BranchPrefix
	}
	if prTitle != "" {
		creator.Title = prTitle
	} else {
		creator.Title = cfg.PR.Title
	}

	result, err := creator.Create(cmd.Context(), report, summary)
	if err != nil {
		return err
	}

	if !result.Success {
		logger.Info("no pull request created", zap.String("reason", result.Reason))
		return nil
	}

	logger.Info("pull request created",
		zap.String("url", result.PRURL),
		zap.String("branch", result.BranchName))
	fmt.Println(result.PRURL)
	return nil
}
