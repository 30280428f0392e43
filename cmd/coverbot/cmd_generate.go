package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"coverbot/internal/coverage"
	"coverbot/internal/llm"
	"coverbot/internal/pipeline"
	"coverbot/internal/store"
)

var (
	generateCoverageData string
	generateMaxFiles     int
	generateFramework    string
	generateModel        string
	generateProvider     string
	generateOutputDir    string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate unit tests for the least covered files",
	Long: `Reads a coverage report, runs each candidate file through structural
analysis and AI test generation, and writes the resulting test files plus a
summary.json manifest.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateCoverageData, "coverage-data", "", "JSON file with coverage data (required)")
	generateCmd.Flags().IntVar(&generateMaxFiles, "max-files", 3, "Maximum number of files to process")
	generateCmd.Flags().StringVar(&generateFramework, "test-framework", "auto", "Test framework to use")
	generateCmd.Flags().StringVar(&generateModel, "ai-model", "", "AI model to use")
	generateCmd.Flags().StringVar(&generateProvider, "provider", "", "Completion provider (github, gemini)")
	generateCmd.Flags().StringVar(&generateOutputDir, "output-dir", "generated_tests", "Output directory")
	_ = generateCmd.MarkFlagRequired("coverage-data")
}

// buildClient assembles the completion client from flags and config.
func buildClient() (llm.Client, string, error) {
	provider := generateProvider
	if provider == "" {
		provider = cfg.LLM.Provider
	}
	model := generateModel
	if model == "" {
		model = cfg.LLM.Model
	}

	timeout, _ := time.ParseDuration(cfg.LLM.Timeout)
	client, err := llm.NewClient(llm.Options{
		Provider: provider,
		APIKey:   cfg.LLM.APIKey,
		Model:    model,
		BaseURL:  cfg.LLM.BaseURL,
		Timeout:  timeout,
	})
	if err != nil {
		return nil, "", err
	}
	return client, model, nil
}

// runGeneration executes the batch and writes summary.json under outputDir.
// Test files go into the workspace tree itself, where the project's test
// runner will find them; outputDir receives only the manifest.
func runGeneration(ctx context.Context, client llm.Client, report *coverage.Report, ws, outputDir string, maxFiles int, framework, model string) (*pipeline.Summary, error) {
	orchestrator := pipeline.NewOrchestrator(client, pipeline.Options{
		SourceRoot: ws,
		MaxFiles:   maxFiles,
		Framework:  framework,
		Model:      model,
	})

	summary := orchestrator.Run(ctx, report.LeastCoveredFiles)
	summary.OutputDirectory = outputDir

	if err := summary.Save(filepath.Join(outputDir, "summary.json")); err != nil {
		return nil, err
	}
	return summary, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	report, err := coverage.LoadReport(generateCoverageData)
	if err != nil {
		return fmt.Errorf("failed to load coverage data: %w", err)
	}

	client, model, err := buildClient()
	if err != nil {
		return err
	}

	logger.Info("generating tests",
		zap.Int("candidates", len(report.LeastCoveredFiles)),
		zap.String("model", model),
		zap.String("output_dir", generateOutputDir))

	summary, err := runGeneration(cmd.Context(), client, report, workspace,
		generateOutputDir, generateMaxFiles, generateFramework, model)
	if err != nil {
		return err
	}

	if cfg.Generation.HistoryPath != "" {
		if err := recordHistory(cmd, summary); err != nil {
			logger.Warn("failed to record run history", zap.Error(err))
		}
	}

	logger.Info("generation complete",
		zap.Int("files_processed", summary.FilesProcessed),
		zap.Int("tests_generated", summary.TestsGenerated))
	return nil
}

func recordHistory(cmd *cobra.Command, summary *pipeline.Summary) error {
	history, err := store.Open(cfg.Generation.HistoryPath)
	if err != nil {
		return err
	}
	defer history.Close()

	_, err = history.RecordRun(cmd.Context(), summary)
	return err
}
