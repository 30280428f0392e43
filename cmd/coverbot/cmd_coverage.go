package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"coverbot/internal/coverage"
)

var (
	coverageRepo     string
	coverageBranch   string
	coverageLimit    int
	coverageTarget   float64
	coverageLangs    string
	coverageExcludes string
	coverageOutput   string
)

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Identify the least covered source files",
	Long: `Fetches per-file coverage from Codecov and ranks files below the
target threshold by ascending coverage. When Codecov has no data for the
repository, falls back to scanning the local tree with every file at 0%.`,
	RunE: runCoverage,
}

func init() {
	coverageCmd.Flags().StringVar(&coverageRepo, "repo", "", "Repository slug (org/repo)")
	coverageCmd.Flags().StringVar(&coverageBranch, "branch", "", "Branch name")
	coverageCmd.Flags().IntVar(&coverageLimit, "limit", 0, "Maximum number of files to identify")
	coverageCmd.Flags().Float64Var(&coverageTarget, "target-coverage", 0, "Target coverage threshold")
	coverageCmd.Flags().StringVar(&coverageLangs, "languages", "", "Comma-separated list of languages")
	coverageCmd.Flags().StringVar(&coverageExcludes, "exclude-patterns", "", "Comma-separated exclude patterns")
	coverageCmd.Flags().StringVar(&coverageOutput, "output", "coverage_data.json", "Output file for results")
}

// splitList parses a comma-separated flag into trimmed non-empty items.
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func runCoverage(cmd *cobra.Command, args []string) error {
	repo := coverageRepo
	if repo == "" {
		repo = cfg.Repository.Slug
	}
	branch := coverageBranch
	if branch == "" {
		branch = cfg.Repository.Branch
	}
	target := coverageTarget
	if target == 0 {
		target = cfg.Coverage.TargetCoverage
	}
	limit := coverageLimit
	if limit == 0 {
		limit = cfg.Coverage.MaxFiles
	}

	languages := splitList(coverageLangs)
	if len(languages) == 0 {
		languages = cfg.Coverage.Languages
	}
	excludes := splitList(coverageExcludes)
	if len(excludes) == 0 {
		excludes = cfg.Coverage.ExcludePatterns
	}

	org, name, ok := strings.Cut(repo, "/")
	if !ok {
		return fmt.Errorf("repository slug must be org/repo, got %q", repo)
	}

	logger.Info("analyzing coverage",
		zap.String("repo", repo),
		zap.String("branch", branch),
		zap.Float64("target", target))

	report := &coverage.Report{
		Repository:      repo,
		Branch:          branch,
		TargetCoverage:  target,
		Languages:       languages,
		ExcludePatterns: excludes,
	}

	client := coverage.NewCodecovClient(org, name, cfg.Coverage.CodecovToken)
	files, err := client.FileCoverageList(cmd.Context(), branch)
	if err != nil {
		report.Error = err.Error()
	}

	if len(files) > 0 {
		filtered := coverage.FilterSourceFiles(files, languages, excludes)
		report.TotalFilesAnalyzed = len(filtered)
		report.LeastCoveredFiles = coverage.LeastCovered(filtered, target, limit)
		report.HasCoverageData = true
	} else {
		logger.Info("no coverage data available, scanning local files")
		candidates := coverage.ScanLocal(workspace, languages, excludes)
		if limit > 0 && len(candidates) > limit {
			candidates = candidates[:limit]
		}
		report.TotalFilesAnalyzed = len(candidates)
		report.LeastCoveredFiles = candidates
	}

	if err := report.Save(coverageOutput); err != nil {
		return err
	}

	logger.Info("coverage analysis complete",
		zap.Int("candidates", len(report.LeastCoveredFiles)),
		zap.String("output", coverageOutput))
	return nil
}
