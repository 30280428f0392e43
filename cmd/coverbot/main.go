// coverbot analyzes test coverage, generates unit tests for the least
// covered files with an LLM, and opens pull requests with the results.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"coverbot/internal/config"
	"coverbot/internal/logging"
)

const version = "1.0.0"

var (
	// Global flags
	verbose    bool
	workspace  string
	configPath string

	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "coverbot",
	Short: "coverbot - coverage-driven test generation",
	Long: `coverbot finds the least covered source files in a repository,
generates unit tests for them with an AI model, and opens a pull
request with the results.

Typical flow:
  coverbot coverage --repo acme/widgets --output coverage_data.json
  coverbot generate --coverage-data coverage_data.json
  coverbot pr --coverage-data coverage_data.json --generated-tests generated_tests`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if workspace == "" {
			workspace, _ = os.Getwd()
		}
		if err := logging.Initialize(workspace); err != nil {
			logger.Warn("category logging disabled", zap.Error(err))
		}

		path := configPath
		if path == "" {
			path = config.DefaultConfigPath
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the coverbot version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("coverbot %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: .coverbot/config.yaml)")

	rootCmd.AddCommand(coverageCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(prCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
