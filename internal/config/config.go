// Package config loads coverbot configuration from YAML with environment
// overrides for tokens and model selection.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is where coverbot looks for its config file.
const DefaultConfigPath = ".coverbot/config.yaml"

// Config holds all coverbot configuration.
type Config struct {
	Repository RepositoryConfig `yaml:"repository"`
	Coverage   CoverageConfig   `yaml:"coverage"`
	LLM        LLMConfig        `yaml:"llm"`
	Generation GenerationConfig `yaml:"generation"`
	PR         PRConfig         `yaml:"pr"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// RepositoryConfig identifies the repository under analysis.
type RepositoryConfig struct {
	// Slug is the org/repo pair, e.g. "acme/widgets".
	Slug   string `yaml:"slug"`
	Branch string `yaml:"branch"`
}

// CoverageConfig configures coverage analysis and candidate selection.
type CoverageConfig struct {
	CodecovToken    string   `yaml:"codecov_token"`
	TargetCoverage  float64  `yaml:"target_coverage"`
	MaxFiles        int      `yaml:"max_files"`
	Languages       []string `yaml:"languages"`
	ExcludePatterns []string `yaml:"exclude_patterns"`
}

// LLMConfig configures the completion provider.
type LLMConfig struct {
	Provider string `yaml:"provider"` // github, gemini
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
}

// GenerationConfig configures the test-generation batch.
type GenerationConfig struct {
	// Framework overrides per-language selection; "auto" or empty keeps
	// the language default.
	Framework string `yaml:"framework"`
	OutputDir string `yaml:"output_dir"`
	// HistoryPath is the SQLite run-history database location.
	HistoryPath string `yaml:"history_path"`
}

// PRConfig configures pull request creation.
type PRConfig struct {
	BranchPrefix string `yaml:"branch_prefix"`
	Title        string `yaml:"title"`
}

// LoggingConfig mirrors the category logger settings.
type LoggingConfig struct {
	DebugMode  bool     `yaml:"debug_mode"`
	Categories []string `yaml:"categories"`
	Level      string   `yaml:"level"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Repository: RepositoryConfig{
			Branch: "main",
		},
		Coverage: CoverageConfig{
			TargetCoverage: 80.0,
			MaxFiles:       5,
			ExcludePatterns: []string{
				"*test*", "*spec*", "*__pycache__*", "*node_modules*",
				"*venv*", "*.git*", "*build*", "*dist*",
			},
		},
		LLM: LLMConfig{
			Provider: "github",
			Model:    "openai/gpt-4.1-mini",
			Timeout:  "120s",
		},
		Generation: GenerationConfig{
			Framework:   "auto",
			HistoryPath: ".coverbot/history.db",
		},
		PR: PRConfig{
			BranchPrefix: "coverage-boost",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML file, falling back to defaults when
// the file does not exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides. Tokens always
// come from the environment in CI; the file values are local-dev fallbacks.
func (c *Config) applyEnvOverrides() {
	switch c.LLM.Provider {
	case "gemini":
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			c.LLM.APIKey = key
		}
	default:
		if token := os.Getenv("GITHUB_TOKEN"); token != "" {
			c.LLM.APIKey = token
		}
	}
	if token := os.Getenv("CODECOV_TOKEN"); token != "" {
		c.Coverage.CodecovToken = token
	}
	if model := os.Getenv("COVERBOT_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if repo := os.Getenv("GITHUB_REPOSITORY"); repo != "" && c.Repository.Slug == "" {
		c.Repository.Slug = repo
	}
}
