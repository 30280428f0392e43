package llm

import (
	"fmt"
	"time"
)

// Options selects and configures a completion provider.
type Options struct {
	Provider string // "github" (default) or "gemini"
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// NewClient builds the configured provider client.
func NewClient(opts Options) (Client, error) {
	switch opts.Provider {
	case "", "github":
		config := DefaultGitHubModelsConfig(opts.APIKey)
		if opts.Model != "" {
			config.Model = opts.Model
		}
		if opts.BaseURL != "" {
			config.BaseURL = opts.BaseURL
		}
		if opts.Timeout > 0 {
			config.Timeout = opts.Timeout
		}
		return NewGitHubModelsClientWithConfig(config), nil
	case "gemini":
		return NewGeminiClient(opts.APIKey, opts.Model)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", opts.Provider)
	}
}
