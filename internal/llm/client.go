// Package llm provides the model-completion collaborator: a small Client
// interface with provider implementations for GitHub Models (OpenAI wire
// protocol) and Google Gemini. Provider errors surface to the caller, which
// treats them as per-candidate failures, never batch-fatal.
package llm

import "context"

// Client defines the interface for completion providers.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// defaultSystemPrompt frames every test-generation completion when the
// caller supplies no system message.
const defaultSystemPrompt = "You are an expert software engineer specializing in writing comprehensive unit tests. " +
	"Generate clean, well-documented, and thorough test cases that follow best practices for the given " +
	"programming language. Do not include any explanatory text, just return the test code."
