package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Entry records one successfully generated test file.
type Entry struct {
	SourceFile string  `json:"source_file"`
	TestFile   string  `json:"test_file"`
	Coverage   float64 `json:"coverage"`
}

// Summary is the batch manifest written after a generation run. Counts cover
// successes only; skipped candidates appear in logs, not here.
type Summary struct {
	FilesProcessed  int     `json:"files_processed"`
	TestsGenerated  int     `json:"tests_generated"`
	GeneratedFiles  []Entry `json:"generated_files"`
	OutputDirectory string  `json:"output_directory,omitempty"`
	Model           string  `json:"ai_model,omitempty"`
	Framework       string  `json:"test_framework,omitempty"`
}

// Save writes the manifest as indented JSON, creating parent directories.
func (s *Summary) Save(path string) error {
	if s.GeneratedFiles == nil {
		s.GeneratedFiles = []Entry{}
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create summary directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// LoadSummary reads a previously saved manifest, used by the PR stage to
// describe what a run produced.
func LoadSummary(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read summary: %w", err)
	}

	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse summary: %w", err)
	}
	return &s, nil
}
