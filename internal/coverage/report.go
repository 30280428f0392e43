package coverage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Report is the persisted outcome of a coverage analysis run, consumed by
// the generation and PR stages.
type Report struct {
	Repository         string      `json:"repository"`
	Branch             string      `json:"branch"`
	TargetCoverage     float64     `json:"target_coverage"`
	Languages          []string    `json:"languages"`
	ExcludePatterns    []string    `json:"exclude_patterns"`
	TotalFilesAnalyzed int         `json:"total_files_analyzed"`
	LeastCoveredFiles  []Candidate `json:"least_covered_files"`
	HasCoverageData    bool        `json:"has_coverage_data"`
	Error              string      `json:"error,omitempty"`
}

// Save writes the report as indented JSON, creating parent directories.
func (r *Report) Save(path string) error {
	if r.LeastCoveredFiles == nil {
		r.LeastCoveredFiles = []Candidate{}
	}
	if r.Languages == nil {
		r.Languages = []string{}
	}
	if r.ExcludePatterns == nil {
		r.ExcludePatterns = []string{}
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// LoadReport reads a previously saved report.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &r, nil
}
