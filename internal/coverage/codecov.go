// Package coverage fetches per-file coverage metrics from Codecov, filters
// them to the languages of interest, and ranks the worst-covered files as
// generation candidates. When no coverage report exists it falls back to a
// local filesystem scan that treats every source file as uncovered.
package coverage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"coverbot/internal/logging"
)

// CodecovClient talks to the Codecov REST API.
type CodecovClient struct {
	org        string
	repo       string
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewCodecovClient creates a client for one repository. The token is
// optional; public repositories work without it.
func NewCodecovClient(org, repo, token string) *CodecovClient {
	return &CodecovClient{
		org:     org,
		repo:    repo,
		token:   token,
		baseURL: "https://api.codecov.io",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetBaseURL overrides the API endpoint (used in tests).
func (c *CodecovClient) SetBaseURL(base string) {
	c.baseURL = base
}

// FileCoverage is the per-file record Codecov returns.
type FileCoverage struct {
	Name   string `json:"name"`
	Totals Totals `json:"totals"`
}

// Totals carries the coverage numbers for one file. Coverage is a pointer
// because Codecov omits it for files with no measurable lines.
type Totals struct {
	Coverage *float64 `json:"coverage"`
	Lines    int      `json:"lines"`
	Hits     int      `json:"hits"`
}

// Percent computes the coverage percentage for a file: the reported value
// when present, otherwise hits/lines, otherwise zero.
func (f FileCoverage) Percent() float64 {
	if f.Totals.Coverage != nil {
		return *f.Totals.Coverage
	}
	if f.Totals.Lines > 0 {
		return float64(f.Totals.Hits) / float64(f.Totals.Lines) * 100
	}
	return 0.0
}

type fileListResponse struct {
	Files []FileCoverage `json:"files"`
}

// FileCoverageList fetches per-file coverage for a branch. A non-200 answer
// is not fatal: repositories without coverage reports are normal, so the
// client logs a warning and returns an empty list.
func (c *CodecovClient) FileCoverageList(ctx context.Context, branch string) ([]FileCoverage, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/file", c.baseURL, c.org, c.repo)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	q := url.Values{}
	q.Set("branch", branch)
	req.URL.RawQuery = q.Encode()

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("codecov request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.Coverage("codecov returned %d for %s/%s; treating as no coverage data",
			resp.StatusCode, c.org, c.repo)
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read codecov response: %w", err)
	}

	var parsed fileListResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse codecov response: %w", err)
	}

	logging.Coverage("codecov returned %d files for %s/%s branch=%s",
		len(parsed.Files), c.org, c.repo, branch)
	return parsed.Files, nil
}
