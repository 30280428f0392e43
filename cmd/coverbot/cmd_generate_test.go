package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coverbot/internal/coverage"
)

type stubClient struct{ reply string }

func (s *stubClient) Complete(ctx context.Context, prompt string) (string, error) {
	return s.reply, nil
}

func (s *stubClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return s.reply, nil
}

func TestRunGeneration_TestsLandInWorkspace(t *testing.T) {
	ws := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "generated_tests")

	srcPath := filepath.Join(ws, "app", "util.py")
	require.NoError(t, os.MkdirAll(filepath.Dir(srcPath), 0755))
	require.NoError(t, os.WriteFile(srcPath, []byte("def compute():\n    return 1\n"), 0644))

	report := &coverage.Report{
		Repository:        "acme/widgets",
		Branch:            "main",
		LeastCoveredFiles: []coverage.Candidate{{Filename: "app/util.py", Coverage: 12.5}},
	}

	client := &stubClient{reply: "def test_compute():\n    assert compute() == 1"}
	summary, err := runGeneration(context.Background(), client, report, ws, outputDir, 3, "auto", "test-model")
	require.NoError(t, err)

	// The generated test sits inside the workspace tree where the project's
	// test runner picks it up, not under the manifest directory.
	_, err = os.Stat(filepath.Join(ws, "tests", "test_util.py"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(outputDir, "tests", "test_util.py"))
	assert.True(t, os.IsNotExist(err))

	// The manifest is the only artifact under the output directory.
	_, err = os.Stat(filepath.Join(outputDir, "summary.json"))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesProcessed)
	assert.Equal(t, outputDir, summary.OutputDirectory)
	require.Len(t, summary.GeneratedFiles, 1)
	assert.Equal(t, "tests/test_util.py", summary.GeneratedFiles[0].TestFile)
}
