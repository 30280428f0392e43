package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"coverbot/internal/coverage"
)

func TestMain(m *testing.M) {
	// opencensus (indirect, via google.golang.org/genai) starts a background
	// worker goroutine in package init that no test can stop.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

// fakeClient scripts completion responses per call.
type fakeClient struct {
	calls     int
	responses []string
	errs      []error
}

func (f *fakeClient) Complete(ctx context.Context, userPrompt string) (string, error) {
	return f.CompleteWithSystem(ctx, "", userPrompt)
}

func (f *fakeClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "def test_ok():\n    assert True", nil
}

func seedSources(t *testing.T, root string, names ...string) []coverage.Candidate {
	t.Helper()
	candidates := make([]coverage.Candidate, 0, len(names))
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("def compute():\n    return 1\n"), 0644))
		candidates = append(candidates, coverage.Candidate{Filename: name, Coverage: 12.5})
	}
	return candidates
}

func TestOrchestrator_Run(t *testing.T) {
	root := t.TempDir()
	candidates := seedSources(t, root, "app/util.py")

	client := &fakeClient{responses: []string{"```python\ndef test_compute():\n    assert compute() == 1\n```"}}
	o := NewOrchestrator(client, Options{SourceRoot: root, Model: "test-model"})

	summary := o.Run(context.Background(), candidates)

	assert.Equal(t, 1, summary.FilesProcessed)
	assert.Equal(t, 1, summary.TestsGenerated)
	require.Len(t, summary.GeneratedFiles, 1)
	assert.Equal(t, "app/util.py", summary.GeneratedFiles[0].SourceFile)
	assert.Equal(t, "tests/test_util.py", summary.GeneratedFiles[0].TestFile)
	assert.Equal(t, 12.5, summary.GeneratedFiles[0].Coverage)

	// The written file is sanitized: fences stripped, trailing newline added.
	data, err := os.ReadFile(filepath.Join(root, "tests", "test_util.py"))
	require.NoError(t, err)
	assert.Equal(t, "def test_compute():\n    assert compute() == 1\n", string(data))
}

func TestOrchestrator_MaxFilesCap(t *testing.T) {
	root := t.TempDir()
	candidates := seedSources(t, root, "a.py", "b.py", "c.py", "d.py", "e.py")

	client := &fakeClient{}
	o := NewOrchestrator(client, Options{SourceRoot: root, MaxFiles: 3})

	summary := o.Run(context.Background(), candidates)

	assert.Equal(t, 3, client.calls)
	assert.Equal(t, 3, summary.FilesProcessed)
	assert.Len(t, summary.GeneratedFiles, 3)
}

func TestOrchestrator_FailureSkipsCandidateOnly(t *testing.T) {
	root := t.TempDir()
	candidates := seedSources(t, root, "a.py", "b.py", "c.py")

	client := &fakeClient{errs: []error{nil, errors.New("rate limited"), nil}}
	o := NewOrchestrator(client, Options{SourceRoot: root})

	summary := o.Run(context.Background(), candidates)

	assert.Equal(t, 2, summary.FilesProcessed)
	require.Len(t, summary.GeneratedFiles, 2)
	assert.Equal(t, "a.py", summary.GeneratedFiles[0].SourceFile)
	assert.Equal(t, "c.py", summary.GeneratedFiles[1].SourceFile)
}

func TestOrchestrator_EmptyCandidateList(t *testing.T) {
	client := &fakeClient{}
	o := NewOrchestrator(client, Options{SourceRoot: t.TempDir()})

	summary := o.Run(context.Background(), nil)

	assert.Equal(t, 0, client.calls)
	assert.Equal(t, 0, summary.FilesProcessed)
	assert.NotNil(t, summary.GeneratedFiles)
	assert.Empty(t, summary.GeneratedFiles)
}

func TestOrchestrator_EmptyOutputNotWritten(t *testing.T) {
	root := t.TempDir()
	candidates := seedSources(t, root, "app/util.py")

	client := &fakeClient{responses: []string{"```python\n```"}}
	o := NewOrchestrator(client, Options{SourceRoot: root})

	summary := o.Run(context.Background(), candidates)

	assert.Equal(t, 0, summary.FilesProcessed)
	_, err := os.Stat(filepath.Join(root, "tests", "test_util.py"))
	assert.True(t, os.IsNotExist(err))
}

func TestOrchestrator_MissingSourceSkipped(t *testing.T) {
	root := t.TempDir()
	candidates := seedSources(t, root, "a.py")
	candidates = append(candidates, coverage.Candidate{Filename: "gone.py", Coverage: 5.0})

	client := &fakeClient{}
	o := NewOrchestrator(client, Options{SourceRoot: root})

	summary := o.Run(context.Background(), candidates)

	// Only the readable candidate reached the model.
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, 1, summary.FilesProcessed)
}

func TestSummary_SaveLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "summary.json")

	summary := &Summary{
		FilesProcessed: 2,
		TestsGenerated: 2,
		GeneratedFiles: []Entry{
			{SourceFile: "a.py", TestFile: "tests/test_a.py", Coverage: 10.0},
			{SourceFile: "b.py", TestFile: "tests/test_b.py", Coverage: 20.0},
		},
		Model:     "test-model",
		Framework: "pytest",
	}

	require.NoError(t, summary.Save(path))

	loaded, err := LoadSummary(path)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.FilesProcessed)
	require.Len(t, loaded.GeneratedFiles, 2)
	assert.Equal(t, "tests/test_a.py", loaded.GeneratedFiles[0].TestFile)
}

func TestSummary_SaveEmptySlicesNotNull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")

	summary := &Summary{}
	require.NoError(t, summary.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"generated_files": []`)
	assert.NotContains(t, string(data), "null")
}
