// Package pipeline drives the generation batch: it resolves destination
// paths for generated test files, runs each candidate through analysis,
// prompting, completion, and sanitization, and accumulates the run manifest.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"coverbot/internal/logging"
)

// Resolver computes the canonical on-disk location for generated test files.
// The candidate list per language is fixed and ordered; the resolver always
// selects the first candidate without probing the alternatives, so re-runs
// land on the same path and overwrite rather than duplicate. That also means
// a hand-written test at a later candidate path is never detected; the
// overwrite risk is accepted.
type Resolver struct {
	// Root anchors repo-level candidate directories (tests/, src/test/java).
	// Defaults to the current directory when empty.
	Root string
}

// Resolve returns the destination path for a source file's generated test,
// creating missing parent directories as a side effect.
func (r *Resolver) Resolve(sourcePath string) (string, error) {
	candidates := r.candidates(sourcePath)
	chosen := candidates[0]

	if err := os.MkdirAll(filepath.Dir(chosen), 0755); err != nil {
		return "", fmt.Errorf("failed to create test directory: %w", err)
	}

	logging.PathsDebug("resolved %s -> %s", sourcePath, chosen)
	return chosen, nil
}

// candidates returns the ordered destination patterns for a source file.
func (r *Resolver) candidates(sourcePath string) []string {
	root := r.Root
	if root == "" {
		root = "."
	}

	dir := filepath.Dir(sourcePath)
	base := filepath.Base(sourcePath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	// Source paths are repo-relative; directory-adjacent candidates stay
	// next to the source, repo-level candidates go under root.
	adjacent := func(name string) string { return filepath.Join(root, dir, name) }
	topLevel := func(parts ...string) string {
		return filepath.Join(append([]string{root}, parts...)...)
	}

	switch ext {
	case ".py":
		return []string{
			topLevel("tests", "test_"+base),
			adjacent("test_" + base),
			adjacent(filepath.Join("tests", "test_"+base)),
		}
	case ".js", ".ts", ".jsx", ".tsx":
		testName := stem + ".test" + ext
		return []string{
			adjacent(filepath.Join("__tests__", testName)),
			adjacent(testName),
			topLevel("tests", testName),
		}
	case ".java":
		return []string{
			topLevel("src", "test", "java", "Test"+stem+".java"),
			adjacent("Test" + stem + ".java"),
		}
	default:
		return []string{
			topLevel("tests", "test_"+base),
			adjacent("test_" + base),
		}
	}
}
