// Package analysis extracts a structural inventory (class and function names)
// from source files to steer test-generation prompts. Python gets a precise
// Tree-sitter parse; every other language, and any Python file that fails to
// parse, goes through regex heuristics. Structural analysis is advisory, not
// load-bearing: it degrades, it never fails.
package analysis

import (
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"coverbot/internal/language"
	"coverbot/internal/logging"
)

// Inventory is the extracted structural summary of one source file.
// Name sets are deduplicated and order-irrelevant.
type Inventory struct {
	Functions []string
	Classes   []string
}

// Empty reports whether nothing was extracted.
func (inv Inventory) Empty() bool {
	return len(inv.Functions) == 0 && len(inv.Classes) == 0
}

// Extractor turns source text into an Inventory.
type Extractor struct {
	python *sitter.Parser
}

// NewExtractor creates an Extractor with the Python grammar loaded.
func NewExtractor() *Extractor {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &Extractor{python: parser}
}

// Extract returns the structural inventory for source in the given language.
// Python uses the precise AST path; a parse failure silently falls back to
// the generic regex path.
func (e *Extractor) Extract(source []byte, lang string) Inventory {
	if lang == language.Python {
		if inv, ok := e.extractPython(source); ok {
			return inv
		}
		logging.AnalysisDebug("python parse failed, using generic extraction")
	}
	return extractGeneric(source)
}

// isTestLike matches the filter the original pipeline applies: any name
// containing "test" or "spec" as a case-insensitive substring is excluded,
// accepting false negatives like "latest" or "contest".
func isTestLike(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "test") || strings.Contains(lower, "spec")
}

// dedupe removes duplicates and test-like names, preserving first-seen order.
func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] || isTestLike(n) {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// SortedCopy returns the names sorted lexicographically. Consumers that need
// deterministic output (prompt construction) sort; the inventory itself does
// not guarantee order.
func SortedCopy(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	sort.Strings(out)
	return out
}
