package analysis

import "regexp"

// Function-definition patterns across the language families the pipeline
// supports. Order matters only for readability; all patterns run and their
// matches are merged.
var functionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`def\s+(\w+)\s*\(`),          // Python
	regexp.MustCompile(`function\s+(\w+)\s*\(`),     // JavaScript
	regexp.MustCompile(`(\w+)\s*\([^)]*\)\s*\{`),    // C-style
	regexp.MustCompile(`func\s+(\w+)\s*\(`),         // Go
	regexp.MustCompile(`fn\s+(\w+)\s*\(`),           // Rust
	regexp.MustCompile(`public\s+\w+\s+(\w+)\s*\(`), // Java/C#
}

// Class/struct/interface patterns.
var classPatterns = []*regexp.Regexp{
	regexp.MustCompile(`class\s+(\w+)`),     // Python, JS, Java, C#
	regexp.MustCompile(`struct\s+(\w+)`),    // C, Go, Rust
	regexp.MustCompile(`interface\s+(\w+)`), // TypeScript, Java, C#
}

// extractGeneric applies the regex heuristics to any source text. Matches
// from all patterns are merged, deduplicated, and stripped of test-like
// names. Heuristic by design: it over- and under-matches, which is
// acceptable because the inventory only steers prompt wording.
func extractGeneric(source []byte) Inventory {
	var functions, classes []string

	for _, pattern := range functionPatterns {
		for _, m := range pattern.FindAllSubmatch(source, -1) {
			functions = append(functions, string(m[1]))
		}
	}
	for _, pattern := range classPatterns {
		for _, m := range pattern.FindAllSubmatch(source, -1) {
			classes = append(classes, string(m[1]))
		}
	}

	return Inventory{
		Functions: dedupe(functions),
		Classes:   dedupe(classes),
	}
}
