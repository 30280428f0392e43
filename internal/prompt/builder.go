// Package prompt builds test-generation requests and cleans model output.
// Everything here is pure string manipulation: no I/O, no model calls, so the
// package is testable without network access.
package prompt

import (
	"fmt"
	"strings"

	"coverbot/internal/analysis"
)

// noneFound is the sentinel embedded when an inventory list is empty.
const noneFound = "None found"

// Request carries everything the builder embeds into a generation prompt.
type Request struct {
	FilePath  string
	Language  string
	Framework string
	Coverage  float64
	Source    string
	Inventory analysis.Inventory
}

// Build composes the generation request. Output is deterministic for
// identical inputs: inventory names are sorted before joining, coverage is
// always formatted to one decimal place, and the source is fenced with the
// language tag.
func Build(req Request) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Generate comprehensive unit tests for the following %s source code file: %s\n\n",
		req.Language, req.FilePath)
	fmt.Fprintf(&sb, "Current test coverage: %.1f%%\n", req.Coverage)
	fmt.Fprintf(&sb, "Test framework: %s\n\n", req.Framework)

	sb.WriteString(`Requirements:
1. Cover all public functions and methods
2. Include edge cases and error conditions
3. Test different input scenarios
4. Add boundary value testing
5. Test error handling and exceptions
`)
	fmt.Fprintf(&sb, "6. Use %s conventions\n", req.Framework)
	sb.WriteString(`7. Include descriptive test names
8. Add setup/teardown if needed
9. Mock external dependencies appropriately

`)

	fmt.Fprintf(&sb, "Functions to test: %s\n", joinNames(req.Inventory.Functions))
	fmt.Fprintf(&sb, "Classes to test: %s\n\n", joinNames(req.Inventory.Classes))

	sb.WriteString("SOURCE CODE:\n")
	fmt.Fprintf(&sb, "```%s\n%s\n```\n\n", req.Language, req.Source)

	sb.WriteString("Generate only the test code with proper imports and structure. Do not include explanations or markdown formatting.")

	return sb.String()
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return noneFound
	}
	return strings.Join(analysis.SortedCopy(names), ", ")
}
