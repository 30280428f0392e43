package prompt

import "strings"

// Clean strips the markdown code fences a model typically wraps its answer
// in: leading fence lines (with an optional language tag) and trailing fence
// lines, plus surrounding whitespace. Stripping repeats until the text is
// stable, so doubly-fenced output collapses fully and Clean(Clean(x)) ==
// Clean(x) for every input. Fences interior to the code survive because the
// first remaining line is no longer a fence opener.
func Clean(output string) string {
	text := strings.TrimSpace(output)
	for {
		stripped := stripOuterFence(text)
		if stripped == text {
			return text
		}
		text = stripped
	}
}

// stripOuterFence removes at most one leading fence-open line and one
// trailing bare fence line. Each removal strictly shortens the text, so the
// caller's loop terminates.
func stripOuterFence(text string) string {
	if text == "" {
		return ""
	}

	lines := strings.Split(text, "\n")
	changed := false

	if isFenceOpen(lines[0]) {
		lines = lines[1:]
		changed = true
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
		changed = true
	}

	if !changed {
		return text
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// isFenceOpen reports whether a line is a fence opener: ``` followed only by
// an optional language tag (word characters, +, -, .).
func isFenceOpen(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "```") {
		return false
	}
	tag := trimmed[3:]
	for _, r := range tag {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == '+', r == '-', r == '.', r == '#':
		default:
			return false
		}
	}
	return true
}
