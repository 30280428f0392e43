// Package language maps source files to canonical language tags and
// language tags to their idiomatic unit-test frameworks. Both mappings are
// immutable static tables; unknown inputs degrade to sentinel values rather
// than errors so the pipeline never stalls on an unrecognized file.
package language

import (
	"path/filepath"
	"strings"
)

// Canonical language tags.
const (
	Python     = "python"
	JavaScript = "javascript"
	TypeScript = "typescript"
	Java       = "java"
	CPP        = "cpp"
	C          = "c"
	CSharp     = "csharp"
	Go         = "go"
	Rust       = "rust"
	Ruby       = "ruby"
	PHP        = "php"
	Unknown    = "unknown"
)

// extensions maps lowercase file extensions to language tags.
var extensions = map[string]string{
	".py":   Python,
	".js":   JavaScript,
	".jsx":  JavaScript,
	".ts":   TypeScript,
	".tsx":  TypeScript,
	".java": Java,
	".cpp":  CPP,
	".cc":   CPP,
	".cxx":  CPP,
	".c++":  CPP,
	".c":    C,
	".cs":   CSharp,
	".go":   Go,
	".rs":   Rust,
	".rb":   Ruby,
	".php":  PHP,
}

// Detect returns the canonical language tag for a file path based on its
// extension. Unrecognized extensions return Unknown.
func Detect(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extensions[ext]; ok {
		return lang
	}
	return Unknown
}

// Extensions returns the source extensions registered for a language tag.
// Used by the coverage selector to filter files by languages of interest.
func Extensions(lang string) []string {
	var exts []string
	for ext, tag := range extensions {
		if tag == lang {
			exts = append(exts, ext)
		}
	}
	return exts
}

// All returns the set of known language tags (excluding Unknown).
func All() []string {
	seen := make(map[string]bool)
	var langs []string
	for _, tag := range extensions {
		if !seen[tag] {
			seen[tag] = true
			langs = append(langs, tag)
		}
	}
	return langs
}
