package coverage

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"coverbot/internal/language"
	"coverbot/internal/logging"
)

// Candidate is one ranked generation target: a source file and its coverage
// percentage at selection time.
type Candidate struct {
	Filename string  `json:"filename"`
	Coverage float64 `json:"coverage"`
}

// Directories skipped during local scans and language detection.
var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	"dist":         true,
	"build":        true,
}

// DetectProjectLanguages walks the tree under root and reports which
// supported languages are present, judged by file extension.
func DetectProjectLanguages(root string) []string {
	detected := make(map[string]bool)

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if lang := language.Detect(path); lang != language.Unknown {
			detected[lang] = true
		}
		return nil
	})

	langs := make([]string, 0, len(detected))
	for lang := range detected {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// validExtensions expands a language list into the extension set used for
// filtering. An empty language list means "all supported languages".
func validExtensions(languages []string) map[string]bool {
	if len(languages) == 0 {
		languages = language.All()
	}
	exts := make(map[string]bool)
	for _, lang := range languages {
		for _, ext := range language.Extensions(lang) {
			exts[ext] = true
		}
	}
	return exts
}

// globRegexp compiles an exclude pattern into a case-insensitive regexp.
// Wildcards cross path separators, so "*test*" matches "src/test_util.py";
// filepath.Match would stop * at each slash and let subdirectory files
// through. Only * and ? are special.
func globRegexp(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("(?i)^")
	for _, r := range pattern {
		switch r {
		case '*':
			sb.WriteString(".*")
		case '?':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")
	return regexp.Compile(sb.String())
}

// excluded reports whether a slash path matches any of the glob patterns.
func excluded(name string, patterns []string) bool {
	for _, pattern := range patterns {
		re, err := globRegexp(pattern)
		if err != nil {
			continue
		}
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// FilterSourceFiles keeps only files whose extension belongs to one of the
// requested languages and that no exclude pattern matches.
func FilterSourceFiles(files []FileCoverage, languages, excludePatterns []string) []FileCoverage {
	exts := validExtensions(languages)

	var out []FileCoverage
	for _, f := range files {
		if f.Name == "" || excluded(f.Name, excludePatterns) {
			continue
		}
		if exts[strings.ToLower(filepath.Ext(f.Name))] {
			out = append(out, f)
		}
	}
	return out
}

// LeastCovered ranks files below the target threshold by ascending coverage
// and truncates to limit. The result is the opaque ranked list the pipeline
// consumes; downstream code never re-sorts or re-filters it.
func LeastCovered(files []FileCoverage, targetCoverage float64, limit int) []Candidate {
	var ranked []Candidate
	for _, f := range files {
		pct := f.Percent()
		if pct < targetCoverage {
			ranked = append(ranked, Candidate{Filename: f.Name, Coverage: pct})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Coverage < ranked[j].Coverage
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// ScanLocal is the fallback when no coverage data is available: every
// matching source file under root becomes a candidate with 0% coverage,
// sorted by filename for stable output.
func ScanLocal(root string, languages, excludePatterns []string) []Candidate {
	if len(languages) == 0 {
		languages = DetectProjectLanguages(root)
	}
	exts := validExtensions(languages)

	var candidates []Candidate

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if excluded(rel, excludePatterns) {
			return nil
		}
		if exts[strings.ToLower(filepath.Ext(rel))] {
			candidates = append(candidates, Candidate{Filename: rel, Coverage: 0.0})
		}
		return nil
	})

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Filename < candidates[j].Filename
	})

	logging.Coverage("local scan found %d source files under %s", len(candidates), root)
	return candidates
}
