package language

// DefaultFramework is returned for languages with no registered framework.
const DefaultFramework = "default"

// AutoFramework asks the selector to pick from the static table.
const AutoFramework = "auto"

// frameworks maps language tags to their most common unit-test framework.
// This is a best-guess default; it deliberately does not probe the target
// repository's actual test configuration.
var frameworks = map[string]string{
	Python:     "pytest",
	JavaScript: "jest",
	TypeScript: "jest",
	Java:       "junit",
	CSharp:     "nunit",
	Go:         "testing",
	Rust:       "builtin",
	Ruby:       "rspec",
	PHP:        "phpunit",
}

// Framework returns the idiomatic test framework for a language tag.
func Framework(lang string) string {
	if fw, ok := frameworks[lang]; ok {
		return fw
	}
	return DefaultFramework
}

// SelectFramework resolves the framework to use for a language. An explicit
// override (anything other than empty or "auto") always wins over the table.
func SelectFramework(lang, override string) string {
	if override != "" && override != AutoFramework {
		return override
	}
	return Framework(lang)
}
