package language

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"app/util.py", Python},
		{"scripts/run.PY", Python},
		{"web/index.js", JavaScript},
		{"web/App.jsx", JavaScript},
		{"src/main.ts", TypeScript},
		{"src/App.tsx", TypeScript},
		{"com/example/Main.java", Java},
		{"core/engine.cpp", CPP},
		{"core/engine.cc", CPP},
		{"core/engine.cxx", CPP},
		{"core/engine.c++", CPP},
		{"lib/alloc.c", C},
		{"Service.cs", CSharp},
		{"internal/server.go", Go},
		{"src/lib.rs", Rust},
		{"app/models/user.rb", Ruby},
		{"public/index.php", PHP},
		{"README.md", Unknown},
		{"Makefile", Unknown},
		{"data.bin", Unknown},
		{"", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Detect(tt.path); got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestDetect_NeverErrors(t *testing.T) {
	// Odd inputs always map to a tag, never panic or error.
	for _, path := range []string{".", "..", "/", "no-extension", "trailing.dot.", "weird.ZZZ"} {
		if got := Detect(path); got != Unknown {
			t.Errorf("Detect(%q) = %q, want %q", path, got, Unknown)
		}
	}
}

func TestExtensions(t *testing.T) {
	exts := Extensions(CPP)
	if len(exts) != 4 {
		t.Fatalf("expected 4 cpp extensions, got %v", exts)
	}
	if got := Extensions("fortran"); got != nil {
		t.Errorf("expected nil for unregistered language, got %v", got)
	}
}

func TestSelectFramework(t *testing.T) {
	tests := []struct {
		lang     string
		override string
		want     string
	}{
		{Python, "", "pytest"},
		{Python, AutoFramework, "pytest"},
		{Python, "unittest", "unittest"},
		{JavaScript, "", "jest"},
		{TypeScript, "", "jest"},
		{Java, "", "junit"},
		{CSharp, "", "nunit"},
		{Go, "", "testing"},
		{Rust, "", "builtin"},
		{Ruby, "", "rspec"},
		{PHP, "", "phpunit"},
		{Unknown, "", DefaultFramework},
		{"cobol", "", DefaultFramework},
		{Unknown, "mytest", "mytest"},
	}

	for _, tt := range tests {
		if got := SelectFramework(tt.lang, tt.override); got != tt.want {
			t.Errorf("SelectFramework(%q, %q) = %q, want %q", tt.lang, tt.override, got, tt.want)
		}
	}
}
