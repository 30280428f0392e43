package analysis

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"coverbot/internal/language"
)

func sorted(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}

func TestExtract_PythonPrecise(t *testing.T) {
	src := []byte(`
class Invoice:
    def compute_total(self, items):
        return sum(items)

    def _cache_get(self, key):
        return self.cache.get(key)

def format_currency(amount):
    return f"${amount:.2f}"

def _internal_helper():
    pass

def test_format_currency():
    assert format_currency(1) == "$1.00"
`)

	inv := NewExtractor().Extract(src, language.Python)

	wantFuncs := []string{"compute_total", "format_currency"}
	if diff := cmp.Diff(wantFuncs, sorted(inv.Functions)); diff != "" {
		t.Errorf("functions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Invoice"}, sorted(inv.Classes)); diff != "" {
		t.Errorf("classes mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_PythonDecorated(t *testing.T) {
	src := []byte(`
import functools

@functools.lru_cache
def fetch_rates(currency):
    return lookup(currency)

@register
class RateProvider:
    pass
`)

	inv := NewExtractor().Extract(src, language.Python)

	assert.Contains(t, inv.Functions, "fetch_rates")
	assert.Contains(t, inv.Classes, "RateProvider")
}

func TestExtract_PythonNestedFunctions(t *testing.T) {
	src := []byte(`
def outer():
    def inner():
        pass
    def _hidden():
        pass
    return inner
`)

	inv := NewExtractor().Extract(src, language.Python)

	assert.ElementsMatch(t, []string{"outer", "inner"}, inv.Functions)
}

func TestExtract_PythonParseFailureFallsBack(t *testing.T) {
	// Unbalanced parenthesis: the precise parser reports errors, so the
	// generic regex path takes over and still finds the definition.
	src := []byte("def broken(:\n    pass\n")

	inv := NewExtractor().Extract(src, language.Python)

	assert.Contains(t, inv.Functions, "broken")
}

func TestExtract_GenericGo(t *testing.T) {
	src := []byte(`
package server

type Handler struct{}

type Responder interface {
	Respond() error
}

func ServeRequest(w io.Writer) error {
	return nil
}
`)

	inv := NewExtractor().Extract(src, language.Go)

	assert.Contains(t, inv.Functions, "ServeRequest")
	assert.Contains(t, inv.Classes, "Handler")
	assert.Contains(t, inv.Classes, "Responder")
}

func TestExtract_GenericJavaScript(t *testing.T) {
	src := []byte(`
class ShoppingCart {
  addItem(item) {}
}

function checkout(cart) {
  return cart.total();
}
`)

	inv := NewExtractor().Extract(src, language.JavaScript)

	assert.Contains(t, inv.Functions, "checkout")
	assert.Contains(t, inv.Classes, "ShoppingCart")
}

func TestExtract_TestLikeNamesExcluded(t *testing.T) {
	tests := []struct {
		name string
		lang string
		src  string
	}{
		{
			name: "generic path",
			lang: language.Go,
			src: `
func TestServer(t *testing.T) {}
func specHelper() {}
func runSpec() {}
type TestSuite struct{}
func keepMe() {}
`,
		},
		{
			name: "precise path",
			lang: language.Python,
			src: `
def run_test_suite():
    pass

class SpecRunner:
    pass

def keepMe():
    pass
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := NewExtractor().Extract([]byte(tt.src), tt.lang)
			assert.Equal(t, []string{"keepMe"}, inv.Functions)
			assert.Empty(t, inv.Classes)
		})
	}
}

func TestExtract_SubstringMatchOverExcludes(t *testing.T) {
	// "latest" contains "test": the substring filter drops it. This is the
	// accepted imprecision of the heuristic, reproduced deliberately.
	src := []byte("func latestValue() int {\nreturn 0\n}\nfunc currentValue() int {\nreturn 1\n}\n")

	inv := NewExtractor().Extract(src, language.Go)

	assert.NotContains(t, inv.Functions, "latestValue")
	assert.Contains(t, inv.Functions, "currentValue")
}

func TestExtract_Deduplicates(t *testing.T) {
	// "render" matches both the JS function pattern and the C-style pattern.
	src := []byte("function render() {\n}\nfunction render() {\n}\n")

	inv := NewExtractor().Extract(src, language.JavaScript)

	count := 0
	for _, f := range inv.Functions {
		if f == "render" {
			count++
		}
	}
	assert.Equal(t, 1, count, "names must be deduplicated")
}

func TestExtract_EmptySource(t *testing.T) {
	inv := NewExtractor().Extract(nil, language.Unknown)
	assert.True(t, inv.Empty())

	inv = NewExtractor().Extract([]byte("# just a comment\n"), language.Python)
	assert.True(t, inv.Empty())
}

func TestSortedCopy(t *testing.T) {
	in := []string{"b", "a", "c"}
	got := SortedCopy(in)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, []string{"b", "a", "c"}, in, "input must not be mutated")
}
