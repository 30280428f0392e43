package analysis

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// extractPython parses source with the Tree-sitter Python grammar and
// collects class and function definition names. Returns ok=false when the
// parse fails or the tree contains syntax errors, signalling the caller to
// fall back to the generic path.
func (e *Extractor) extractPython(source []byte) (Inventory, bool) {
	tree, err := e.python.ParseCtx(context.Background(), nil, source)
	if err != nil || tree == nil {
		return Inventory{}, false
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.HasError() {
		// Malformed source: structural analysis degrades to regex heuristics.
		return Inventory{}, false
	}

	var functions, classes []string
	walkPython(root, source, &functions, &classes)

	return Inventory{
		Functions: dedupe(functions),
		Classes:   dedupe(classes),
	}, true
}

// walkPython visits every named node, mirroring a full AST walk: methods and
// nested functions count as functions. Function names with a leading
// underscore (conventionally private) or a test_ prefix (existing tests) are
// skipped; class names are all collected. Decorated definitions need no
// special casing because the wrapped definition is a named child.
func walkPython(node *sitter.Node, source []byte, functions, classes *[]string) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)

		switch child.Type() {
		case "class_definition":
			if name := fieldText(child, "name", source); name != "" {
				*classes = append(*classes, name)
			}
		case "function_definition":
			name := fieldText(child, "name", source)
			if name != "" && name[0] != '_' && !strings.HasPrefix(name, "test_") {
				*functions = append(*functions, name)
			}
		}

		walkPython(child, source, functions, classes)
	}
}

func fieldText(node *sitter.Node, field string, source []byte) string {
	n := node.ChildByFieldName(field)
	if n == nil {
		return ""
	}
	return string(source[n.StartByte():n.EndByte()])
}
