package chunker

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// codeFinder locates top-level declaration starts using a tree-sitter grammar.
// Function and class starts are the cut positions code chunks prefer.
type codeFinder struct {
	language *sitter.Language
}

var (
	goFinder         = &codeFinder{language: golang.GetLanguage()}
	pythonFinder     = &codeFinder{language: python.GetLanguage()}
	javascriptFinder = &codeFinder{language: javascript.GetLanguage()}
	typescriptFinder = &codeFinder{language: typescript.GetLanguage()}
	tsxFinder        = &codeFinder{language: tsx.GetLanguage()}
)

// Boundaries parses content and returns the start offset of every top-level
// named node. Tree-sitter produces a tree even for malformed input, so a file
// that fails to parse cleanly still yields usable boundaries; a hard parse
// failure degrades to no boundaries and the generic window splitter takes over.
func (f *codeFinder) Boundaries(content string) []int {
	parser := sitter.NewParser()
	parser.SetLanguage(f.language)

	tree, err := parser.ParseCtx(context.Background(), nil, []byte(content))
	if err != nil || tree == nil {
		return nil
	}
	defer tree.Close()

	root := tree.RootNode()
	count := int(root.NamedChildCount())

	offsets := make([]int, 0, count)
	for i := 0; i < count; i++ {
		start := int(root.NamedChild(i).StartByte())
		if start > 0 && start < len(content) {
			offsets = append(offsets, start)
		}
	}
	return offsets
}
