package chunker

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// mdFinder locates section starts in markdown using the goldmark AST.
// H1 and H2 headings are the boundaries; deeper levels stay inside a chunk.
type mdFinder struct {
	parser goldmark.Markdown
}

var markdownFinder = &mdFinder{
	parser: goldmark.New(
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	),
}

// Boundaries returns the offset of the line start of every H1/H2 heading.
func (f *mdFinder) Boundaries(content string) []int {
	source := []byte(content)
	reader := text.NewReader(source)
	doc := f.parser.Parser().Parse(reader)

	var offsets []int
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != ast.KindHeading {
			return ast.WalkContinue, nil
		}
		heading := n.(*ast.Heading)
		if heading.Level > 2 || heading.Lines().Len() == 0 {
			return ast.WalkContinue, nil
		}
		// The line segment starts after the "#" markers; back up to the
		// beginning of the line so a cut keeps the markers with the heading.
		offset := lineStart(source, heading.Lines().At(0).Start)
		if offset > 0 {
			offsets = append(offsets, offset)
		}
		return ast.WalkContinue, nil
	})

	return offsets
}

func lineStart(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	for offset > 0 && source[offset-1] != '\n' {
		offset--
	}
	return offset
}
