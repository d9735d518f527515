package chunker

// boundaryFinder reports preferred split positions within a document, as
// ascending byte offsets. Positions mark the start of a syntactic unit
// (declaration, heading) so cuts land between units instead of inside them.
type boundaryFinder interface {
	Boundaries(content string) []int
}

// finderFor returns the structure-aware finder for an extension, or nil when
// only the generic window splitter applies.
func finderFor(ext string) boundaryFinder {
	switch ext {
	case ".go":
		return goFinder
	case ".py":
		return pythonFinder
	case ".js", ".jsx":
		return javascriptFinder
	case ".ts":
		return typescriptFinder
	case ".tsx":
		return tsxFinder
	case ".md":
		return markdownFinder
	default:
		return nil
	}
}
