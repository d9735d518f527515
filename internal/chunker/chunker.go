// Package chunker splits loaded documents into bounded, overlapping segments.
//
// Documents are grouped by file extension so a structure-aware boundary
// strategy can be applied per language family: tree-sitter locates top-level
// declaration starts for code, goldmark locates heading starts for markdown,
// and everything else falls back to fixed-size windows. Splitting is a pure
// function of (content, extension); unchanged input yields unchanged chunks.
package chunker

import (
	"log/slog"
	"sort"

	"github.com/codebrainhq/codebrain/internal/loader"
)

const (
	// DefaultMaxSize bounds every chunk's content length.
	DefaultMaxSize = 1500
	// DefaultOverlap is the exact back-overlap between consecutive chunks of
	// one document.
	DefaultOverlap = 200
)

// Chunk is a bounded substring of one document, inheriting its metadata and
// extending it with a position index.
type Chunk struct {
	Content string
	Index   int
	Meta    loader.Metadata
}

// Chunker splits documents with a maximum chunk size and fixed overlap.
type Chunker struct {
	maxSize int
	overlap int
	logger  *slog.Logger
}

// NewChunker creates a Chunker. Non-positive parameters fall back to the
// defaults; an overlap that leaves no room to advance is rejected the same way.
func NewChunker(maxSize, overlap int, logger *slog.Logger) *Chunker {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if overlap < 0 || overlap*2 >= maxSize {
		overlap = DefaultOverlap
		if overlap*2 >= maxSize {
			overlap = maxSize / 4
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Chunker{maxSize: maxSize, overlap: overlap, logger: logger}
}

// Split chunks all documents, grouped by extension. An empty input yields an
// empty output.
func (c *Chunker) Split(docs []loader.CodeDocument) []Chunk {
	byType := make(map[string][]loader.CodeDocument)
	var order []string
	for _, doc := range docs {
		if _, seen := byType[doc.Meta.FileType]; !seen {
			order = append(order, doc.Meta.FileType)
		}
		byType[doc.Meta.FileType] = append(byType[doc.Meta.FileType], doc)
	}
	sort.Strings(order)

	var chunks []Chunk
	for _, ext := range order {
		finder := finderFor(ext)
		group := byType[ext]
		before := len(chunks)
		for _, doc := range group {
			chunks = append(chunks, c.splitDocument(doc, finder)...)
		}
		c.logger.Debug("chunked group",
			"file_type", ext,
			"documents", len(group),
			"chunks", len(chunks)-before,
			"structure_aware", finder != nil,
		)
	}

	return chunks
}

// splitDocument cuts one document at boundary-preferring positions and emits
// windows of at most maxSize bytes with exactly overlap bytes of back-context.
func (c *Chunker) splitDocument(doc loader.CodeDocument, finder boundaryFinder) []Chunk {
	content := doc.Content
	if len(content) == 0 {
		return nil
	}
	if len(content) <= c.maxSize {
		return []Chunk{{Content: content, Index: 0, Meta: doc.Meta}}
	}

	var boundaries []int
	if finder != nil {
		boundaries = finder.Boundaries(content)
		sort.Ints(boundaries)
	}
	cuts := c.cutPoints(len(content), boundaries)

	chunks := make([]Chunk, 0, len(cuts)-1)
	for i := 0; i+1 < len(cuts); i++ {
		start := cuts[i]
		if i > 0 {
			start -= c.overlap
		}
		chunks = append(chunks, Chunk{
			Content: content[start:cuts[i+1]],
			Index:   i,
			Meta:    doc.Meta,
		})
	}
	return chunks
}

// cutPoints chooses the split positions 0 = c0 < c1 < ... < cn = length.
// Each advance is capped at maxSize-overlap so that a chunk plus its overlap
// never exceeds maxSize, and must exceed overlap so every chunk contributes
// new content. Within that window the furthest candidate boundary wins;
// without one the window is cut at its full width.
func (c *Chunker) cutPoints(length int, boundaries []int) []int {
	stride := c.maxSize - c.overlap

	cuts := []int{0}
	pos := 0
	for pos < length {
		if length-pos <= stride {
			cuts = append(cuts, length)
			break
		}

		next := pos + stride
		for _, b := range boundaries {
			if b > pos+c.overlap && b <= pos+stride && b > cuts[len(cuts)-1] {
				next = b
			}
			if b > pos+stride {
				break
			}
		}
		// A boundary exactly at the previous cut would stall the walk.
		if next <= pos {
			next = pos + stride
		}

		cuts = append(cuts, next)
		pos = next
	}
	return cuts
}
