package chunker

import (
	"strings"
	"testing"

	"github.com/codebrainhq/codebrain/internal/loader"
)

func doc(content, ext string) loader.CodeDocument {
	return loader.CodeDocument{
		Content: content,
		Meta:    loader.Metadata{FileType: ext, ExpertDomain: "backend", Filename: "f" + ext},
	}
}

// rejoin reconstructs a document from its chunks by dropping each chunk's
// back-overlap.
func rejoin(chunks []Chunk, overlap int) string {
	var b strings.Builder
	for i, c := range chunks {
		if i == 0 {
			b.WriteString(c.Content)
			continue
		}
		b.WriteString(c.Content[overlap:])
	}
	return b.String()
}

func TestSplit_BoundsOverlapAndReconstruction(t *testing.T) {
	content := strings.Repeat("x", 3000)
	c := NewChunker(DefaultMaxSize, DefaultOverlap, nil)

	chunks := c.Split([]loader.CodeDocument{doc(content, ".txt")})

	if len(chunks) < 2 {
		t.Fatalf("3000 chars must produce at least 2 chunks, got %d", len(chunks))
	}

	for i, chunk := range chunks {
		if len(chunk.Content) > DefaultMaxSize {
			t.Errorf("chunk %d exceeds max size: %d", i, len(chunk.Content))
		}
		if chunk.Index != i {
			t.Errorf("chunk %d has index %d", i, chunk.Index)
		}
	}

	// Consecutive chunks share exactly the configured overlap.
	for i := 0; i+1 < len(chunks); i++ {
		tail := chunks[i].Content[len(chunks[i].Content)-DefaultOverlap:]
		head := chunks[i+1].Content[:DefaultOverlap]
		if tail != head {
			t.Errorf("chunks %d/%d do not overlap by %d chars", i, i+1, DefaultOverlap)
		}
	}

	if rejoin(chunks, DefaultOverlap) != content {
		t.Error("overlap-removed concatenation does not reconstruct the document")
	}
}

func TestSplit_ShortDocumentSingleChunk(t *testing.T) {
	c := NewChunker(DefaultMaxSize, DefaultOverlap, nil)
	chunks := c.Split([]loader.CodeDocument{doc("short content", ".py")})

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != "short content" {
		t.Errorf("content altered: %q", chunks[0].Content)
	}
	if chunks[0].Meta.ExpertDomain != "backend" {
		t.Error("metadata not inherited")
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	c := NewChunker(DefaultMaxSize, DefaultOverlap, nil)
	if chunks := c.Split(nil); len(chunks) != 0 {
		t.Errorf("expected no chunks, got %d", len(chunks))
	}
	if chunks := c.Split([]loader.CodeDocument{doc("", ".py")}); len(chunks) != 0 {
		t.Errorf("empty document should yield no chunks, got %d", len(chunks))
	}
}

func TestSplit_Deterministic(t *testing.T) {
	content := strings.Repeat("def f():\n    pass\n\n", 300)
	c := NewChunker(DefaultMaxSize, DefaultOverlap, nil)
	docs := []loader.CodeDocument{doc(content, ".py")}

	first := c.Split(docs)
	second := c.Split(docs)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Content != second[i].Content {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSplit_MarkdownCutsAtHeading(t *testing.T) {
	content := strings.Repeat("a", 50) + "\n## Head\n" + strings.Repeat("b", 100)
	c := NewChunker(100, 20, nil)

	chunks := c.Split([]loader.CodeDocument{doc(content, ".md")})

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	// The first cut should land at the heading, not mid-window.
	if !strings.HasPrefix(chunks[1].Content[20:], "## Head") {
		t.Errorf("second chunk should start at heading after overlap, got %q", chunks[1].Content[20:30])
	}
	if rejoin(chunks, 20) != content {
		t.Error("reconstruction failed for markdown strategy")
	}
}

func TestSplit_CodeInvariantsHold(t *testing.T) {
	var b strings.Builder
	b.WriteString("package main\n\n")
	for i := 0; i < 120; i++ {
		b.WriteString("func handler() error {\n\treturn nil\n}\n\n")
	}
	content := b.String()

	c := NewChunker(DefaultMaxSize, DefaultOverlap, nil)
	chunks := c.Split([]loader.CodeDocument{doc(content, ".go")})

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk.Content) > DefaultMaxSize {
			t.Errorf("chunk %d exceeds max size: %d", i, len(chunk.Content))
		}
	}
	if rejoin(chunks, DefaultOverlap) != content {
		t.Error("reconstruction failed for go strategy")
	}
}

func TestSplit_UnknownExtensionFallsBackToGeneric(t *testing.T) {
	content := strings.Repeat("z", 4000)
	c := NewChunker(DefaultMaxSize, DefaultOverlap, nil)

	chunks := c.Split([]loader.CodeDocument{doc(content, ".xyz")})

	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks for 4000 chars, got %d", len(chunks))
	}
	if rejoin(chunks, DefaultOverlap) != content {
		t.Error("reconstruction failed for generic strategy")
	}
}

func TestSplit_MixedGroupsKeepPerDocumentIndexes(t *testing.T) {
	c := NewChunker(DefaultMaxSize, DefaultOverlap, nil)
	chunks := c.Split([]loader.CodeDocument{
		doc(strings.Repeat("p", 2000), ".py"),
		doc("tiny", ".md"),
		doc(strings.Repeat("q", 2000), ".py"),
	})

	// Indexes restart for every document.
	zero := 0
	for _, chunk := range chunks {
		if chunk.Index == 0 {
			zero++
		}
	}
	if zero != 3 {
		t.Errorf("expected 3 documents' chunk sequences, found %d index-0 chunks", zero)
	}
}
