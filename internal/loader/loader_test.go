package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MetadataSchema(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "pkg", "handler.go")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("package pkg\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(nil, false)
	docs := l.Load(root, []string{path}, "backend", Provenance{
		RepoURL:    "https://github.com/example/repo",
		CommitHash: "abc123",
	})

	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}

	meta := docs[0].Meta
	if meta.Source != path {
		t.Errorf("Source: got %q", meta.Source)
	}
	if meta.Filename != "handler.go" {
		t.Errorf("Filename: got %q", meta.Filename)
	}
	if meta.FileType != ".go" {
		t.Errorf("FileType: got %q", meta.FileType)
	}
	if meta.ExpertDomain != "backend" {
		t.Errorf("ExpertDomain: got %q", meta.ExpertDomain)
	}
	if meta.RelativePath != "pkg/handler.go" {
		t.Errorf("RelativePath: got %q", meta.RelativePath)
	}
	if meta.IngestionDate.IsZero() {
		t.Error("IngestionDate not set")
	}
	if meta.RepoURL != "https://github.com/example/repo" || meta.CommitHash != "abc123" {
		t.Errorf("provenance not carried: %+v", meta)
	}
}

func TestLoad_SkipsUnreadableFile(t *testing.T) {
	root := t.TempDir()
	good := filepath.Join(root, "good.py")
	if err := os.WriteFile(good, []byte("ok"), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(root, "deleted.py")

	l := NewLoader(nil, false)
	docs := l.Load(root, []string{missing, good}, "backend", Provenance{})

	if len(docs) != 1 {
		t.Fatalf("expected the unreadable file to be skipped, got %d docs", len(docs))
	}
	if docs[0].Meta.Filename != "good.py" {
		t.Errorf("wrong document survived: %q", docs[0].Meta.Filename)
	}
}

func TestLoad_InvalidUTF8Replaced(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "bin.py")
	if err := os.WriteFile(path, []byte{'o', 'k', 0xff, 0xfe, '!'}, 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(nil, false)
	docs := l.Load(root, []string{path}, "backend", Provenance{})

	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	content := docs[0].Content
	if !strings.Contains(content, "ok") || !strings.Contains(content, "!") {
		t.Errorf("valid bytes lost: %q", content)
	}
	if !strings.Contains(content, "�") {
		t.Errorf("invalid bytes should be replaced, got %q", content)
	}
}

func TestLoad_EmptyInput(t *testing.T) {
	l := NewLoader(nil, false)
	docs := l.Load(t.TempDir(), nil, "backend", Provenance{})
	if len(docs) != 0 {
		t.Errorf("expected no documents, got %d", len(docs))
	}
}
