package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Qdrant.Host != "localhost" || cfg.Qdrant.Port != 6334 {
		t.Errorf("unexpected qdrant defaults: %+v", cfg.Qdrant)
	}
	if cfg.Chunker.MaxSize != 1500 || cfg.Chunker.Overlap != 200 {
		t.Errorf("unexpected chunker defaults: %+v", cfg.Chunker)
	}
	if cfg.Embedding.Dimension != 1536 {
		t.Errorf("unexpected embedding dimension: %d", cfg.Embedding.Dimension)
	}
}

func TestLoad_PartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `qdrant:
  host: qdrant.internal
chunker:
  max_size: 800
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Qdrant.Host != "qdrant.internal" {
		t.Errorf("host: got %q", cfg.Qdrant.Host)
	}
	if cfg.Qdrant.Port != 6334 {
		t.Errorf("port should default: got %d", cfg.Qdrant.Port)
	}
	if cfg.Chunker.MaxSize != 800 {
		t.Errorf("max_size: got %d", cfg.Chunker.MaxSize)
	}
	if cfg.Chunker.Overlap != 200 {
		t.Errorf("overlap should default: got %d", cfg.Chunker.Overlap)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("QDRANT_HOST", "env-host")
	t.Setenv("QDRANT_PORT", "7000")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Qdrant.Host != "env-host" {
		t.Errorf("env host not applied: %q", cfg.Qdrant.Host)
	}
	if cfg.Qdrant.Port != 7000 {
		t.Errorf("env port not applied: %d", cfg.Qdrant.Port)
	}
}
