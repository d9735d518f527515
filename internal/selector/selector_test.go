package selector

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTree creates the given files (relative path -> content) under a temp root.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestSelect_ExtensionFilter(t *testing.T) {
	root := writeTree(t, map[string]string{
		"app.py":    "print()",
		"readme.md": "# hi",
		"notes.txt": "notes",
	})

	paths, err := Select(root, []string{".py"}, nil)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	if len(paths) != 1 {
		t.Fatalf("expected 1 path, got %d: %v", len(paths), paths)
	}
	if filepath.Base(paths[0]) != "app.py" {
		t.Errorf("unexpected selection: %v", paths)
	}
}

func TestSelect_ExcludeSubstringWinsOverExtension(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/app.py":               "a",
		"node_modules/pkg/mod.py":  "b",
		"deep/node_modules/gen.py": "c",
	})

	paths, err := Select(root, []string{".py"}, []string{"node_modules"})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	if len(paths) != 1 {
		t.Fatalf("expected 1 path, got %d: %v", len(paths), paths)
	}
	for _, p := range paths {
		if strings.Contains(p, "node_modules") {
			t.Errorf("excluded path returned: %s", p)
		}
	}
}

func TestSelect_CaseInsensitiveExtension(t *testing.T) {
	root := writeTree(t, map[string]string{"Main.PY": "x"})

	paths, err := Select(root, []string{".py"}, nil)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(paths) != 1 {
		t.Errorf("expected uppercase extension to match, got %v", paths)
	}
}

func TestSelect_EmptyResultIsNotAnError(t *testing.T) {
	root := writeTree(t, map[string]string{"readme.md": "# hi"})

	paths, err := Select(root, []string{".py"}, nil)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("expected no matches, got %v", paths)
	}
}

func TestSelect_SkipsDirectoriesThemselves(t *testing.T) {
	root := writeTree(t, map[string]string{"dir.py/inner.py": "x"})

	paths, err := Select(root, []string{".py"}, nil)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	// Only the regular file should be returned, not the .py-named directory.
	if len(paths) != 1 || filepath.Base(paths[0]) != "inner.py" {
		t.Errorf("unexpected selection: %v", paths)
	}
}
