package expert

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults_ThreeDomains(t *testing.T) {
	profiles := Defaults()

	for _, domain := range []string{"frontend", "backend", "fullstack"} {
		p, ok := profiles[domain]
		if !ok {
			t.Fatalf("missing built-in profile %q", domain)
		}
		if p.Collection != domain+"_brain" {
			t.Errorf("%s collection: expected %q, got %q", domain, domain+"_brain", p.Collection)
		}
		if len(p.Extensions) == 0 {
			t.Errorf("%s has no extensions", domain)
		}
		if len(p.ExcludeDirs) == 0 {
			t.Errorf("%s has no excludes", domain)
		}
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	profiles, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(profiles) != 3 {
		t.Errorf("expected 3 profiles, got %d", len(profiles))
	}
}

func TestLoad_OverrideProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	content := `profiles:
  - domain: backend
    extensions: [".go"]
    seed_repos: ["https://github.com/example/repo"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	profiles, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	p := profiles["backend"]
	if len(p.Extensions) != 1 || p.Extensions[0] != ".go" {
		t.Errorf("override extensions not applied: %v", p.Extensions)
	}
	// Omitted fields fall back to defaults.
	if p.Collection != "backend_brain" {
		t.Errorf("expected default collection, got %q", p.Collection)
	}
	if len(p.ExcludeDirs) == 0 {
		t.Error("expected default excludes to be applied")
	}
}

func TestGet_UnknownDomain(t *testing.T) {
	_, err := Get(Defaults(), "mobile")
	if err == nil {
		t.Fatal("expected error for unknown domain")
	}
}
