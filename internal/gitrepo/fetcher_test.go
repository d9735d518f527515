package gitrepo

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

// initTestRepo creates a git repository with one commit and returns its path.
func initTestRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}

	run("init")
	if err := os.WriteFile(filepath.Join(dir, "main.py"), []byte("print('hi')\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	run("add", ".")
	run("commit", "-m", "initial")

	return dir
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available, skipping")
	}
}

func TestClone_LocalRepo(t *testing.T) {
	requireGit(t)

	src := initTestRepo(t)
	f, err := NewFetcher(0, nil)
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}

	target := filepath.Join(t.TempDir(), "clone")
	if err := f.Clone(context.Background(), src, target); err != nil {
		t.Fatalf("Clone failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(target, "main.py")); err != nil {
		t.Errorf("cloned file missing: %v", err)
	}
}

func TestClone_InvalidURL(t *testing.T) {
	requireGit(t)

	f, err := NewFetcher(0, nil)
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}

	target := filepath.Join(t.TempDir(), "clone")
	err = f.Clone(context.Background(), filepath.Join(t.TempDir(), "no-such-repo"), target)
	if !errors.Is(err, ErrCloneFailed) {
		t.Errorf("expected ErrCloneFailed, got %v", err)
	}
}

func TestClone_Timeout(t *testing.T) {
	// A stand-in git that hangs; the fetcher must kill it at the deadline.
	// exec keeps the sleep in the same process so the kill lands on it.
	binDir := t.TempDir()
	script := filepath.Join(binDir, "git")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nexec /bin/sleep 10\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", binDir)

	f, err := NewFetcher(100*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}

	target := filepath.Join(t.TempDir(), "clone")
	err = f.Clone(context.Background(), "https://github.com/x/y", target)
	if !errors.Is(err, ErrCloneTimeout) {
		t.Errorf("expected ErrCloneTimeout, got %v", err)
	}
}

func TestHeadCommit(t *testing.T) {
	requireGit(t)

	src := initTestRepo(t)
	f, err := NewFetcher(0, nil)
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}

	hash, err := f.HeadCommit(context.Background(), src)
	if err != nil {
		t.Fatalf("HeadCommit failed: %v", err)
	}
	if len(hash) != 40 {
		t.Errorf("expected 40-char commit hash, got %q", hash)
	}
}

func TestHeadCommit_NotARepo(t *testing.T) {
	requireGit(t)

	f, err := NewFetcher(0, nil)
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}

	if _, err := f.HeadCommit(context.Background(), t.TempDir()); err == nil {
		t.Error("expected error for non-repository directory")
	}
}
