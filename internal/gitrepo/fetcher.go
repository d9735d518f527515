// Package gitrepo fetches remote repositories by shelling out to git.
package gitrepo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// DefaultCloneTimeout bounds a single clone; a hung subprocess must not hang
// the orchestrator indefinitely.
const DefaultCloneTimeout = 5 * time.Minute

// Fetcher performs shallow clones and resolves commit identifiers.
type Fetcher struct {
	gitPath      string
	cloneTimeout time.Duration
	logger       *slog.Logger
}

// NewFetcher creates a Fetcher. It verifies up front that a git executable is
// available on PATH and returns ErrGitNotFound otherwise.
func NewFetcher(cloneTimeout time.Duration, logger *slog.Logger) (*Fetcher, error) {
	gitPath, err := exec.LookPath("git")
	if err != nil {
		return nil, ErrGitNotFound
	}
	if cloneTimeout <= 0 {
		cloneTimeout = DefaultCloneTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		gitPath:      gitPath,
		cloneTimeout: cloneTimeout,
		logger:       logger,
	}, nil
}

// Clone performs a shallow (depth 1) clone of url into targetDir.
// Returns ErrCloneTimeout if the subprocess exceeds the configured timeout,
// ErrCloneFailed (wrapping git's stderr) on any other failure.
func (f *Fetcher) Clone(ctx context.Context, url, targetDir string) error {
	ctx, cancel := context.WithTimeout(ctx, f.cloneTimeout)
	defer cancel()

	f.logger.Info("cloning repository", "url", url, "depth", 1)

	cmd := exec.CommandContext(ctx, f.gitPath, "clone", "--depth", "1", url, targetDir)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s: %s", ErrCloneTimeout, f.cloneTimeout, url)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("%w: %s", ErrCloneFailed, msg)
	}

	return nil
}

// HeadCommit resolves the checked-out commit hash of workspaceDir.
// Callers treat failure as a missing hash, not a fatal condition.
func (f *Fetcher) HeadCommit(ctx context.Context, workspaceDir string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, f.gitPath, "-C", workspaceDir, "rev-parse", "HEAD")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD in %s: %w", workspaceDir, err)
	}

	hash := strings.TrimSpace(string(out))
	if hash == "" {
		return "", fmt.Errorf("resolve HEAD in %s: empty output", workspaceDir)
	}
	return hash, nil
}
