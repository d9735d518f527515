// Package ingest orchestrates one repository's path from source to vector
// store: resolve source, select files, load documents, chunk, embed, upsert.
//
// The orchestrator is the error boundary of the whole pipeline: every stage
// failure is converted into a structured Result, nothing escapes as a fault,
// and an ephemeral clone workspace is deleted on every exit path.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/codebrainhq/codebrain/internal/chunker"
	"github.com/codebrainhq/codebrain/internal/expert"
	"github.com/codebrainhq/codebrain/internal/loader"
	"github.com/codebrainhq/codebrain/internal/selector"
	"github.com/codebrainhq/codebrain/internal/storage"
)

// Cloner fetches a remote repository into a local workspace.
type Cloner interface {
	Clone(ctx context.Context, url, targetDir string) error
	HeadCommit(ctx context.Context, workspaceDir string) (string, error)
}

// Embedder computes one vector per text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Sink is the slice of the vector store the pipeline writes through.
type Sink interface {
	EnsureCollection(ctx context.Context, collection string) error
	UpsertRecords(ctx context.Context, collection string, records []storage.Record) error
	DeleteByRepo(ctx context.Context, collection, repoURL string) (int, error)
	Count(ctx context.Context, collection string) (uint64, error)
}

// Pipeline sequences one ingestion run at a time. It is not safe for
// concurrent use; batch callers run requests sequentially.
type Pipeline struct {
	profiles map[string]expert.Profile
	cloner   Cloner
	loader   *loader.Loader
	chunker  *chunker.Chunker
	embedder Embedder
	sink     Sink
	logger   *slog.Logger
}

// NewPipeline assembles an ingestion pipeline. A nil cloner is allowed (git
// missing on the host); remote ingestion then fails with a tool-unavailable
// result while local-path ingestion keeps working.
func NewPipeline(
	profiles map[string]expert.Profile,
	cloner Cloner,
	docLoader *loader.Loader,
	docChunker *chunker.Chunker,
	embedder Embedder,
	sink Sink,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		profiles: profiles,
		cloner:   cloner,
		loader:   docLoader,
		chunker:  docChunker,
		embedder: embedder,
		sink:     sink,
		logger:   logger,
	}
}

// Run executes one ingestion. It never returns an error or panics: all
// failures, including panics below the store boundary, come back as a Result
// with Success=false and a named reason.
func (p *Pipeline) Run(ctx context.Context, req Request) (result Result) {
	result = Result{Domain: req.Domain, RepoURL: req.RepoURL}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("ingestion panicked", "domain", req.Domain, "panic", r)
			result.Success = false
			result.Error = fmt.Sprintf("internal error: %v", r)
		}
	}()

	profile, err := expert.Get(p.profiles, req.Domain)
	if err != nil {
		return p.fail(result, fmt.Errorf("%w %q", ErrUnknownDomain, req.Domain))
	}
	result.Collection = profile.Collection
	if req.Collection != "" {
		result.Collection = req.Collection
	}

	// RESOLVE_SOURCE: exactly one of repository URL and local path.
	if (req.RepoURL == "") == (req.SourcePath == "") {
		return p.fail(result, fmt.Errorf("%w: supply exactly one of repo URL or local path", ErrInvalidSource))
	}

	workspace := req.SourcePath
	if req.RepoURL != "" {
		if p.cloner == nil {
			return p.fail(result, ErrToolUnavailable)
		}

		tmpDir, err := os.MkdirTemp("", "codebrain-clone-*")
		if err != nil {
			return p.fail(result, fmt.Errorf("create workspace: %w", err))
		}
		// The ephemeral workspace must not outlive the call, whatever the
		// exit path. This defer runs on success, failure, and panic alike.
		defer func() {
			if err := os.RemoveAll(tmpDir); err != nil {
				p.logger.Warn("workspace cleanup failed", "dir", tmpDir, "error", err)
			}
		}()

		if err := p.cloner.Clone(ctx, req.RepoURL, tmpDir); err != nil {
			return p.fail(result, err)
		}
		workspace = tmpDir

		if hash, err := p.cloner.HeadCommit(ctx, tmpDir); err != nil {
			// Missing provenance degrades; ingestion proceeds without a hash.
			p.logger.Warn("commit hash unresolved, continuing", "repo", req.RepoURL, "error", err)
		} else {
			result.CommitHash = hash
		}
	} else {
		info, err := os.Stat(workspace)
		if err != nil || !info.IsDir() {
			return p.fail(result, fmt.Errorf("%w: %s is not an existing directory", ErrInvalidSource, workspace))
		}
	}

	// SELECT_FILES
	paths, err := selector.Select(workspace, profile.Extensions, profile.ExcludeDirs)
	if err != nil {
		return p.fail(result, fmt.Errorf("select files: %w", err))
	}
	if len(paths) == 0 {
		return p.fail(result, fmt.Errorf("%w matching extensions %v in %s", ErrNoFilesFound, profile.Extensions, workspace))
	}

	// LOAD_DOCS
	docs := p.loader.Load(workspace, paths, req.Domain, loader.Provenance{
		RepoURL:    req.RepoURL,
		CommitHash: result.CommitHash,
	})
	if len(docs) == 0 {
		return p.fail(result, ErrNoDocumentsLoaded)
	}
	result.FilesProcessed = len(docs)

	// CHUNK
	chunks := p.chunker.Split(docs)
	result.ChunksCreated = len(chunks)
	p.logger.Info("chunked workspace", "files", len(docs), "chunks", len(chunks))

	// STORE
	if err := p.store(ctx, result.Collection, req, chunks); err != nil {
		return p.fail(result, fmt.Errorf("store failure: %w", err))
	}
	result.VectorsStored = len(chunks)

	result.Success = true
	p.logger.Info("ingestion complete",
		"domain", req.Domain,
		"collection", result.Collection,
		"files", result.FilesProcessed,
		"chunks", result.ChunksCreated,
		"commit", result.CommitHash,
	)
	return result
}

// store embeds all chunks and upserts them into the collection.
func (p *Pipeline) store(ctx context.Context, collection string, req Request, chunks []chunker.Chunk) error {
	if err := p.sink.EnsureCollection(ctx, collection); err != nil {
		return err
	}

	if req.Purge && req.RepoURL != "" {
		removed, err := p.sink.DeleteByRepo(ctx, collection, req.RepoURL)
		if err != nil {
			return fmt.Errorf("purge previous records: %w", err)
		}
		p.logger.Info("purged previous records", "repo", req.RepoURL, "removed", removed)
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := p.embedder.Embed(ctx, texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	records := make([]storage.Record, len(chunks))
	for i, chunk := range chunks {
		records[i] = storage.Record{
			ID:         uuid.New().String(),
			Content:    chunk.Content,
			Vector:     vectors[i],
			ChunkIndex: chunk.Index,
			Meta:       chunk.Meta,
		}
	}

	if err := p.sink.UpsertRecords(ctx, collection, records); err != nil {
		return err
	}

	if total, err := p.sink.Count(ctx, collection); err == nil {
		p.logger.Info("collection updated", "collection", collection, "total_records", total)
	}
	return nil
}

func (p *Pipeline) fail(result Result, err error) Result {
	p.logger.Warn("ingestion failed", "domain", result.Domain, "error", err)
	result.Success = false
	result.Error = err.Error()
	return result
}
