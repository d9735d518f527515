// Package maintain provides advisory operations over ingested collections:
// lookup, staleness checks, listing, removal, and statistics.
//
// Nothing here sits on the ingestion critical path, so every operation
// degrades to an empty, false, or zero result with a logged error instead of
// failing the caller.
package maintain

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/codebrainhq/codebrain/internal/storage"
)

// MetaStore is the read-and-delete slice of the vector store this service uses.
type MetaStore interface {
	FirstByRepo(ctx context.Context, collection, repoURL string) (*storage.RecordMeta, error)
	ScrollMeta(ctx context.Context, collection string) ([]storage.RecordMeta, error)
	DeleteByRepo(ctx context.Context, collection, repoURL string) (int, error)
	Count(ctx context.Context, collection string) (uint64, error)
	Location() string
}

// RepoInfo is one ingested repository's provenance snapshot.
type RepoInfo struct {
	RepoURL       string    `json:"repo_url"`
	CommitHash    string    `json:"commit_hash,omitempty"`
	ExpertDomain  string    `json:"expert_domain,omitempty"`
	IngestionDate time.Time `json:"ingestion_date"`
}

// Stats summarizes one collection.
type Stats struct {
	Collection   string   `json:"collection"`
	Location     string   `json:"location"`
	TotalRecords uint64   `json:"total_records"`
	RepoCount    int      `json:"repo_count"`
	RepoURLs     []string `json:"repo_urls"`
}

// Service answers maintenance queries against one store.
type Service struct {
	store  MetaStore
	logger *slog.Logger
}

// NewService creates a maintenance service.
func NewService(store MetaStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// Lookup returns the stored provenance for a repository URL, or found=false
// when the repository has no records (or the store is unreachable).
func (s *Service) Lookup(ctx context.Context, collection, repoURL string) (RepoInfo, bool) {
	meta, err := s.store.FirstByRepo(ctx, collection, repoURL)
	if err != nil {
		if !errors.Is(err, storage.ErrRepoNotFound) {
			s.logger.Error("repository lookup failed", "collection", collection, "repo", repoURL, "error", err)
		}
		return RepoInfo{}, false
	}
	return RepoInfo{
		RepoURL:       repoURL,
		CommitHash:    meta.CommitHash,
		ExpertDomain:  meta.ExpertDomain,
		IngestionDate: meta.IngestionDate,
	}, true
}

// IsStale reports whether a repository needs (re-)ingestion given a freshly
// resolved commit hash. No prior record, a missing stored hash, and a lookup
// failure all count as stale: when provenance is uncertain, re-ingest.
func (s *Service) IsStale(ctx context.Context, collection, repoURL, freshHash string) bool {
	info, found := s.Lookup(ctx, collection, repoURL)
	if !found {
		return true
	}
	if info.CommitHash == "" {
		return true
	}
	return info.CommitHash != freshHash
}

// ListRepositories reduces the collection to its distinct repository URLs,
// one representative snapshot each. When records for the same URL diverge
// (interrupted or repeated re-ingestion), the one with the most recent
// ingestion_date wins; ties keep the first encountered. Records without a
// repo_url (local-path ingestions) are not listed.
func (s *Service) ListRepositories(ctx context.Context, collection string) []RepoInfo {
	metas, err := s.store.ScrollMeta(ctx, collection)
	if err != nil {
		s.logger.Error("repository listing failed", "collection", collection, "error", err)
		return nil
	}

	byURL := make(map[string]RepoInfo)
	for _, meta := range metas {
		if meta.RepoURL == "" {
			continue
		}
		candidate := RepoInfo{
			RepoURL:       meta.RepoURL,
			CommitHash:    meta.CommitHash,
			ExpertDomain:  meta.ExpertDomain,
			IngestionDate: meta.IngestionDate,
		}
		existing, seen := byURL[meta.RepoURL]
		if !seen || candidate.IngestionDate.After(existing.IngestionDate) {
			byURL[meta.RepoURL] = candidate
		}
	}

	repos := make([]RepoInfo, 0, len(byURL))
	for _, info := range byURL {
		repos = append(repos, info)
	}
	sort.Slice(repos, func(i, j int) bool { return repos[i].RepoURL < repos[j].RepoURL })
	return repos
}

// RemoveRepository deletes all records whose repo_url matches exactly.
// Returns the removed count and whether anything was removed.
func (s *Service) RemoveRepository(ctx context.Context, collection, repoURL string) (int, bool) {
	removed, err := s.store.DeleteByRepo(ctx, collection, repoURL)
	if err != nil {
		s.logger.Error("repository removal failed", "collection", collection, "repo", repoURL, "error", err)
		return 0, false
	}
	if removed == 0 {
		return 0, false
	}
	s.logger.Info("removed repository records", "collection", collection, "repo", repoURL, "removed", removed)
	return removed, true
}

// CollectionStats reports the collection's totals and its repository set.
func (s *Service) CollectionStats(ctx context.Context, collection string) Stats {
	stats := Stats{
		Collection: collection,
		Location:   s.store.Location(),
	}

	total, err := s.store.Count(ctx, collection)
	if err != nil {
		s.logger.Error("collection count failed", "collection", collection, "error", err)
		return stats
	}
	stats.TotalRecords = total

	repos := s.ListRepositories(ctx, collection)
	stats.RepoCount = len(repos)
	stats.RepoURLs = make([]string, 0, len(repos))
	for _, repo := range repos {
		stats.RepoURLs = append(stats.RepoURLs, repo.RepoURL)
	}

	return stats
}
