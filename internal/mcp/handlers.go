package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codebrainhq/codebrain/internal/expert"
)

// collectionResolver maps a domain name to its brain collection.
type collectionResolver func(domain string) (string, error)

// newCollectionResolver honors per-profile collection overrides, falling back
// to the default naming, so the MCP tools and the CLI resolve identically.
func newCollectionResolver(profiles map[string]expert.Profile) collectionResolver {
	return func(domain string) (string, error) {
		if domain == "" {
			return "", fmt.Errorf("domain is required")
		}
		if p, ok := profiles[domain]; ok && p.Collection != "" {
			return p.Collection, nil
		}
		return expert.CollectionName(domain), nil
	}
}

// makeSearchHandler creates the search_brain tool handler.
// Search flow:
// 1. Embed the query text
// 2. Vector-search the domain's collection
// 3. Drop hits below the score threshold
func makeSearchHandler(resolve collectionResolver, store VectorSearcher, embedder QueryEmbedder) func(
	context.Context, *mcp.CallToolRequest, SearchBrainInput,
) (*mcp.CallToolResult, SearchBrainOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchBrainInput) (
		*mcp.CallToolResult, SearchBrainOutput, error,
	) {
		collection, err := resolve(input.Domain)
		if err != nil {
			return nil, SearchBrainOutput{}, err
		}

		maxResults := input.MaxResults
		if maxResults <= 0 {
			maxResults = 5
		}
		minScore := input.MinScore
		if minScore <= 0 {
			minScore = 0.4
		}

		vectors, err := embedder.Embed(ctx, []string{input.Query})
		if err != nil {
			return nil, SearchBrainOutput{}, fmt.Errorf("failed to embed query: %w", err)
		}

		hits, err := store.Search(ctx, collection, vectors[0], maxResults)
		if err != nil {
			return nil, SearchBrainOutput{}, fmt.Errorf("search failed: %w", err)
		}

		results := make([]BrainHit, 0, len(hits))
		for _, hit := range hits {
			if hit.Score < minScore {
				continue
			}
			results = append(results, BrainHit{
				Content:  hit.Content,
				Path:     hit.RelativePath,
				RepoURL:  hit.RepoURL,
				FileType: hit.FileType,
				Score:    hit.Score,
			})
		}

		if len(results) == 0 {
			return nil, SearchBrainOutput{
				Results: []BrainHit{},
				Message: "No matching chunks found. Try broader search terms or a different domain.",
			}, nil
		}

		return nil, SearchBrainOutput{Results: results}, nil
	}
}

// makeListHandler creates the list_repos tool handler.
func makeListHandler(resolve collectionResolver, maintainer Maintainer) func(
	context.Context, *mcp.CallToolRequest, ListReposInput,
) (*mcp.CallToolResult, ListReposOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListReposInput) (
		*mcp.CallToolResult, ListReposOutput, error,
	) {
		collection, err := resolve(input.Domain)
		if err != nil {
			return nil, ListReposOutput{}, err
		}

		infos := maintainer.ListRepositories(ctx, collection)

		repos := make([]RepoEntry, 0, len(infos))
		for _, info := range infos {
			repos = append(repos, RepoEntry{
				RepoURL:       info.RepoURL,
				CommitHash:    info.CommitHash,
				IngestionDate: info.IngestionDate,
			})
		}

		return nil, ListReposOutput{
			Repos: repos,
			Count: len(repos),
		}, nil
	}
}

// makeStatusHandler creates the brain_status tool handler.
func makeStatusHandler(resolve collectionResolver, maintainer Maintainer) func(
	context.Context, *mcp.CallToolRequest, BrainStatusInput,
) (*mcp.CallToolResult, BrainStatusOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input BrainStatusInput) (
		*mcp.CallToolResult, BrainStatusOutput, error,
	) {
		collection, err := resolve(input.Domain)
		if err != nil {
			return nil, BrainStatusOutput{}, err
		}

		stats := maintainer.CollectionStats(ctx, collection)

		urls := stats.RepoURLs
		if urls == nil {
			urls = []string{}
		}

		return nil, BrainStatusOutput{
			Collection:   stats.Collection,
			Location:     stats.Location,
			TotalRecords: stats.TotalRecords,
			RepoCount:    stats.RepoCount,
			RepoURLs:     urls,
		}, nil
	}
}

// makeCheckHandler creates the check_repo tool handler.
// Staleness is judged conservatively: an unknown repository is reported as
// stale, and a remote that cannot be resolved leaves the stored records
// presumed current with an explanatory message.
func makeCheckHandler(resolve collectionResolver, maintainer Maintainer, remote RemoteResolver) func(
	context.Context, *mcp.CallToolRequest, CheckRepoInput,
) (*mcp.CallToolResult, CheckRepoOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CheckRepoInput) (
		*mcp.CallToolResult, CheckRepoOutput, error,
	) {
		collection, err := resolve(input.Domain)
		if err != nil {
			return nil, CheckRepoOutput{}, err
		}
		if input.RepoURL == "" {
			return nil, CheckRepoOutput{}, fmt.Errorf("repo_url is required")
		}

		info, found := maintainer.Lookup(ctx, collection, input.RepoURL)
		if !found {
			return nil, CheckRepoOutput{
				Found:   false,
				Stale:   true,
				Message: "Repository has not been ingested into this brain.",
			}, nil
		}

		out := CheckRepoOutput{
			Found:        true,
			StoredCommit: info.CommitHash,
		}

		if remote == nil {
			out.Message = "Remote resolution unavailable; staleness not determined."
			return nil, out, nil
		}

		remoteCommit, err := remote.RemoteHeadCommit(ctx, input.RepoURL)
		if err != nil {
			out.Message = fmt.Sprintf("Could not resolve remote HEAD: %v", err)
			return nil, out, nil
		}
		out.RemoteCommit = remoteCommit

		switch {
		case info.CommitHash == "":
			out.Stale = true
			out.Message = "No commit hash was recorded at ingestion time."
		case info.CommitHash != remoteCommit:
			out.Stale = true
			out.Message = "Stored records are behind the remote HEAD. Consider re-ingesting."
		}

		return nil, out, nil
	}
}
