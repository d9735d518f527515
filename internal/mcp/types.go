// Package mcp exposes the ingested brains over the Model Context Protocol.
package mcp

import "time"

// SearchBrainInput defines the input parameters for the search_brain tool.
type SearchBrainInput struct {
	// Query is the semantic search query.
	Query string `json:"query" jsonschema:"required,description=The semantic search query for finding relevant code and documentation"`
	// Domain selects which expert brain to search.
	Domain string `json:"domain" jsonschema:"required,description=Expert domain to search: frontend backend or fullstack"`
	// MaxResults is the maximum number of chunks to return.
	MaxResults int `json:"max_results,omitempty" jsonschema:"minimum=1,maximum=20,default=5,description=Maximum number of chunks to return"`
	// MinScore is the minimum similarity threshold (0-1).
	MinScore float64 `json:"min_score,omitempty" jsonschema:"minimum=0,maximum=1,default=0.4,description=Minimum similarity score threshold (0-1)"`
}

// SearchBrainOutput contains the search results.
type SearchBrainOutput struct {
	// Results is the list of matching chunks.
	Results []BrainHit `json:"results"`
	// Message provides informational context (e.g., "No matching chunks found").
	Message string `json:"message,omitempty"`
}

// BrainHit is a single chunk match from semantic search.
type BrainHit struct {
	// Content is the chunk text.
	Content string `json:"content"`
	// Path is the file path relative to its repository root.
	Path string `json:"path"`
	// RepoURL is the source repository, empty for local-path ingestions.
	RepoURL string `json:"repo_url,omitempty"`
	// FileType is the file extension (e.g., ".go").
	FileType string `json:"file_type"`
	// Score is the similarity score (0-1).
	Score float64 `json:"score"`
}

// ListReposInput defines the input parameters for the list_repos tool.
type ListReposInput struct {
	// Domain selects which expert brain to list.
	Domain string `json:"domain" jsonschema:"required,description=Expert domain to list: frontend backend or fullstack"`
}

// ListReposOutput contains the ingested repositories of one brain.
type ListReposOutput struct {
	// Repos is the distinct ingested repositories with their provenance.
	Repos []RepoEntry `json:"repos"`
	// Count is the number of distinct repositories.
	Count int `json:"count"`
}

// RepoEntry is one ingested repository's provenance snapshot.
type RepoEntry struct {
	RepoURL       string    `json:"repo_url"`
	CommitHash    string    `json:"commit_hash,omitempty"`
	IngestionDate time.Time `json:"ingestion_date"`
}

// BrainStatusInput defines the input parameters for the brain_status tool.
type BrainStatusInput struct {
	// Domain selects which expert brain to report on.
	Domain string `json:"domain" jsonschema:"required,description=Expert domain to report on: frontend backend or fullstack"`
}

// BrainStatusOutput summarizes one brain's collection.
type BrainStatusOutput struct {
	// Collection is the Qdrant collection name.
	Collection string `json:"collection"`
	// Location is the vector store address.
	Location string `json:"location"`
	// TotalRecords is the number of stored chunks.
	TotalRecords uint64 `json:"total_records"`
	// RepoCount is the number of distinct ingested repositories.
	RepoCount int `json:"repo_count"`
	// RepoURLs lists the ingested repository URLs.
	RepoURLs []string `json:"repo_urls"`
}

// CheckRepoInput defines the input parameters for the check_repo tool.
type CheckRepoInput struct {
	// RepoURL is the repository to check.
	RepoURL string `json:"repo_url" jsonschema:"required,description=The repository URL to check (e.g. https://github.com/owner/repo)"`
	// Domain selects which expert brain the repository was ingested into.
	Domain string `json:"domain" jsonschema:"required,description=Expert domain the repository belongs to: frontend backend or fullstack"`
}

// CheckRepoOutput reports whether an ingested repository is behind its remote.
type CheckRepoOutput struct {
	// Found indicates whether the repository has any stored records.
	Found bool `json:"found"`
	// StoredCommit is the commit hash recorded at ingestion time.
	StoredCommit string `json:"stored_commit,omitempty"`
	// RemoteCommit is the current remote HEAD, empty when it could not be resolved.
	RemoteCommit string `json:"remote_commit,omitempty"`
	// Stale indicates the stored records no longer match the remote HEAD.
	Stale bool `json:"stale"`
	// Message provides context (e.g., why staleness could not be determined).
	Message string `json:"message,omitempty"`
}
