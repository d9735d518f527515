package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codebrainhq/codebrain/internal/expert"
	"github.com/codebrainhq/codebrain/internal/maintain"
	"github.com/codebrainhq/codebrain/internal/storage"
)

// VectorSearcher is the similarity-search slice of the vector store.
type VectorSearcher interface {
	Search(ctx context.Context, collection string, vector []float32, limit int) ([]storage.ScoredRecord, error)
}

// QueryEmbedder turns query text into vectors.
type QueryEmbedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Maintainer answers provenance and staleness queries about a brain.
type Maintainer interface {
	Lookup(ctx context.Context, collection, repoURL string) (maintain.RepoInfo, bool)
	ListRepositories(ctx context.Context, collection string) []maintain.RepoInfo
	CollectionStats(ctx context.Context, collection string) maintain.Stats
}

// RemoteResolver resolves a repository's current remote HEAD commit.
// The check_repo tool degrades gracefully when this is nil.
type RemoteResolver interface {
	RemoteHeadCommit(ctx context.Context, repoURL string) (string, error)
}

// Server wraps the MCP server with dependencies.
type Server struct {
	server *mcp.Server
}

// Config holds server dependencies.
type Config struct {
	Store    VectorSearcher
	Embedder QueryEmbedder
	Maintain Maintainer
	Remote   RemoteResolver
	// Profiles carries the loaded domain profiles so collection overrides
	// resolve the same way they do for ingestion. Nil means default naming.
	Profiles map[string]expert.Profile
}

// NewServer creates a configured MCP server with tools registered.
func NewServer(cfg *Config) *Server {
	impl := &mcp.Implementation{
		Name:    "codebrain-server",
		Version: "v0.1.0",
	}

	server := mcp.NewServer(impl, nil)
	resolve := newCollectionResolver(cfg.Profiles)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_brain",
		Description: "Search an expert brain semantically. Returns the best-matching code and documentation chunks with their source paths.",
	}, makeSearchHandler(resolve, cfg.Store, cfg.Embedder))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_repos",
		Description: "List the repositories ingested into an expert brain, with the commit hash and date each was ingested at.",
	}, makeListHandler(resolve, cfg.Maintain))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "brain_status",
		Description: "Get an expert brain's collection statistics: total stored chunks and the set of ingested repositories.",
	}, makeStatusHandler(resolve, cfg.Maintain))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_repo",
		Description: "Check whether an ingested repository is stale, comparing its stored commit hash against the current remote HEAD.",
	}, makeCheckHandler(resolve, cfg.Maintain, cfg.Remote))

	return &Server{server: server}
}

// Run starts the server with stdio transport (blocks until client disconnects).
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server instance.
// Used by transport handlers that need to wrap the server.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}
