// Package main provides the codebrain CLI: ingestion, maintenance, discovery,
// and the MCP server for per-domain code knowledge bases.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/codebrainhq/codebrain/internal/config"
	"github.com/codebrainhq/codebrain/internal/embedding"
	"github.com/codebrainhq/codebrain/internal/expert"
	"github.com/codebrainhq/codebrain/internal/storage"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "codebrain",
	Short: "Repository ingestion and semantic search for expert brains",
	Long: `codebrain clones code repositories, chunks their files, embeds the
chunks, and stores them in per-domain Qdrant collections ("brains") that can
be searched semantically over MCP.

Environment variables:
  QDRANT_HOST    Qdrant hostname (default: localhost)
  QDRANT_PORT    Qdrant gRPC port (default: 6334)
  OPENAI_API_KEY OpenAI API key for embeddings (required for ingest/serve)
  GITHUB_TOKEN   GitHub token for higher rate limits (optional)`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "codebrain.yaml", "path to config file")
}

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles the dependencies most subcommands need. Each field is populated
// only by the setup helper that needs it.
type app struct {
	cfg      *config.Config
	profiles map[string]expert.Profile
	store    *storage.Store
	logger   *slog.Logger
}

// loadApp reads configuration and profiles. It never touches the network.
func loadApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	profiles, err := expert.Load(cfg.Profiles)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}

	return &app{
		cfg:      cfg,
		profiles: profiles,
		logger:   slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}, nil
}

// connectStore connects the app to Qdrant. Callers must Close.
func (a *app) connectStore() error {
	fmt.Printf("Connecting to Qdrant at %s:%d...\n", a.cfg.Qdrant.Host, a.cfg.Qdrant.Port)
	store, err := storage.NewStore(a.cfg.Qdrant.Host, a.cfg.Qdrant.Port, a.cfg.Embedding.Dimension)
	if err != nil {
		return fmt.Errorf("connect to Qdrant: %w", err)
	}
	a.store = store
	return nil
}

func (a *app) newEmbedder() (*embedding.Embedder, error) {
	return embedding.NewEmbedder(embedding.Config{
		Model:     a.cfg.Embedding.Model,
		Dimension: a.cfg.Embedding.Dimension,
		BatchSize: a.cfg.Embedding.BatchSize,
	})
}

// collectionFor resolves the collection a domain stores into, honoring any
// profile override.
func (a *app) collectionFor(domain string) string {
	if p, ok := a.profiles[domain]; ok && p.Collection != "" {
		return p.Collection
	}
	return expert.CollectionName(domain)
}
