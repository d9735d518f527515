package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codebrainhq/codebrain/internal/chunker"
	"github.com/codebrainhq/codebrain/internal/gitrepo"
	"github.com/codebrainhq/codebrain/internal/ingest"
	"github.com/codebrainhq/codebrain/internal/loader"
)

var (
	ingestDomain     string
	ingestRepo       string
	ingestPath       string
	ingestCollection string
	ingestPurge      bool
	ingestSeed       bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a repository or local directory into an expert brain",
	Long: `Clones a repository (or reads a local directory), selects files by the
domain profile, chunks and embeds them, and stores the vectors in the domain's
collection.

Exactly one of --repo, --path, or --seed must be given. --purge removes the
repository's previously stored records before writing; the default appends.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestDomain, "domain", "", "expert domain (frontend, backend, fullstack)")
	ingestCmd.Flags().StringVar(&ingestRepo, "repo", "", "repository URL to clone and ingest")
	ingestCmd.Flags().StringVar(&ingestPath, "path", "", "local directory to ingest")
	ingestCmd.Flags().StringVar(&ingestCollection, "collection", "", "override the profile's collection name")
	ingestCmd.Flags().BoolVar(&ingestPurge, "purge", false, "remove the repository's old records before storing")
	ingestCmd.Flags().BoolVar(&ingestSeed, "seed", false, "ingest every seed repository of the domain profile")
	_ = ingestCmd.MarkFlagRequired("domain")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	start := time.Now()

	a, err := loadApp()
	if err != nil {
		return err
	}

	pipeline, cleanup, err := buildPipeline(a)
	if err != nil {
		return err
	}
	defer cleanup()

	if ingestSeed {
		return runSeedIngest(ctx, a, pipeline, start)
	}

	result := pipeline.Run(ctx, ingest.Request{
		Domain:     ingestDomain,
		RepoURL:    ingestRepo,
		SourcePath: ingestPath,
		Collection: ingestCollection,
		Purge:      ingestPurge,
	})

	printResult(result)
	fmt.Printf("\nTotal time: %s\n", time.Since(start).Round(time.Second))

	if !result.Success {
		return fmt.Errorf("ingestion failed: %s", result.Error)
	}
	return nil
}

// buildPipeline assembles the full ingestion pipeline. The returned cleanup
// closes the store connection.
func buildPipeline(a *app) (*ingest.Pipeline, func(), error) {
	if err := a.connectStore(); err != nil {
		return nil, nil, err
	}
	cleanup := func() { a.store.Close() }

	embedder, err := a.newEmbedder()
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("create embedder: %w", err)
	}

	// Missing git degrades to local-path-only ingestion.
	fetcher, err := gitrepo.NewFetcher(a.cfg.CloneTimeout(), a.logger)
	var cloner ingest.Cloner
	if err != nil {
		if !errors.Is(err, gitrepo.ErrGitNotFound) {
			cleanup()
			return nil, nil, err
		}
		a.logger.Warn("git not found on PATH, remote ingestion disabled")
	} else {
		cloner = fetcher
	}

	pipeline := ingest.NewPipeline(
		a.profiles,
		cloner,
		loader.NewLoader(a.logger, true),
		chunker.NewChunker(a.cfg.Chunker.MaxSize, a.cfg.Chunker.Overlap, a.logger),
		embedder,
		a.store,
		a.logger,
	)
	return pipeline, cleanup, nil
}

// runSeedIngest ingests every seed repository of the domain's profile.
func runSeedIngest(ctx context.Context, a *app, pipeline *ingest.Pipeline, start time.Time) error {
	profile, ok := a.profiles[ingestDomain]
	if !ok {
		return fmt.Errorf("unknown domain %q", ingestDomain)
	}
	if len(profile.SeedRepos) == 0 {
		return fmt.Errorf("domain %q has no seed repositories", ingestDomain)
	}

	requests := make([]ingest.Request, 0, len(profile.SeedRepos))
	for _, repo := range profile.SeedRepos {
		requests = append(requests, ingest.Request{
			Domain:     ingestDomain,
			RepoURL:    repo,
			Collection: ingestCollection,
			Purge:      ingestPurge,
		})
	}

	fmt.Printf("Ingesting %d seed repositories for %s...\n\n", len(requests), ingestDomain)
	summary := pipeline.RunBatch(ctx, requests)

	for _, result := range summary.Results {
		printResult(result)
		fmt.Println()
	}

	fmt.Printf("Seed ingestion complete: %d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	fmt.Printf("Total time: %s\n", time.Since(start).Round(time.Second))

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d seed repositories failed", summary.Failed, len(requests))
	}
	return nil
}

func printResult(result ingest.Result) {
	source := result.RepoURL
	if source == "" {
		source = "(local path)"
	}

	if !result.Success {
		color.Red("FAILED  %s", source)
		fmt.Printf("  Error: %s\n", result.Error)
		return
	}

	color.Green("OK      %s", source)
	fmt.Printf("  Collection: %s\n", result.Collection)
	if result.CommitHash != "" {
		fmt.Printf("  Commit: %s\n", result.CommitHash)
	}
	fmt.Printf("  Files: %d  Chunks: %d  Vectors: %d\n",
		result.FilesProcessed, result.ChunksCreated, result.VectorsStored)
}
