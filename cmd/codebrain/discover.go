package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codebrainhq/codebrain/internal/discovery"
	"github.com/codebrainhq/codebrain/internal/maintain"
	"github.com/codebrainhq/codebrain/internal/summary"
)

var (
	discoverDomain    string
	discoverMinStars  int
	discoverLimit     int
	discoverSummarize bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find candidate repositories for a domain on GitHub",
	Long: `Searches GitHub for popular repositories matching the domain's
languages, marks the ones already ingested, and with --summarize annotates
each candidate with a one-line LLM description.`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().StringVar(&discoverDomain, "domain", "", "expert domain")
	discoverCmd.Flags().IntVar(&discoverMinStars, "min-stars", 1000, "minimum star count")
	discoverCmd.Flags().IntVar(&discoverLimit, "limit", 10, "maximum number of candidates")
	discoverCmd.Flags().BoolVar(&discoverSummarize, "summarize", false, "annotate candidates with LLM summaries")
	_ = discoverCmd.MarkFlagRequired("domain")
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := loadApp()
	if err != nil {
		return err
	}

	ghClient, err := discovery.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("create GitHub client: %w", err)
	}

	fmt.Printf("Searching GitHub for %s repositories (stars >= %d)...\n\n", discoverDomain, discoverMinStars)
	candidates, err := ghClient.SearchRepos(ctx, discoverDomain, discoverMinStars, discoverLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(candidates) == 0 {
		fmt.Println("No candidates found.")
		return nil
	}

	if discoverSummarize {
		if err := annotate(ctx, a, candidates); err != nil {
			a.logger.Warn("summary annotation failed", "error", err)
		}
	}

	// Ingested repos are marked so discover doubles as a gap report. A store
	// that is down just leaves every candidate unmarked.
	ingested := ingestedSet(ctx, a)

	for _, candidate := range candidates {
		marker := "  "
		if ingested[candidate.URL] {
			marker = color.GreenString("* ")
		}
		fmt.Printf("%s%s  (%d stars, %s)\n", marker, candidate.FullName, candidate.Stars, candidate.Language)
		if candidate.Description != "" {
			fmt.Printf("    %s\n", candidate.Description)
		}
		if candidate.Summary != "" {
			fmt.Printf("    %s\n", color.CyanString(candidate.Summary))
		}
		fmt.Printf("    %s\n", candidate.URL)
	}

	fmt.Printf("\n%d candidates (* = already ingested)\n", len(candidates))
	return nil
}

// annotate fills each candidate's Summary via concurrent LLM calls.
func annotate(ctx context.Context, a *app, candidates []discovery.Candidate) error {
	embedder, err := a.newEmbedder()
	if err != nil {
		return err
	}
	generator := summary.NewGenerator(embedder.Client())
	pool := summary.NewPool(summary.DefaultWorkers)

	errs := pool.ForEach(ctx, len(candidates), func(ctx context.Context, i int) error {
		text, err := generator.Summarize(ctx, candidates[i].FullName, candidates[i].Description, "")
		if err != nil {
			return err
		}
		candidates[i].Summary = text
		return nil
	})

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if failed > 0 {
		a.logger.Warn("some summaries failed", "failed", failed, "total", len(candidates))
	}
	return nil
}

// ingestedSet returns the URLs already stored in the domain's brain.
func ingestedSet(ctx context.Context, a *app) map[string]bool {
	if err := a.connectStore(); err != nil {
		a.logger.Warn("store unavailable, skipping ingested markers", "error", err)
		return nil
	}
	defer a.store.Close()

	service := maintain.NewService(a.store, a.logger)
	ingested := make(map[string]bool)
	for _, repo := range service.ListRepositories(ctx, a.collectionFor(discoverDomain)) {
		ingested[repo.RepoURL] = true
	}
	return ingested
}
