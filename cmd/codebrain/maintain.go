package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codebrainhq/codebrain/internal/discovery"
	"github.com/codebrainhq/codebrain/internal/maintain"
)

var (
	listDomain   string
	removeDomain string
	removeRepo   string
	statusDomain string
	checkDomain  string
	checkRepo    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the repositories ingested into a brain",
	RunE:  runList,
}

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a repository's records from a brain",
	RunE:  runRemove,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show collection statistics for one or all brains",
	RunE:  runStatus,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check ingested repositories against their remote HEAD",
	Long: `Compares the commit hash stored at ingestion time against the current
remote HEAD of each repository. Without --repo, every repository in the
domain's brain is checked.`,
	RunE: runCheck,
}

func init() {
	listCmd.Flags().StringVar(&listDomain, "domain", "", "expert domain")
	_ = listCmd.MarkFlagRequired("domain")

	removeCmd.Flags().StringVar(&removeDomain, "domain", "", "expert domain")
	removeCmd.Flags().StringVar(&removeRepo, "repo", "", "repository URL to remove")
	_ = removeCmd.MarkFlagRequired("domain")
	_ = removeCmd.MarkFlagRequired("repo")

	statusCmd.Flags().StringVar(&statusDomain, "domain", "", "expert domain (default: all)")

	checkCmd.Flags().StringVar(&checkDomain, "domain", "", "expert domain")
	checkCmd.Flags().StringVar(&checkRepo, "repo", "", "repository URL to check (default: all in domain)")
	_ = checkCmd.MarkFlagRequired("domain")

	rootCmd.AddCommand(listCmd, removeCmd, statusCmd, checkCmd)
}

// maintService connects to the store and wraps it in the maintenance service.
func maintService(a *app) (*maintain.Service, func(), error) {
	if err := a.connectStore(); err != nil {
		return nil, nil, err
	}
	return maintain.NewService(a.store, a.logger), func() { a.store.Close() }, nil
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := loadApp()
	if err != nil {
		return err
	}
	service, cleanup, err := maintService(a)
	if err != nil {
		return err
	}
	defer cleanup()

	collection := a.collectionFor(listDomain)
	repos := service.ListRepositories(ctx, collection)

	if len(repos) == 0 {
		fmt.Printf("No repositories ingested into %s\n", collection)
		return nil
	}

	fmt.Printf("Repositories in %s:\n\n", collection)
	for _, repo := range repos {
		fmt.Printf("  %s\n", repo.RepoURL)
		if repo.CommitHash != "" {
			fmt.Printf("    commit:   %s\n", repo.CommitHash)
		}
		fmt.Printf("    ingested: %s\n", repo.IngestionDate.Format(time.RFC3339))
	}
	fmt.Printf("\n%d repositories\n", len(repos))
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := loadApp()
	if err != nil {
		return err
	}
	service, cleanup, err := maintService(a)
	if err != nil {
		return err
	}
	defer cleanup()

	collection := a.collectionFor(removeDomain)
	removed, ok := service.RemoveRepository(ctx, collection, removeRepo)
	if !ok {
		fmt.Printf("No records found for %s in %s\n", removeRepo, collection)
		return nil
	}

	fmt.Printf("Removed %d records for %s from %s\n", removed, removeRepo, collection)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := loadApp()
	if err != nil {
		return err
	}
	service, cleanup, err := maintService(a)
	if err != nil {
		return err
	}
	defer cleanup()

	domains := []string{statusDomain}
	if statusDomain == "" {
		domains = domains[:0]
		for domain := range a.profiles {
			domains = append(domains, domain)
		}
	}

	for _, domain := range domains {
		stats := service.CollectionStats(ctx, a.collectionFor(domain))

		fmt.Printf("%s (%s)\n", stats.Collection, stats.Location)
		fmt.Printf("  Records:      %d\n", stats.TotalRecords)
		fmt.Printf("  Repositories: %d\n", stats.RepoCount)
		for _, url := range stats.RepoURLs {
			fmt.Printf("    - %s\n", url)
		}
		fmt.Println()
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := loadApp()
	if err != nil {
		return err
	}
	service, cleanup, err := maintService(a)
	if err != nil {
		return err
	}
	defer cleanup()

	ghClient, err := discovery.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("create GitHub client: %w", err)
	}

	collection := a.collectionFor(checkDomain)

	var repos []maintain.RepoInfo
	if checkRepo != "" {
		info, found := service.Lookup(ctx, collection, checkRepo)
		if !found {
			color.Yellow("STALE   %s (not ingested)", checkRepo)
			return nil
		}
		repos = []maintain.RepoInfo{info}
	} else {
		repos = service.ListRepositories(ctx, collection)
		if len(repos) == 0 {
			fmt.Printf("No repositories ingested into %s\n", collection)
			return nil
		}
	}

	stale := 0
	for _, repo := range repos {
		remoteCommit, err := ghClient.RemoteHeadCommit(ctx, repo.RepoURL)
		if err != nil {
			color.Yellow("?       %s (remote unresolved: %v)", repo.RepoURL, err)
			continue
		}

		if service.IsStale(ctx, collection, repo.RepoURL, remoteCommit) {
			stale++
			color.Yellow("STALE   %s", repo.RepoURL)
			fmt.Printf("  stored: %s\n  remote: %s\n", repo.CommitHash, remoteCommit)
		} else {
			color.Green("FRESH   %s", repo.RepoURL)
		}
	}

	if stale > 0 {
		fmt.Printf("\n%d of %d repositories are stale. Re-ingest with: codebrain ingest --domain %s --purge --repo <url>\n",
			stale, len(repos), checkDomain)
	}
	return nil
}
