package discovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v81/github"
)

// Candidate is one repository surfaced by a domain search.
type Candidate struct {
	FullName    string
	URL         string
	Description string
	Stars       int
	Language    string
	Summary     string
}

// domainLanguages maps a knowledge domain to the GitHub language qualifiers
// its search covers.
var domainLanguages = map[string][]string{
	"frontend":  {"typescript", "javascript"},
	"backend":   {"go", "python"},
	"fullstack": {"typescript", "go", "python"},
}

// buildQuery assembles a GitHub repository search query for a domain.
func buildQuery(domain string, minStars int) string {
	parts := []string{fmt.Sprintf("stars:>=%d", minStars), "archived:false"}
	for _, lang := range domainLanguages[domain] {
		parts = append(parts, "language:"+lang)
	}
	return strings.Join(parts, " ")
}

// SearchRepos returns up to limit candidate repositories for a domain,
// ordered by star count.
func (c *Client) SearchRepos(ctx context.Context, domain string, minStars, limit int) ([]Candidate, error) {
	if limit <= 0 {
		limit = 10
	}

	result, _, err := c.Search.Repositories(ctx, buildQuery(domain, minStars), &github.SearchOptions{
		Sort:  "stars",
		Order: "desc",
		ListOptions: github.ListOptions{
			PerPage: limit,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("search repositories for %s: %w", domain, err)
	}

	candidates := make([]Candidate, 0, len(result.Repositories))
	for _, repo := range result.Repositories {
		candidates = append(candidates, Candidate{
			FullName:    repo.GetFullName(),
			URL:         repo.GetHTMLURL(),
			Description: repo.GetDescription(),
			Stars:       repo.GetStargazersCount(),
			Language:    repo.GetLanguage(),
		})
	}

	return candidates, nil
}

// RemoteHeadCommit resolves the latest commit hash of a repository's default
// branch through the API, so staleness can be checked before paying for a
// clone.
func (c *Client) RemoteHeadCommit(ctx context.Context, repoURL string) (string, error) {
	owner, repo, err := ParseRepoURL(repoURL)
	if err != nil {
		return "", err
	}

	commits, _, err := c.Repositories.ListCommits(ctx, owner, repo, &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err != nil {
		return "", fmt.Errorf("list commits for %s/%s: %w", owner, repo, err)
	}
	if len(commits) == 0 || commits[0].SHA == nil {
		return "", fmt.Errorf("no commits found for %s/%s", owner, repo)
	}

	return *commits[0].SHA, nil
}

// ParseRepoURL extracts owner and repository name from a GitHub URL or an
// "owner/repo" shorthand.
func ParseRepoURL(repoURL string) (owner, repo string, err error) {
	trimmed := strings.TrimSuffix(repoURL, ".git")
	trimmed = strings.TrimPrefix(trimmed, "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")
	trimmed = strings.TrimPrefix(trimmed, "git@github.com:")
	trimmed = strings.TrimPrefix(trimmed, "github.com/")
	trimmed = strings.Trim(trimmed, "/")

	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("cannot parse repository URL %q", repoURL)
	}
	return parts[0], parts[1], nil
}
