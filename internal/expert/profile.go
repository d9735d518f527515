// Package expert defines the per-domain knowledge profiles that drive ingestion.
package expert

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is the static configuration for one knowledge domain.
// Profiles are immutable after load; one exists per domain.
type Profile struct {
	Domain      string   `yaml:"domain"`
	Collection  string   `yaml:"collection"`
	Extensions  []string `yaml:"extensions"`
	ExcludeDirs []string `yaml:"exclude_dirs"`
	SeedRepos   []string `yaml:"seed_repos"`
}

// CollectionName returns the default collection for a domain: "<domain>_brain".
func CollectionName(domain string) string {
	return domain + "_brain"
}

// commonExcludes are path substrings no profile ever wants. The match is a
// deliberate broad substring test, not a glob: over-excluding beats ingesting
// a dependency tree.
var commonExcludes = []string{
	".git", "node_modules", "__pycache__", "vendor", "dist", "build",
	".next", "target", "venv", ".venv", "coverage", ".cache",
}

var frontendExtensions = []string{
	".js", ".jsx", ".ts", ".tsx", ".vue", ".svelte", ".css", ".scss", ".html",
}

var backendExtensions = []string{
	".go", ".py", ".rb", ".java", ".rs", ".php", ".sql",
}

// Defaults returns the three built-in domain profiles.
func Defaults() map[string]Profile {
	fullstack := append(append([]string{}, frontendExtensions...), backendExtensions...)
	fullstack = append(fullstack, ".md", ".yaml", ".yml", ".json")

	return map[string]Profile{
		"frontend": {
			Domain:      "frontend",
			Collection:  CollectionName("frontend"),
			Extensions:  frontendExtensions,
			ExcludeDirs: commonExcludes,
			SeedRepos: []string{
				"https://github.com/facebook/react",
				"https://github.com/vuejs/core",
				"https://github.com/sveltejs/svelte",
			},
		},
		"backend": {
			Domain:      "backend",
			Collection:  CollectionName("backend"),
			Extensions:  backendExtensions,
			ExcludeDirs: commonExcludes,
			SeedRepos: []string{
				"https://github.com/gin-gonic/gin",
				"https://github.com/django/django",
				"https://github.com/rails/rails",
			},
		},
		"fullstack": {
			Domain:      "fullstack",
			Collection:  CollectionName("fullstack"),
			Extensions:  fullstack,
			ExcludeDirs: commonExcludes,
			SeedRepos: []string{
				"https://github.com/vercel/next.js",
				"https://github.com/remix-run/remix",
			},
		},
	}
}

// Load returns the built-in profiles, overlaid with any profiles defined in the
// YAML file at path. An empty path or a missing file yields the defaults.
func Load(path string) (map[string]Profile, error) {
	profiles := Defaults()
	if path == "" {
		return profiles, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return profiles, nil
		}
		return nil, fmt.Errorf("read profiles: %w", err)
	}

	var overrides struct {
		Profiles []Profile `yaml:"profiles"`
	}
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}

	for _, p := range overrides.Profiles {
		if p.Domain == "" {
			return nil, fmt.Errorf("profile override missing domain")
		}
		if p.Collection == "" {
			p.Collection = CollectionName(p.Domain)
		}
		if len(p.ExcludeDirs) == 0 {
			p.ExcludeDirs = commonExcludes
		}
		profiles[p.Domain] = p
	}

	return profiles, nil
}

// Get returns the profile for a domain, or an error listing the known domains.
func Get(profiles map[string]Profile, domain string) (Profile, error) {
	p, ok := profiles[domain]
	if !ok {
		known := make([]string, 0, len(profiles))
		for d := range profiles {
			known = append(known, d)
		}
		return Profile{}, fmt.Errorf("unknown domain %q (known: %v)", domain, known)
	}
	return p, nil
}
