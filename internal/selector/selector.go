// Package selector walks a workspace tree and picks the files worth ingesting.
package selector

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Select walks root and returns every regular file whose extension is in the
// allow-list and whose path contains none of the exclude substrings.
//
// The exclusion test is a plain substring match against the full path. It is
// conservative on purpose: "build" excludes both "build/" and "gradle.build.d/",
// which beats accidentally ingesting a dependency or build tree. An empty
// result is a valid outcome; the caller decides whether that is an error.
func Select(root string, extensions []string, excludes []string) ([]string, error) {
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = true
	}

	var selected []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree: skip it rather than abort the walk.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if excluded(path, excludes) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		if allowed[strings.ToLower(filepath.Ext(path))] {
			selected = append(selected, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return selected, nil
}

func excluded(path string, excludes []string) bool {
	for _, pattern := range excludes {
		if pattern != "" && strings.Contains(path, pattern) {
			return true
		}
	}
	return false
}
