// Package discovery finds Git repositories below a directory.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches every directory below the root.
const DefaultPattern = "**"

// Options configures FindRepositories.
type Options struct {
	Root string
	// Pattern is a doublestar glob matched against slash-separated paths
	// relative to Root. Empty selects DefaultPattern.
	Pattern string
	// Exclude lists globs for directories that are neither reported nor descended into.
	Exclude []string
}

// FindRepositories returns the working tree roots below opts.Root in walk order.
// A directory is a repository when it contains a ".git" entry; the walk does
// not descend into repositories, so nested checkouts are not reported.
func FindRepositories(ctx context.Context, opts Options) ([]string, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}
	pattern := opts.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid repository pattern %q", pattern)
	}
	for _, ex := range opts.Exclude {
		if !doublestar.ValidatePattern(ex) {
			return nil, fmt.Errorf("invalid exclude pattern %q", ex)
		}
	}

	var repos []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable directories are skipped, the root is not.
			if path != root && errors.Is(err, fs.ErrPermission) {
				return fs.SkipDir
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return fs.SkipDir
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel != "." && excluded(opts.Exclude, rel) {
			return fs.SkipDir
		}
		if !isRepository(path) {
			return nil
		}
		if rel == "." || matches(pattern, rel) {
			repos = append(repos, path)
		}
		return fs.SkipDir
	})
	if err != nil {
		return nil, err
	}
	return repos, nil
}

func isRepository(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

func matches(pattern, rel string) bool {
	matched, _ := doublestar.Match(pattern, rel)
	return matched
}

func excluded(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if matches(pattern, rel) || matches(strings.TrimSuffix(pattern, "/"), rel) {
			return true
		}
	}
	return false
}
