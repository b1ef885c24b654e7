package release

import (
	"context"
	"log/slog"
	"regexp"
	"sync"

	"github.com/masmgr/nextver/internal/git"
)

// Opener returns the history of the repository at path.
type Opener func(path string) (git.History, error)

// Result is the outcome of summarizing one repository.
type Result struct {
	RepoPath string
	Summary  *Summary
	Err      error
}

// CollectAll summarizes every repository in paths using up to workers goroutines.
// Results are returned in the order of paths. A failing repository does not
// stop the others; its error is kept in its Result.
func (a *Assembler) CollectAll(ctx context.Context, paths []string, open Opener, pattern *regexp.Regexp, workers int) []Result {
	results := make([]Result, len(paths))
	if len(paths) == 0 {
		return results
	}
	workers = max(1, min(workers, len(paths)))

	jobs := make(chan int, len(paths))
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = a.collectOne(ctx, paths[i], open, pattern)
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func (a *Assembler) collectOne(ctx context.Context, path string, open Opener, pattern *regexp.Regexp) Result {
	res := Result{RepoPath: path}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	repo, err := open(path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Summary, res.Err = a.Collect(ctx, repo, pattern)
	if res.Err != nil {
		a.log().Warn("repository skipped", slog.String("repo", path), slog.Any("error", res.Err))
	}
	return res
}
