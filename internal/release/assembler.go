package release

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/masmgr/nextver/internal/classify"
	"github.com/masmgr/nextver/internal/git"
	"github.com/masmgr/nextver/internal/gitlog"
	"github.com/masmgr/nextver/internal/semver"
)

// ErrNoBaselineTag is wrapped by NoBaselineTagError.
var ErrNoBaselineTag = errors.New("no baseline tag")

// NoBaselineTagError reports that no ancestor of a commit carries a release tag.
type NoBaselineTagError struct {
	CommitID string
}

func (e *NoBaselineTagError) Error() string {
	return fmt.Sprintf("there is no baseline tag for commit %q", e.CommitID)
}

func (e *NoBaselineTagError) Unwrap() error {
	return ErrNoBaselineTag
}

// LogSource supplies history text for a commit.
type LogSource interface {
	// Ancestry returns "git log --pretty=oneline" output starting at commitID.
	Ancestry(ctx context.Context, commitID string) (string, error)
	// LogText returns "git log --pretty=medium" output for count commits starting at commitID.
	LogText(ctx context.Context, commitID string, count int) (string, error)
}

// Compile-time interface conformance check.
var _ LogSource = (git.History)(nil)

// Assembler builds Summary values. It never modifies a repository.
type Assembler struct {
	Classifier *classify.Classifier
	Normalizer *gitlog.Normalizer
	Logger     *slog.Logger
}

// NewAssembler creates an Assembler. A nil classifier selects classify.Default();
// a nil logger selects slog.Default().
func NewAssembler(classifier *classify.Classifier, logger *slog.Logger) *Assembler {
	if classifier == nil {
		classifier = classify.Default()
	}
	return &Assembler{
		Classifier: classifier,
		Normalizer: gitlog.NewNormalizer(logger),
		Logger:     logger,
	}
}

func (a *Assembler) log() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// Summarize computes the summary for headID given the known release tags.
//
// When headID carries a tag, the summary reports that tag with no commits.
// Otherwise the nearest tagged ancestor is the baseline and the commits between
// it and headID decide which component of the baseline version is bumped.
func (a *Assembler) Summarize(ctx context.Context, headID string, tags []gitlog.TagRecord, src LogSource) (*Summary, error) {
	tagByID := gitlog.NewestTagByCommit(tags)

	if tag, ok := tagByID[headID]; ok {
		v, err := semver.Parse(tag)
		if err != nil {
			return nil, err
		}
		return &Summary{
			CommitID: headID,
			Tag:      tag,
			Version:  v.String(),
			Baseline: tag,
			Severity: semver.LevelNone,
		}, nil
	}

	ancestry, err := src.Ancestry(ctx, headID)
	if err != nil {
		return nil, fmt.Errorf("failed to read ancestry of %s: %w", headID, err)
	}

	baseline, count := "", 0
	for _, id := range gitlog.ParseAncestry(ancestry) {
		if tag, ok := tagByID[id]; ok {
			baseline = tag
			break
		}
		count++
	}
	if baseline == "" {
		return nil, &NoBaselineTagError{CommitID: headID}
	}

	baseVersion, err := semver.Parse(baseline)
	if err != nil {
		return nil, err
	}

	text, err := src.LogText(ctx, headID, count)
	if err != nil {
		return nil, fmt.Errorf("failed to read log of %s: %w", headID, err)
	}
	records, err := gitlog.ParseLog(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log of %s: %w", headID, err)
	}
	commits := a.normalizer().Normalize(records)

	severity, ok := a.Classifier.ClassifyAll(gitlog.Messages(commits))
	if !ok {
		return nil, fmt.Errorf("log of %s has no commits since %s", headID, baseline)
	}

	next, err := baseVersion.Next(severity)
	if err != nil {
		return nil, err
	}

	a.log().Debug("proposed next version",
		slog.String("commit", headID),
		slog.String("baseline", baseline),
		slog.Int("commits", len(commits)),
		slog.String("severity", severity.String()),
		slog.String("tag", next.Tag()))

	return &Summary{
		CommitID: headID,
		Tag:      next.Tag(),
		Version:  next.String(),
		Commits:  commits,
		Baseline: baseline,
		Severity: severity,
	}, nil
}

func (a *Assembler) normalizer() *gitlog.Normalizer {
	if a.Normalizer != nil {
		return a.Normalizer
	}
	return gitlog.NewNormalizer(a.Logger)
}

// Collect reads HEAD and the release tags matching pattern from repo and summarizes it.
// A nil pattern accepts every tag.
func (a *Assembler) Collect(ctx context.Context, repo git.History, pattern *regexp.Regexp) (*Summary, error) {
	start := time.Now()
	a.log().Debug("begin analyzing", slog.String("repo", repo.Path()))

	headID, err := repo.HeadCommitID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	listing, err := repo.TagListing(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	tags := gitlog.ParseTagListing(listing, pattern)

	summary, err := a.Summarize(ctx, headID, tags, repo)
	if err != nil {
		return nil, err
	}

	a.log().Debug("finished analyzing",
		slog.String("repo", repo.Path()),
		slog.Duration("elapsed", time.Since(start)))
	return summary, nil
}
