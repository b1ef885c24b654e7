// Package release derives the next release tag of a repository from its tags and history.
package release

import (
	"github.com/masmgr/nextver/internal/gitlog"
	"github.com/masmgr/nextver/internal/semver"
)

// Summary describes what a repository's next release would be.
type Summary struct {
	// CommitID is the HEAD commit.
	CommitID string `yaml:"commit_id" json:"commitId"`
	// Tag is the tag at HEAD, or the proposed tag when Commits is non-empty.
	Tag string `yaml:"tag" json:"tag"`
	// Version is the <major>.<minor>.<patch> form of Tag.
	Version string `yaml:"version" json:"version"`
	// Commits are the normalized commits since the baseline tag.
	// Empty exactly when HEAD already carries Tag.
	Commits []gitlog.CommitRecord `yaml:"-" json:"-"`
	// Baseline is the release tag the proposal was derived from.
	Baseline string `yaml:"-" json:"-"`
	// Severity is the most significant level across Commits, LevelNone when there are none.
	Severity semver.Level `yaml:"-" json:"-"`
}

// Pending reports whether HEAD has commits that are not released yet.
func (s *Summary) Pending() bool {
	return len(s.Commits) > 0
}
