package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/masmgr/nextver/internal/gitlog"
)

// MockHistory is a test double for History.
// It serves a linear history without needing a real Git repository.
type MockHistory struct {
	RepoPath string
	// Commits is the history, HEAD first. Messages are unindented.
	Commits []gitlog.CommitRecord
	Tags    []gitlog.TagRecord
	Error   error

	// LogRequests records the count passed to each LogText call.
	LogRequests []int
}

// NewMockHistory creates a new MockHistory with the given data.
func NewMockHistory(commits []gitlog.CommitRecord, tags []gitlog.TagRecord) *MockHistory {
	return &MockHistory{
		RepoPath: "mock",
		Commits:  commits,
		Tags:     tags,
	}
}

// Path returns the configured repository path.
func (m *MockHistory) Path() string {
	return m.RepoPath
}

// HeadCommitID returns the id of the first commit.
func (m *MockHistory) HeadCommitID(_ context.Context) (string, error) {
	if m.Error != nil {
		return "", m.Error
	}
	if len(m.Commits) == 0 {
		return "", errors.New("mock history is empty")
	}
	return m.Commits[0].CommitID, nil
}

// TagListing renders the tags as show-ref lines.
func (m *MockHistory) TagListing(_ context.Context) (string, error) {
	if m.Error != nil {
		return "", m.Error
	}
	var b strings.Builder
	for _, t := range m.Tags {
		fmt.Fprintf(&b, "%s refs/tags/%s\n", t.CommitID, t.Tag)
	}
	return b.String(), nil
}

// Ancestry renders the commits from commitID onward as oneline entries.
func (m *MockHistory) Ancestry(_ context.Context, commitID string) (string, error) {
	from, err := m.indexOf(commitID)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, c := range m.Commits[from:] {
		fmt.Fprintf(&b, "%s %s\n", c.CommitID, c.Subject())
	}
	return b.String(), nil
}

// LogText renders up to count commits from commitID onward in the medium format.
func (m *MockHistory) LogText(_ context.Context, commitID string, count int) (string, error) {
	m.LogRequests = append(m.LogRequests, count)
	from, err := m.indexOf(commitID)
	if err != nil {
		return "", err
	}
	to := min(from+max(count, 0), len(m.Commits))
	return gitlog.FormatLog(m.Commits[from:to]), nil
}

func (m *MockHistory) indexOf(commitID string) (int, error) {
	if m.Error != nil {
		return 0, m.Error
	}
	for i, c := range m.Commits {
		if c.CommitID == commitID {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown commit %q", commitID)
}
