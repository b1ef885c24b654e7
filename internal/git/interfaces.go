package git

import "context"

// History provides the raw text the release summary is computed from.
// This abstraction allows for easier testing and alternative implementations.
type History interface {
	// Path returns the repository location, for reporting.
	Path() string
	// HeadCommitID returns the full id of the commit at HEAD.
	HeadCommitID(ctx context.Context) (string, error)
	// TagListing returns output in the form of "git show-ref --tags --dereference".
	TagListing(ctx context.Context) (string, error)
	// Ancestry returns output in the form of "git log --pretty=oneline <commitID>".
	Ancestry(ctx context.Context, commitID string) (string, error)
	// LogText returns output in the form of "git log -n <count> --pretty=medium <commitID>".
	LogText(ctx context.Context, commitID string, count int) (string, error)
}

// Compile-time interface conformance checks.
var (
	_ History = (*CLIHistory)(nil)
	_ History = (*NativeHistory)(nil)
	_ History = (*MockHistory)(nil)
)
