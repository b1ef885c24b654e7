package git

import (
	"fmt"
	"strings"
)

// Backend selects how history is read.
type Backend string

const (
	// BackendGitCLI runs the git binary.
	BackendGitCLI Backend = "gitcli"
	// BackendNative reads the repository with go-git.
	BackendNative Backend = "native"
)

// String returns a string representation of the backend.
func (b Backend) String() string {
	return string(b)
}

// ParseBackend parses a backend name. "auto" and "" select the git CLI.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto", "gitcli", "cli", "git":
		return BackendGitCLI, nil
	case "native", "go-git", "gogit":
		return BackendNative, nil
	default:
		return "", fmt.Errorf("unknown git backend %q (expected gitcli or native)", s)
	}
}

// OpenOptions configures Open.
type OpenOptions struct {
	RepoPath string
	Backend  Backend
	// GitPath is the git binary used by the CLI backend. Defaults to "git".
	GitPath string
}

// Open returns a History for the repository using the selected backend.
func Open(opts OpenOptions) (History, error) {
	switch opts.Backend {
	case BackendNative:
		return NewNativeHistory(opts.RepoPath)
	case BackendGitCLI, "":
		return NewCLIHistory(opts.RepoPath, opts.GitPath)
	default:
		return nil, fmt.Errorf("unknown git backend %q", opts.Backend)
	}
}
