package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// CLIHistory reads history by running the git binary.
type CLIHistory struct {
	repoPath string
	gitPath  string
}

// NewCLIHistory creates a CLIHistory for the repository at repoPath.
// An empty gitPath selects "git" from PATH.
func NewCLIHistory(repoPath, gitPath string) (*CLIHistory, error) {
	if repoPath == "" {
		repoPath = "."
	}
	info, err := os.Stat(repoPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", repoPath)
	}
	if gitPath == "" {
		gitPath = "git"
	}
	return &CLIHistory{repoPath: repoPath, gitPath: gitPath}, nil
}

// Path returns the repository directory.
func (h *CLIHistory) Path() string {
	return h.repoPath
}

// HeadCommitID runs "git rev-parse HEAD".
func (h *CLIHistory) HeadCommitID(ctx context.Context) (string, error) {
	out, err := h.run(ctx, "rev-parse", "--verify", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// TagListing runs "git show-ref --tags --dereference".
// A repository without tags yields empty output rather than an error.
func (h *CLIHistory) TagListing(ctx context.Context) (string, error) {
	out, err := h.run(ctx, "show-ref", "--tags", "--dereference")
	if err != nil {
		// show-ref exits 1 when nothing matched.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 && strings.TrimSpace(out) == "" {
			return "", nil
		}
		return "", err
	}
	return out, nil
}

// Ancestry runs "git log --pretty=oneline <commitID>".
func (h *CLIHistory) Ancestry(ctx context.Context, commitID string) (string, error) {
	return h.run(ctx, "log", "--no-color", "--no-decorate", "--pretty=oneline", commitID)
}

// LogText runs "git log -n <count> --pretty=medium <commitID>".
func (h *CLIHistory) LogText(ctx context.Context, commitID string, count int) (string, error) {
	if count <= 0 {
		return "", nil
	}
	return h.run(ctx,
		"log",
		"--no-color",
		"--no-decorate",
		"-n", strconv.Itoa(count),
		"--pretty=medium",
		commitID,
	)
}

func (h *CLIHistory) run(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"-C", h.repoPath}, args...)
	cmd := exec.CommandContext(ctx, h.gitPath, full...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return string(out), fmt.Errorf("git %s failed: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return string(out), nil
}
