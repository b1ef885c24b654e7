package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/masmgr/nextver/internal/gitlog"
)

// maxTagChain bounds how many annotated tag objects are followed when peeling.
const maxTagChain = 8

// NativeHistory reads history with go-git and renders it in git's text formats.
type NativeHistory struct {
	repo *git.Repository
	path string
}

// NewNativeHistory opens the repository at repoPath, searching parent directories for .git.
func NewNativeHistory(repoPath string) (*NativeHistory, error) {
	if repoPath == "" {
		repoPath = "."
	}
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}
	return &NativeHistory{repo: repo, path: repoPath}, nil
}

// Path returns the repository directory.
func (h *NativeHistory) Path() string {
	return h.path
}

// HeadCommitID returns the hash HEAD points at.
func (h *NativeHistory) HeadCommitID(_ context.Context) (string, error) {
	ref, err := h.repo.Head()
	if err != nil {
		return "", err
	}
	return ref.Hash().String(), nil
}

// TagListing lists tags like "git show-ref --tags --dereference":
// annotated tags get an extra "^{}" line with the commit they point at.
func (h *NativeHistory) TagListing(ctx context.Context) (string, error) {
	iter, err := h.repo.Tags()
	if err != nil {
		return "", err
	}
	defer iter.Close()

	var b strings.Builder
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(&b, "%s %s\n", ref.Hash(), ref.Name())
		if peeled, ok := h.peelTag(ref.Hash()); ok && peeled != ref.Hash() {
			fmt.Fprintf(&b, "%s %s^{}\n", peeled, ref.Name())
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// peelTag resolves an annotated tag object to the commit it references.
// Lightweight tags already point at a commit.
func (h *NativeHistory) peelTag(hash plumbing.Hash) (plumbing.Hash, bool) {
	if _, err := h.repo.CommitObject(hash); err == nil {
		return hash, true
	}
	cur := hash
	for range maxTagChain {
		tag, err := h.repo.TagObject(cur)
		if err != nil {
			return plumbing.ZeroHash, false
		}
		switch tag.TargetType {
		case plumbing.CommitObject:
			return tag.Target, true
		case plumbing.TagObject:
			cur = tag.Target
		default:
			return plumbing.ZeroHash, false
		}
	}
	return plumbing.ZeroHash, false
}

// Ancestry lists commitID and its ancestors as "<hash> <subject>" lines, newest first.
func (h *NativeHistory) Ancestry(ctx context.Context, commitID string) (string, error) {
	var b strings.Builder
	err := h.walk(ctx, commitID, func(c *object.Commit) error {
		fmt.Fprintf(&b, "%s %s\n", c.Hash, subject(c.Message))
		return nil
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// LogText renders count commits starting at commitID in the medium format.
func (h *NativeHistory) LogText(ctx context.Context, commitID string, count int) (string, error) {
	if count <= 0 {
		return "", nil
	}

	records := make([]gitlog.CommitRecord, 0, count)
	err := h.walk(ctx, commitID, func(c *object.Commit) error {
		records = append(records, gitlog.CommitRecord{
			CommitID: c.Hash.String(),
			Author:   fmt.Sprintf("%s <%s>", c.Author.Name, c.Author.Email),
			Date:     c.Author.When.Format(gitlog.DateLayout),
			Message:  strings.TrimRight(c.Message, "\n"),
		})
		if len(records) >= count {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return gitlog.FormatLog(records), nil
}

func (h *NativeHistory) walk(ctx context.Context, commitID string, fn func(*object.Commit) error) error {
	hash, err := h.resolve(commitID)
	if err != nil {
		return err
	}

	iter, err := h.repo.Log(&git.LogOptions{From: hash})
	if err != nil {
		return err
	}
	defer iter.Close()

	return iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(c)
	})
}

func (h *NativeHistory) resolve(rev string) (plumbing.Hash, error) {
	hash, err := h.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolve %s: %w", rev, err)
	}
	return *hash, nil
}

func subject(message string) string {
	if idx := strings.IndexByte(message, '\n'); idx != -1 {
		return message[:idx]
	}
	return message
}
