// Package gittest builds throwaway Git repositories for tests.
package gittest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repo is a temporary repository with a worktree.
type Repo struct {
	t    testing.TB
	Dir  string
	Repo *gogit.Repository
	wt   *gogit.Worktree
	when time.Time
	n    int
}

// NewRepo initializes an empty repository in a temporary directory.
func NewRepo(t testing.TB) *Repo {
	t.Helper()
	return NewRepoAt(t, t.TempDir())
}

// NewRepoAt initializes an empty repository in dir, creating it if needed.
func NewRepoAt(t testing.TB, dir string) *Repo {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	return &Repo{
		t:    t,
		Dir:  dir,
		Repo: repo,
		wt:   wt,
		when: time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC),
	}
}

func (r *Repo) signature() *object.Signature {
	return &object.Signature{
		Name:  "Test Author",
		Email: "test@example.com",
		When:  r.when.Add(time.Duration(r.n) * time.Hour),
	}
}

// Commit writes a new revision of a file and commits it with message.
func (r *Repo) Commit(message string) plumbing.Hash {
	r.t.Helper()
	r.n++

	rel := "file.txt"
	content := fmt.Sprintf("revision %d\n", r.n)
	if err := os.WriteFile(filepath.Join(r.Dir, rel), []byte(content), 0o644); err != nil {
		r.t.Fatalf("WriteFile: %v", err)
	}
	if _, err := r.wt.Add(rel); err != nil {
		r.t.Fatalf("Add: %v", err)
	}

	sig := r.signature()
	hash, err := r.wt.Commit(message, &gogit.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		r.t.Fatalf("Commit: %v", err)
	}
	return hash
}

// Tag creates a lightweight tag.
func (r *Repo) Tag(name string, hash plumbing.Hash) {
	r.t.Helper()
	if _, err := r.Repo.CreateTag(name, hash, nil); err != nil {
		r.t.Fatalf("CreateTag(%s): %v", name, err)
	}
}

// AnnotatedTag creates an annotated tag object.
func (r *Repo) AnnotatedTag(name string, hash plumbing.Hash) {
	r.t.Helper()
	opts := &gogit.CreateTagOptions{Tagger: r.signature(), Message: "release " + name}
	if _, err := r.Repo.CreateTag(name, hash, opts); err != nil {
		r.t.Fatalf("CreateTag(%s): %v", name, err)
	}
}
