package git

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/masmgr/nextver/internal/git/gittest"
	"github.com/masmgr/nextver/internal/gitlog"
)

func TestNativeHistory_HeadAndAncestry(t *testing.T) {
	r := gittest.NewRepo(t)
	first := r.Commit("feat: first")
	second := r.Commit("fix: second\n\nbody line")
	third := r.Commit("chore: third")

	h, err := NewNativeHistory(r.Dir)
	if err != nil {
		t.Fatalf("NewNativeHistory: %v", err)
	}
	ctx := context.Background()

	head, err := h.HeadCommitID(ctx)
	if err != nil {
		t.Fatalf("HeadCommitID: %v", err)
	}
	if head != third.String() {
		t.Fatalf("HeadCommitID = %s, want %s", head, third)
	}

	ancestry, err := h.Ancestry(ctx, head)
	if err != nil {
		t.Fatalf("Ancestry: %v", err)
	}
	ids := gitlog.ParseAncestry(ancestry)
	want := []string{third.String(), second.String(), first.String()}
	if strings.Join(ids, ",") != strings.Join(want, ",") {
		t.Fatalf("ancestry = %v, want %v", ids, want)
	}
	if !strings.Contains(ancestry, second.String()+" fix: second\n") {
		t.Errorf("ancestry line should carry the subject only:\n%s", ancestry)
	}
}

func TestNativeHistory_TagListing(t *testing.T) {
	r := gittest.NewRepo(t)
	first := r.Commit("feat: first")
	second := r.Commit("fix: second")
	r.Tag("release-1.0.0", first)
	r.AnnotatedTag("release-1.0.1", second)

	h, err := NewNativeHistory(r.Dir)
	if err != nil {
		t.Fatalf("NewNativeHistory: %v", err)
	}
	listing, err := h.TagListing(context.Background())
	if err != nil {
		t.Fatalf("TagListing: %v", err)
	}
	if !strings.Contains(listing, "refs/tags/release-1.0.1^{}") {
		t.Errorf("annotated tag should be dereferenced:\n%s", listing)
	}
	if strings.Contains(listing, "refs/tags/release-1.0.0^{}") {
		t.Errorf("lightweight tag should not be dereferenced:\n%s", listing)
	}

	byID := gitlog.NewestTagByCommit(gitlog.ParseTagListing(listing, nil))
	if got := byID[first.String()]; got != "release-1.0.0" {
		t.Errorf("tag for first = %q, want release-1.0.0", got)
	}
	if got := byID[second.String()]; got != "release-1.0.1" {
		t.Errorf("tag for second = %q, want release-1.0.1", got)
	}
}

func TestNativeHistory_LogText(t *testing.T) {
	r := gittest.NewRepo(t)
	r.Commit("feat: first")
	second := r.Commit("fix: second\n\nwith a body")
	third := r.Commit("chore: third")

	h, err := NewNativeHistory(r.Dir)
	if err != nil {
		t.Fatalf("NewNativeHistory: %v", err)
	}
	text, err := h.LogText(context.Background(), third.String(), 2)
	if err != nil {
		t.Fatalf("LogText: %v", err)
	}
	records, err := gitlog.ParseLog(text)
	if err != nil {
		t.Fatalf("ParseLog: %v\n%s", err, text)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].CommitID != third.String() || records[1].CommitID != second.String() {
		t.Errorf("unexpected commit order: %s, %s", records[0].CommitID, records[1].CommitID)
	}
	if records[1].Message != "    fix: second\n\n    with a body" {
		t.Errorf("message = %q", records[1].Message)
	}
	if records[0].Author != "Test Author <test@example.com>" {
		t.Errorf("author = %q", records[0].Author)
	}

	empty, err := h.LogText(context.Background(), third.String(), 0)
	if err != nil || empty != "" {
		t.Errorf("LogText(0) = %q, %v; want empty", empty, err)
	}
}

func TestNativeHistory_CancelledContext(t *testing.T) {
	r := gittest.NewRepo(t)
	head := r.Commit("feat: first")

	h, err := NewNativeHistory(r.Dir)
	if err != nil {
		t.Fatalf("NewNativeHistory: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := h.Ancestry(ctx, head.String()); !errors.Is(err, context.Canceled) {
		t.Errorf("Ancestry error = %v, want context.Canceled", err)
	}
}

func TestNativeHistory_UnknownRevision(t *testing.T) {
	r := gittest.NewRepo(t)
	r.Commit("feat: first")

	h, err := NewNativeHistory(r.Dir)
	if err != nil {
		t.Fatalf("NewNativeHistory: %v", err)
	}
	if _, err := h.Ancestry(context.Background(), "0123456789abcdef0123456789abcdef01234567"); err == nil {
		t.Error("expected an error for an unknown commit")
	}
}

func TestNewNativeHistory_NotARepository(t *testing.T) {
	if _, err := NewNativeHistory(t.TempDir()); err == nil {
		t.Error("expected an error outside a repository")
	}
}
