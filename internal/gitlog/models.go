// Package gitlog parses the text that git prints for logs and tag listings
// into commit and tag records, and unpacks compound commit messages.
package gitlog

import (
	"slices"
	"strings"
)

// CommitRecord represents one logical commit taken from "git log --pretty=medium" output.
// Several records may share a CommitID when one commit message bundles several summaries.
type CommitRecord struct {
	CommitID string
	Author   string
	Date     string
	// Message has no leading or trailing blank lines and no trailing whitespace per line.
	// Indentation is kept as git printed it.
	Message string
}

// Subject returns the first non-blank line of the message without surrounding whitespace.
func (c CommitRecord) Subject() string {
	for _, line := range strings.Split(c.Message, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			return s
		}
	}
	return ""
}

func (c CommitRecord) withMessage(message string) CommitRecord {
	c.Message = message
	return c
}

// Messages returns the messages of the records in order.
func Messages(records []CommitRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Message
	}
	return out
}

// TagRecord is one tag from "git show-ref --tags" output.
type TagRecord struct {
	CommitID string
	Tag      string
}

// Compare orders tag records lexicographically by tag text.
func (t TagRecord) Compare(o TagRecord) int {
	return strings.Compare(t.Tag, o.Tag)
}

// SortDescending sorts tags by tag text, greatest first.
func SortDescending(tags []TagRecord) {
	slices.SortStableFunc(tags, func(a, b TagRecord) int {
		return b.Compare(a)
	})
}

// NewestTagByCommit maps each commit id to its lexicographically greatest tag.
func NewestTagByCommit(tags []TagRecord) map[string]string {
	sorted := slices.Clone(tags)
	slices.SortStableFunc(sorted, TagRecord.Compare)

	byID := make(map[string]string, len(sorted))
	for _, t := range sorted {
		byID[t.CommitID] = t.Tag
	}
	return byID
}
