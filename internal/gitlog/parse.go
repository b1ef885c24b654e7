package gitlog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// ErrMalformedLogEntry is wrapped by MalformedLogEntryError.
var ErrMalformedLogEntry = errors.New("malformed log entry")

// MalformedLogEntryError reports a log block whose header is not commit/Author/Date.
type MalformedLogEntryError struct {
	Entry string
}

func (e *MalformedLogEntryError) Error() string {
	return fmt.Sprintf("malformed log entry %q", e.Entry)
}

func (e *MalformedLogEntryError) Unwrap() error {
	return ErrMalformedLogEntry
}

// mediumHeader matches the header of one block once the leading "commit " has been split off.
// git adds a "Merge:" line for merge commits.
var mediumHeader = regexp.MustCompile(`^(.+)\n(?:Merge: *.*\n)?Author: *(.+)\nDate: *(.*)\n`)

const commitBoundary = "\ncommit "

// ParseLog parses "git log --pretty=medium" output into commit records.
//
// Blocks with a malformed header are reported as *MalformedLogEntryError values joined into
// the returned error; the records of all well-formed blocks are still returned.
func ParseLog(text string) ([]CommitRecord, error) {
	blocks := strings.Split("\n"+strings.TrimSpace(text), commitBoundary)[1:]

	records := make([]CommitRecord, 0, len(blocks))
	var errs []error
	for _, block := range blocks {
		rec, err := parseEntry(block)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		records = append(records, rec)
	}
	return records, errors.Join(errs...)
}

func parseEntry(block string) (CommitRecord, error) {
	entry := block + "\n"
	m := mediumHeader.FindStringSubmatchIndex(entry)
	if m == nil {
		return CommitRecord{}, &MalformedLogEntryError{Entry: block}
	}

	fields := strings.Fields(entry[m[2]:m[3]])
	if len(fields) == 0 {
		return CommitRecord{}, &MalformedLogEntryError{Entry: block}
	}

	return CommitRecord{
		CommitID: fields[0],
		Author:   strings.TrimSpace(entry[m[4]:m[5]]),
		Date:     strings.TrimSpace(entry[m[6]:m[7]]),
		Message:  cleanMessage(entry[m[7]:]),
	}, nil
}

// cleanMessage strips trailing whitespace from every line and drops leading
// and trailing blank lines. Indentation and inner blank lines are kept.
func cleanMessage(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// ParseAncestry returns the commit ids of "git log --pretty=oneline" output in the order given.
func ParseAncestry(text string) []string {
	var ids []string
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		ids = append(ids, fields[0])
	}
	return ids
}

// ParseTagListing parses "git show-ref --tags [--dereference]" output.
// Lines that are not tag refs are ignored, as are tags that do not match pattern when it is non-nil.
// A peeled "^{}" line maps the tag to the commit it dereferences to.
// The result is sorted by tag text, greatest first.
func ParseTagListing(text string, pattern *regexp.Regexp) []TagRecord {
	var tags []TagRecord
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		name, ok := strings.CutPrefix(fields[1], "refs/tags/")
		if !ok {
			continue
		}
		name = strings.TrimSuffix(name, "^{}")
		if name == "" {
			continue
		}
		if pattern != nil && !pattern.MatchString(name) {
			continue
		}
		tags = append(tags, TagRecord{CommitID: fields[0], Tag: name})
	}
	SortDescending(tags)
	return tags
}
