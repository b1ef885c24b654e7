package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/masmgr/nextver/internal/classify"
	"github.com/masmgr/nextver/internal/release"
)

// Compile-time interface conformance checks.
var (
	_ ReportWriter = (*ConsoleWriter)(nil)
	_ ReportWriter = (*JSONWriter)(nil)
	_ ReportWriter = (*YAMLWriter)(nil)
	_ ReportWriter = (*CSVWriter)(nil)
	_ ReportWriter = (*MarkdownWriter)(nil)
	_ ReportWriter = (*CIWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatYAML     OutputFormat = "yaml"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
	FormatCI       OutputFormat = "ci"
)

// ParseFormat validates a format name. An empty name selects the console.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatConsole, nil
	case FormatConsole, FormatJSON, FormatYAML, FormatCSV, FormatMarkdown, FormatCI:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected console, json, yaml, csv, markdown or ci)", s)
	}
}

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	OutputPath string
	// Top limits how many commits are listed per repository. Zero lists all.
	Top int
	// Explain adds the level and matched text of every commit.
	Explain bool
	// Classifier explains commits. Nil selects classify.Default().
	Classifier *classify.Classifier
}

func (o OutputOptions) classifier() *classify.Classifier {
	if o.Classifier != nil {
		return o.Classifier
	}
	return classify.Default()
}

// Entry is the outcome for a single repository.
type Entry struct {
	RepoPath string
	Summary  *release.Summary
	Err      error
}

// Failed reports whether the repository could not be summarized.
func (e Entry) Failed() bool {
	return e.Err != nil || e.Summary == nil
}

// Report holds the summaries of one or more repositories in discovery order.
type Report struct {
	GeneratedAt time.Time
	Entries     []Entry
}

// Failures counts the entries that could not be summarized.
func (r *Report) Failures() int {
	n := 0
	for _, e := range r.Entries {
		if e.Failed() {
			n++
		}
	}
	return n
}

// Pending counts the entries with unreleased commits.
func (r *Report) Pending() int {
	n := 0
	for _, e := range r.Entries {
		if !e.Failed() && e.Summary.Pending() {
			n++
		}
	}
	return n
}

// ReportWriter writes release summary reports.
type ReportWriter interface {
	Write(report *Report, options OutputOptions) error
}

// NewReportWriter creates a report writer for the specified format.
func NewReportWriter(format OutputFormat) ReportWriter {
	switch format {
	case FormatJSON:
		return &JSONWriter{}
	case FormatYAML:
		return &YAMLWriter{}
	case FormatCSV:
		return &CSVWriter{}
	case FormatMarkdown:
		return &MarkdownWriter{}
	case FormatCI:
		return &CIWriter{}
	default:
		return &ConsoleWriter{}
	}
}
