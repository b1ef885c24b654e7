package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// CIWriter writes release summaries as NDJSON (one JSON object per line) for CI pipelines.
type CIWriter struct{}

// CISummary is the first line of CI output, containing aggregate statistics.
type CISummary struct {
	Type         string `json:"type"`
	Repositories int    `json:"repositories"`
	Pending      int    `json:"pending"`
	Failed       int    `json:"failed"`
}

// CIRepository is one line per repository.
type CIRepository struct {
	Type     string `json:"type"`
	Repo     string `json:"repo"`
	CommitID string `json:"commitId,omitempty"`
	Tag      string `json:"tag,omitempty"`
	Version  string `json:"version,omitempty"`
	Baseline string `json:"baseline,omitempty"`
	Severity string `json:"severity,omitempty"`
	Commits  int    `json:"commits"`
	Error    string `json:"error,omitempty"`
}

// CICommit is written after its repository line when Explain is set.
type CICommit struct {
	Type     string `json:"type"`
	Repo     string `json:"repo"`
	CommitID string `json:"commitId"`
	Level    string `json:"level"`
	Subject  string `json:"subject"`
	Reason   string `json:"reason,omitempty"`
}

// Write outputs the report as NDJSON.
func (w *CIWriter) Write(report *Report, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	summary := CISummary{
		Type:         "summary",
		Repositories: len(report.Entries),
		Pending:      report.Pending(),
		Failed:       report.Failures(),
	}
	if err := writeNDJSONLine(out, summary); err != nil {
		return err
	}

	for _, e := range report.Entries {
		line := CIRepository{Type: "repository", Repo: e.RepoPath, Error: errorText(e)}
		if !e.Failed() {
			s := e.Summary
			line.CommitID = s.CommitID
			line.Tag = s.Tag
			line.Version = s.Version
			line.Baseline = s.Baseline
			line.Severity = s.Severity.String()
			line.Commits = len(s.Commits)
		}
		if err := writeNDJSONLine(out, line); err != nil {
			return err
		}
		if !options.Explain {
			continue
		}
		for _, v := range commitViews(e, options) {
			c := CICommit{
				Type:     "commit",
				Repo:     e.RepoPath,
				CommitID: v.record.CommitID,
				Level:    v.level.String(),
				Subject:  v.record.Subject(),
				Reason:   v.reason,
			}
			if err := writeNDJSONLine(out, c); err != nil {
				return err
			}
		}
	}

	return nil
}

func writeNDJSONLine(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal NDJSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
