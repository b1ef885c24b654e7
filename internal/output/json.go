package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONWriter writes release summaries as JSON, commits included.
type JSONWriter struct{}

// JSONReport is the JSON output structure.
type JSONReport struct {
	GeneratedAt  string           `json:"generatedAt"`
	Repositories []JSONRepository `json:"repositories"`
}

// JSONRepository is the JSON output structure for a single repository.
type JSONRepository struct {
	Repo     string       `json:"repo"`
	CommitID string       `json:"commitId,omitempty"`
	Tag      string       `json:"tag,omitempty"`
	Version  string       `json:"version,omitempty"`
	Baseline string       `json:"baseline,omitempty"`
	Severity string       `json:"severity,omitempty"`
	Pending  bool         `json:"pending"`
	Commits  []JSONCommit `json:"commits"`
	Error    string       `json:"error,omitempty"`
}

// JSONCommit is the JSON output structure for a commit.
type JSONCommit struct {
	CommitID string `json:"commitId"`
	Author   string `json:"author"`
	Date     string `json:"date"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Level    string `json:"level"`
	Reason   string `json:"reason,omitempty"`
}

func buildJSONRepository(e Entry, options OutputOptions) JSONRepository {
	repo := JSONRepository{Repo: e.RepoPath, Commits: []JSONCommit{}}
	if e.Failed() {
		repo.Error = errorText(e)
		return repo
	}

	s := e.Summary
	repo.CommitID = s.CommitID
	repo.Tag = s.Tag
	repo.Version = s.Version
	repo.Baseline = s.Baseline
	repo.Severity = s.Severity.String()
	repo.Pending = s.Pending()

	for _, v := range commitViews(e, options) {
		c := JSONCommit{
			CommitID: v.record.CommitID,
			Author:   v.record.Author,
			Date:     v.record.Date,
			Subject:  v.record.Subject(),
			Message:  v.record.Message,
			Level:    v.level.String(),
		}
		if options.Explain {
			c.Reason = v.reason
		}
		repo.Commits = append(repo.Commits, c)
	}
	return repo
}

// Write outputs the report as JSON.
func (w *JSONWriter) Write(report *Report, options OutputOptions) error {
	jsonReport := JSONReport{
		GeneratedAt:  report.GeneratedAt.Format(reportDateTimeLayout),
		Repositories: make([]JSONRepository, len(report.Entries)),
	}
	for i, e := range report.Entries {
		jsonReport.Repositories[i] = buildJSONRepository(e, options)
	}

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	return writeJSON(out, jsonReport)
}

func writeJSON(out io.Writer, data interface{}) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
