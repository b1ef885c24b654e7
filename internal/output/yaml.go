package output

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLWriter writes the key/value form of release summaries: commit id, tag
// and version. Commits are never included.
type YAMLWriter struct{}

// yamlEntry is one repository in a multi-repository YAML report.
type yamlEntry struct {
	Repo     string `yaml:"repo"`
	CommitID string `yaml:"commit_id,omitempty"`
	Tag      string `yaml:"tag,omitempty"`
	Version  string `yaml:"version,omitempty"`
	Error    string `yaml:"error,omitempty"`
}

// Write outputs the report as YAML. A report with one successful summary is
// written as a single mapping; anything else as a sequence of mappings.
func (w *YAMLWriter) Write(report *Report, options OutputOptions) error {
	var doc interface{}
	if len(report.Entries) == 1 && !report.Entries[0].Failed() {
		doc = report.Entries[0].Summary
	} else {
		entries := make([]yamlEntry, len(report.Entries))
		for i, e := range report.Entries {
			entries[i] = yamlEntry{Repo: e.RepoPath, Error: errorText(e)}
			if !e.Failed() {
				entries[i].CommitID = e.Summary.CommitID
				entries[i].Tag = e.Summary.Tag
				entries[i].Version = e.Summary.Version
			}
		}
		doc = entries
	}

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}
