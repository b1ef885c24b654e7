package output

import (
	"encoding/csv"
	"os"
	"strconv"
)

// CSVWriter writes one row per repository, or one row per commit with Explain.
type CSVWriter struct{}

// Write outputs the report as CSV.
func (w *CSVWriter) Write(report *Report, options OutputOptions) error {
	writer, file, err := createCSVWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	headers := []string{"Repository", "CommitID", "Tag", "Version", "Baseline", "Severity", "Commits", "Error"}
	if options.Explain {
		headers = append(headers, "Commit", "Level", "Subject", "Matched")
	}
	if err := writer.Write(headers); err != nil {
		return err
	}

	for _, e := range report.Entries {
		row := []string{e.RepoPath, "", "", "", "", "", "0", errorText(e)}
		if !e.Failed() {
			s := e.Summary
			row = []string{e.RepoPath, s.CommitID, s.Tag, s.Version, s.Baseline, s.Severity.String(),
				strconv.Itoa(len(s.Commits)), ""}
		}

		views := commitViews(e, options)
		if !options.Explain {
			if err := writer.Write(row); err != nil {
				return err
			}
			continue
		}
		if len(views) == 0 {
			if err := writer.Write(append(row, "", "", "", "")); err != nil {
				return err
			}
			continue
		}
		for _, v := range views {
			line := append(row[:len(row):len(row)], v.record.CommitID, v.level.String(), v.record.Subject(), v.reason)
			if err := writer.Write(line); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

func createCSVWriter(outputPath string) (*csv.Writer, *os.File, error) {
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return nil, nil, err
		}
		return csv.NewWriter(file), file, nil
	}
	return csv.NewWriter(os.Stdout), nil, nil
}
