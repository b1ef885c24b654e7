package output

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/masmgr/nextver/internal/semver"
)

// ConsoleWriter writes release summaries for a terminal.
type ConsoleWriter struct{}

// Write outputs the report to the console.
func (w *ConsoleWriter) Write(report *Report, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	title := color.New(color.FgGreen)
	repoColor := color.New(color.FgCyan, color.Underline)
	errColor := color.New(color.FgRed)

	title.Fprintln(out, "Release Summary")
	if len(report.Entries) > 1 {
		fmt.Fprintf(out, "Repositories: %d, pending: %d, failed: %d\n", len(report.Entries), report.Pending(), report.Failures())
	}

	for _, e := range report.Entries {
		fmt.Fprintln(out)
		repoColor.Fprintln(out, e.RepoPath)

		if e.Failed() {
			errColor.Fprintf(out, "  error: %s\n", errorText(e))
			continue
		}

		s := e.Summary
		if !s.Pending() {
			fmt.Fprintf(out, "  Up to date at %s (%s)\n", s.Tag, shortID(s.CommitID))
			continue
		}

		levelColor := getLevelColor(s.Severity)
		fmt.Fprintf(out, "  Next release: %s (%s bump since %s, %d commits)\n",
			color.New(color.Bold).Sprint(s.Tag), levelColor(s.Severity.String()), s.Baseline, len(s.Commits))

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		if options.Explain {
			fmt.Fprintln(tw, "  SHA\tLevel\tSubject\tMatched")
		} else {
			fmt.Fprintln(tw, "  SHA\tLevel\tSubject")
		}
		for _, v := range commitViews(e, options) {
			if options.Explain {
				fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n",
					shortID(v.record.CommitID),
					getLevelColor(v.level)(v.level.String()),
					truncateMessage(v.record.Subject(), 60),
					explainText(v))
			} else {
				fmt.Fprintf(tw, "  %s\t%s\t%s\n",
					shortID(v.record.CommitID),
					getLevelColor(v.level)(v.level.String()),
					truncateMessage(v.record.Subject(), 60))
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	return nil
}

func explainText(v commitView) string {
	if v.reason == "" {
		return "(default)"
	}
	return truncateMessage(v.reason, 40)
}

func getLevelColor(level semver.Level) func(string, ...interface{}) string {
	switch level {
	case semver.LevelMajor:
		return color.RedString
	case semver.LevelMinor:
		return color.YellowString
	default:
		return color.GreenString
	}
}
