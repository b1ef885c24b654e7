package output

import (
	"fmt"
	"strings"

	"github.com/masmgr/nextver/internal/semver"
)

// MarkdownWriter writes release summaries as Markdown, suitable for release notes.
type MarkdownWriter struct{}

// Write outputs the report as Markdown.
func (w *MarkdownWriter) Write(report *Report, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintln(out, "# Release Summary")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Generated:** %s\n\n", report.GeneratedAt.Format(reportDateTimeLayout))

	fmt.Fprintln(out, "| Repository | Tag | Version | Baseline | Severity | Commits |")
	fmt.Fprintln(out, "|------------|-----|---------|----------|----------|---------|")
	for _, e := range report.Entries {
		if e.Failed() {
			fmt.Fprintf(out, "| `%s` | error: %s | | | | |\n", e.RepoPath, escapeMarkdown(errorText(e)))
			continue
		}
		s := e.Summary
		fmt.Fprintf(out, "| `%s` | `%s` | %s | `%s` | %s %s | %d |\n",
			e.RepoPath, s.Tag, s.Version, s.Baseline,
			getSeverityEmoji(s.Severity), s.Severity, len(s.Commits))
	}

	for _, e := range report.Entries {
		if e.Failed() || !e.Summary.Pending() {
			continue
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "## %s `%s`\n\n", escapeMarkdown(e.RepoPath), e.Summary.Tag)
		for _, v := range commitViews(e, options) {
			line := fmt.Sprintf("- **%s** %s (`%s`)", v.level, escapeMarkdown(v.record.Subject()), shortID(v.record.CommitID))
			if options.Explain && v.reason != "" {
				line += fmt.Sprintf(" matched `%s`", strings.ReplaceAll(v.reason, "`", "'"))
			}
			fmt.Fprintln(out, line)
		}
	}

	return nil
}

func getSeverityEmoji(level semver.Level) string {
	switch level {
	case semver.LevelMajor:
		return "🔴"
	case semver.LevelMinor:
		return "🟡"
	case semver.LevelPatch:
		return "🟢"
	default:
		return "⚪"
	}
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"|", "\\|",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
	)
	return replacer.Replace(s)
}
