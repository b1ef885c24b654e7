package output

import (
	"io"
	"os"

	"github.com/masmgr/nextver/internal/gitlog"
	"github.com/masmgr/nextver/internal/semver"
)

const reportDateTimeLayout = "2006-01-02T15:04:05Z07:00"

func limitTop[T any](items []T, top int) []T {
	if top <= 0 || top >= len(items) {
		return items
	}
	return items[:top]
}

func openOutputWriter(outputPath string) (io.Writer, *os.File, error) {
	if outputPath == "" {
		return os.Stdout, nil, nil
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}

// commitView is the per-commit data every writer renders.
type commitView struct {
	record gitlog.CommitRecord
	level  semver.Level
	reason string
}

func commitViews(e Entry, options OutputOptions) []commitView {
	if e.Failed() {
		return nil
	}
	commits := limitTop(e.Summary.Commits, options.Top)
	c := options.classifier()

	views := make([]commitView, len(commits))
	for i, r := range commits {
		m := c.Explain(r.Message)
		views[i] = commitView{record: r, level: m.Level, reason: m.Reason}
	}
	return views
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncateMessage shortens msg to at most maxLen runes, marking the cut with "..." when there is room.
func truncateMessage(msg string, maxLen int) string {
	runes := []rune(msg)
	if len(runes) <= maxLen {
		return msg
	}
	if maxLen <= 0 {
		return ""
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

func errorText(e Entry) string {
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Summary == nil {
		return "no summary"
	}
	return ""
}
