package gitlog

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode"
)

// DefaultMaxDepth bounds how many levels of nested commits are unpacked.
const DefaultMaxDepth = 8

var (
	// embeddedCommitPattern finds a commit/Author/Date header inside a message,
	// capturing the indentation of its commit line.
	embeddedCommitPattern = regexp.MustCompile(
		`(?m)^( *)commit [a-f0-9]+\n` +
			`^\s*Author: .+\n` +
			`^\s*Date:   .+\n`)

	// embeddedSummaryPattern matches a conventional summary line such as "feat(api): add endpoint".
	embeddedSummaryPattern = regexp.MustCompile(`^\s*(?:\*\s*)?[a-z]+\(.+?\): .+`)
)

// Normalizer turns compound commit records into atomic ones.
type Normalizer struct {
	// Logger receives warnings about messages that could not be unpacked. Defaults to slog.Default().
	Logger *slog.Logger
	// MaxDepth bounds recursive unpacking of nested commits. Defaults to DefaultMaxDepth.
	MaxDepth int
}

// NewNormalizer creates a Normalizer logging to logger (nil means slog.Default()).
func NewNormalizer(logger *slog.Logger) *Normalizer {
	return &Normalizer{Logger: logger, MaxDepth: DefaultMaxDepth}
}

// Normalize unpacks records with the default logger.
func Normalize(records []CommitRecord) []CommitRecord {
	return NewNormalizer(nil).Normalize(records)
}

// Normalize first splits out commits embedded in merge messages, then splits
// messages that carry several conventional summaries. Already atomic records
// are returned unchanged.
func (n *Normalizer) Normalize(records []CommitRecord) []CommitRecord {
	return n.unpackEmbeddedSummaries(n.unpackEmbeddedCommits(records, 0))
}

func (n *Normalizer) logger() *slog.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return slog.Default()
}

func (n *Normalizer) maxDepth() int {
	if n.MaxDepth > 0 {
		return n.MaxDepth
	}
	return DefaultMaxDepth
}

// unpackEmbeddedCommits replaces each record whose message embeds indented
// commit blocks with the records parsed from the dedented blocks.
func (n *Normalizer) unpackEmbeddedCommits(records []CommitRecord, depth int) []CommitRecord {
	result := make([]CommitRecord, 0, len(records))
	for _, rec := range records {
		loc := embeddedCommitPattern.FindStringSubmatchIndex(rec.Message)
		if loc == nil {
			result = append(result, rec)
			continue
		}

		prefix := rec.Message[loc[2]:loc[3]]
		before := rec.Message[:loc[2]]

		dedented, ok := dedent(strings.Split(rec.Message[loc[2]:], "\n"), prefix)
		if !ok {
			n.logger().Warn("message looks like a composite commit but is not indented consistently",
				slog.String("commit", rec.CommitID),
				slog.Int("indent", len(prefix)),
				slog.String("message", rec.Message))
			result = append(result, rec)
			continue
		}

		nested, err := ParseLog(dedented)
		if err != nil || len(nested) == 0 {
			n.logger().Warn("could not parse embedded commits",
				slog.String("commit", rec.CommitID),
				slog.Any("error", err))
			result = append(result, rec)
			continue
		}

		if strings.TrimSpace(before) != "" {
			n.logger().Info("dropping text before embedded commits",
				slog.String("commit", rec.CommitID),
				slog.String("dropped", before))
		}

		if depth+1 < n.maxDepth() {
			nested = n.unpackEmbeddedCommits(nested, depth+1)
		}
		result = append(result, nested...)
	}
	return result
}

// dedent strips prefix from every line. Blank lines are kept; any other line
// without the prefix makes the block inconsistent.
func dedent(lines []string, prefix string) (string, bool) {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, prefix):
			out = append(out, line[len(prefix):])
		case line == "":
			out = append(out, line)
		default:
			return "", false
		}
	}
	return strings.Join(out, "\n"), true
}

// unpackEmbeddedSummaries splits each message at its conventional summary lines.
// Every resulting record keeps the original commit id, author and date.
func (n *Normalizer) unpackEmbeddedSummaries(records []CommitRecord) []CommitRecord {
	result := make([]CommitRecord, 0, len(records))
	for _, rec := range records {
		lines := strings.Split(rec.Message, "\n")

		var starts []int
		for i, line := range lines {
			if embeddedSummaryPattern.MatchString(line) {
				starts = append(starts, i)
			}
		}
		if len(starts) == 0 {
			result = append(result, rec)
			continue
		}
		if starts[0] > 0 {
			starts = append([]int{0}, starts...)
		}
		if len(starts) > 1 {
			n.logger().Debug("splitting embedded summaries",
				slog.String("commit", rec.CommitID),
				slog.Int("blocks", len(starts)))
		}

		for i, start := range starts {
			end := len(lines)
			if i+1 < len(starts) {
				end = starts[i+1]
			}
			text := strings.TrimRightFunc(strings.Join(lines[start:end], "\n"), unicode.IsSpace)
			result = append(result, rec.withMessage(text))
		}
	}
	return result
}
