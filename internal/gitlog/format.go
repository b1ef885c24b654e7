package gitlog

import (
	"strings"
)

// DateLayout is the layout git uses for dates in the medium format.
const DateLayout = "Mon Jan 2 15:04:05 2006 -0700"

const bodyIndent = "    "

// FormatLog renders records the way "git log --pretty=medium" prints them.
// Messages are taken as unindented commit messages and indented by four spaces.
func FormatLog(records []CommitRecord) string {
	var b strings.Builder
	for i, r := range records {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("commit ")
		b.WriteString(r.CommitID)
		b.WriteString("\nAuthor: ")
		b.WriteString(r.Author)
		b.WriteString("\nDate:   ")
		b.WriteString(r.Date)
		b.WriteString("\n\n")
		b.WriteString(Indent(r.Message, bodyIndent))
		b.WriteString("\n")
	}
	return b.String()
}

// Indent prefixes every non-blank line of text with prefix.
func Indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
