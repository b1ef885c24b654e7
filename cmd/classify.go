package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/nextver/internal/gitlog"
	"github.com/masmgr/nextver/internal/semver"
)

// ClassifyCmd creates the classify command, which reads a "git log --pretty=medium"
// blob and reports the level of every commit in it.
func ClassifyCmd() *cli.Command {
	return &cli.Command{
		Name:  "classify",
		Usage: "Classify the commits of a medium-format git log",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Log file to read (\"-\" for stdin)",
				Value:   "-",
			},
			&cli.BoolFlag{
				Name:  "explain",
				Usage: "Show the text that decided each level",
			},
		},
		Action: classifyAction,
	}
}

func classifyAction(c *cli.Context) error {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	text, err := readInput(c.String("input"), c.App.Reader)
	if err != nil {
		return err
	}

	records, err := gitlog.ParseLog(text)
	if err != nil {
		// Entries that did parse are still classified.
		ctx.Logger.Warn("skipping malformed log entries", slog.Any("error", err))
	}
	commits := gitlog.NewNormalizer(ctx.Logger).Normalize(records)
	if len(commits) == 0 {
		return cli.Exit("no commits found in input", 1)
	}

	out := c.App.Writer
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	severity := semver.LevelNone
	for _, r := range commits {
		m := ctx.Classifier.Explain(r.Message)
		severity = severity.MoreSignificant(m.Level)

		levelText := levelColor(m.Level)(m.Level.String())
		if c.Bool("explain") {
			reason := m.Reason
			if m.Default {
				reason = "(default)"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", shortCommitID(r.CommitID), levelText, r.Subject(), reason)
		} else {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", shortCommitID(r.CommitID), levelText, r.Subject())
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d commits, severity: %s\n", len(commits), levelColor(severity)(severity.String()))
	return nil
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func shortCommitID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func levelColor(level semver.Level) func(string, ...interface{}) string {
	switch level {
	case semver.LevelMajor:
		return color.RedString
	case semver.LevelMinor:
		return color.YellowString
	default:
		return color.GreenString
	}
}
