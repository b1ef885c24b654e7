package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/masmgr/nextver/internal/release"
)

// SummaryCmd creates the summary command.
func SummaryCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Path to Git repository",
			Value:   ".",
		},
	}
	flags = append(flags, historyFlags()...)
	flags = append(flags, outputFlags()...)

	return &cli.Command{
		Name:   "summary",
		Usage:  "Propose the next release tag of a repository",
		Flags:  flags,
		Action: summaryAction,
	}
}

func summaryAction(c *cli.Context) error {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	repoPath := c.String("repo")
	if c.NArg() > 0 {
		repoPath = c.Args().First()
	}

	repo, err := ctx.Open(repoPath)
	if err != nil {
		return err
	}
	summary, err := ctx.Assembler().Collect(c.Context, repo, ctx.TagPattern)
	if err != nil {
		return err
	}

	return writeReport(c, ctx, newReport([]release.Result{{RepoPath: repoPath, Summary: summary}}))
}
