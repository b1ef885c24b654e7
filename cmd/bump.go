package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/nextver/internal/semver"
)

// BumpCmd creates the bump command, which prints the successor of a release tag.
func BumpCmd() *cli.Command {
	return &cli.Command{
		Name:      "bump",
		Usage:     "Print the tag that follows <tag> at <level>",
		ArgsUsage: "<tag> <major|minor|patch>",
		Action:    bumpAction,
	}
}

func bumpAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("usage: nextver bump <tag> <major|minor|patch>", 2)
	}

	v, err := semver.Parse(c.Args().Get(0))
	if err != nil {
		return err
	}
	level, err := semver.ParseLevel(c.Args().Get(1))
	if err != nil {
		return err
	}
	next, err := v.Next(level)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, next.Tag())
	return nil
}
