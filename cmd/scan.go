package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/nextver/internal/discovery"
)

// ScanCmd creates the scan command, which summarizes every repository below a directory.
func ScanCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "root",
			Usage: "Directory to search for repositories",
			Value: ".",
		},
		&cli.StringFlag{
			Name:    "pattern",
			Aliases: []string{"p"},
			Usage:   "Glob a repository path (relative to --root) must match, e.g. \"services/*\"",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Glob patterns of directories to skip (can be specified multiple times)",
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"j"},
			Usage:   "Number of repositories summarized concurrently (default: number of CPUs)",
		},
	}
	flags = append(flags, historyFlags()...)
	flags = append(flags, outputFlags()...)

	return &cli.Command{
		Name:      "scan",
		Usage:     "Propose the next release tag of every repository below a directory",
		ArgsUsage: "[root]",
		Flags:     flags,
		Action:    scanAction,
	}
}

func scanAction(c *cli.Context) error {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	root := c.String("root")
	if c.NArg() > 0 {
		root = c.Args().First()
	}

	repos, err := discovery.FindRepositories(c.Context, discovery.Options{
		Root:    root,
		Pattern: ctx.Config.Scan.Pattern,
		Exclude: ctx.Config.Scan.Exclude,
	})
	if err != nil {
		return fmt.Errorf("failed to discover repositories: %w", err)
	}
	if len(repos) == 0 {
		return cli.Exit(fmt.Sprintf("no repositories found under %s", root), 1)
	}

	workers := ctx.Config.ScanWorkers()
	ctx.Logger.Info("scanning repositories",
		slog.String("root", root),
		slog.Int("repositories", len(repos)),
		slog.Int("workers", workers))

	start := time.Now()
	results := ctx.Assembler().CollectAll(c.Context, repos, ctx.Open, ctx.TagPattern, workers)
	ctx.Logger.Info("scan finished", slog.Duration("elapsed", time.Since(start)))

	return writeReport(c, ctx, newReport(results))
}
