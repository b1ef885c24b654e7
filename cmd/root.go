package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/nextver/config"
	"github.com/masmgr/nextver/internal/output"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "nextver",
		Usage:   "Propose the next release tag of a Git repository from its commit log",
		Version: "1.0.0",
		Commands: []*cli.Command{
			SummaryCmd(),
			ScanCmd(),
			ClassifyCmd(),
			BumpCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file (.json, .yaml or .yml)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "warn",
			},
		},
		Before: func(c *cli.Context) error {
			slog.SetDefault(newLogger(c.App.ErrWriter, levelFromString(c.String("log-level"))))
			return nil
		},
	}
}

// Output flags shared by the reporting commands.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, yaml, csv, markdown, ci)",
			Value:   "console",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.IntFlag{
			Name:    "top",
			Aliases: []string{"n"},
			Usage:   "Number of commits to list per repository (0 lists all)",
		},
		&cli.BoolFlag{
			Name:  "explain",
			Usage: "Show the level and matched text of every commit",
		},
	}
}

// Flags selecting how history and tags are read.
func historyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "backend",
			Usage: "History backend (gitcli, native)",
		},
		&cli.StringFlag{
			Name:  "tag-pattern",
			Usage: "Regex a tag name must match to count as a release",
		},
	}
}

// getOutputFormat parses the output format flag.
func getOutputFormat(s string) (output.OutputFormat, error) {
	if s == "ndjson" {
		return output.FormatCI, nil
	}
	return output.ParseFormat(s)
}

// loadConfig loads configuration from file or defaults and applies flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if c.IsSet("tag-pattern") {
		cfg.Tags.Pattern = c.String("tag-pattern")
	}
	if c.IsSet("backend") {
		cfg.Git.Backend = c.String("backend")
	}
	if c.IsSet("pattern") {
		cfg.Scan.Pattern = c.String("pattern")
	}
	if c.IsSet("exclude") {
		cfg.Scan.Exclude = c.StringSlice("exclude")
	}
	if c.IsSet("workers") {
		cfg.Scan.Workers = c.Int("workers")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Run executes the CLI application. An interrupt cancels running git commands.
func Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := App().RunContext(ctx, os.Args); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
