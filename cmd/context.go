package cmd

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/nextver/config"
	"github.com/masmgr/nextver/internal/classify"
	"github.com/masmgr/nextver/internal/git"
	"github.com/masmgr/nextver/internal/output"
	"github.com/masmgr/nextver/internal/release"
)

// CommandContext holds common state for command execution.
// It encapsulates the shared setup logic across the reporting commands.
type CommandContext struct {
	Config     *config.Config
	Logger     *slog.Logger
	Classifier *classify.Classifier
	TagPattern *regexp.Regexp
	Backend    git.Backend
	Started    time.Time
}

// NewCommandContext loads configuration and builds the classifier and tag filter.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	logger := slog.Default()
	classifier, err := cfg.Classifier()
	if err != nil {
		return nil, err
	}
	pattern, err := cfg.TagPattern()
	if err != nil {
		return nil, err
	}
	backend, err := git.ParseBackend(cfg.Git.Backend)
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Config:     cfg,
		Logger:     logger,
		Classifier: classifier.WithLogger(logger),
		TagPattern: pattern,
		Backend:    backend,
		Started:    time.Now(),
	}, nil
}

// Assembler returns a summary assembler using the configured classifier.
func (ctx *CommandContext) Assembler() *release.Assembler {
	return release.NewAssembler(ctx.Classifier, ctx.Logger)
}

// Open opens the repository at path with the configured backend.
func (ctx *CommandContext) Open(path string) (git.History, error) {
	repo, err := git.Open(git.OpenOptions{
		RepoPath: path,
		Backend:  ctx.Backend,
		GitPath:  ctx.Config.Git.GitPath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %s: %w", path, err)
	}
	return repo, nil
}

// OutputOptions creates OutputOptions from CLI flags.
func (ctx *CommandContext) OutputOptions(c *cli.Context) (output.OutputOptions, error) {
	format, err := getOutputFormat(c.String("format"))
	if err != nil {
		return output.OutputOptions{}, err
	}
	return output.OutputOptions{
		Format:     format,
		OutputPath: c.String("output"),
		Top:        c.Int("top"),
		Explain:    c.Bool("explain"),
		Classifier: ctx.Classifier,
	}, nil
}
