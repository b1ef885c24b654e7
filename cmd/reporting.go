package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/nextver/internal/output"
	"github.com/masmgr/nextver/internal/release"
)

func newReport(results []release.Result) *output.Report {
	report := &output.Report{
		GeneratedAt: time.Now(),
		Entries:     make([]output.Entry, len(results)),
	}
	for i, r := range results {
		report.Entries[i] = output.Entry{RepoPath: r.RepoPath, Summary: r.Summary, Err: r.Err}
	}
	return report
}

// writeReport renders the report and fails when any repository failed.
func writeReport(c *cli.Context, ctx *CommandContext, report *output.Report) error {
	opts, err := ctx.OutputOptions(c)
	if err != nil {
		return err
	}
	if err := output.NewReportWriter(opts.Format).Write(report, opts); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if n := report.Failures(); n > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d repositories could not be summarized", n, len(report.Entries)), 1)
	}
	return nil
}
