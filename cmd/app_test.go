package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/nextver/internal/git/gittest"
	"github.com/masmgr/nextver/internal/output"
)

// runApp runs the CLI with args and returns what it wrote to stdout and stderr.
func runApp(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := App()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"nextver"}, args...))
	return stdout.String(), stderr.String(), err
}

func emptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nextver.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBumpCommand(t *testing.T) {
	tests := []struct {
		args    []string
		want    string
		wantErr bool
	}{
		{args: []string{"release-1.2.3", "patch"}, want: "release-1.2.4\n"},
		{args: []string{"release-1.2.3", "MINOR"}, want: "release-1.3.0\n"},
		{args: []string{"my-app-1.2.3", "major"}, want: "my-app-2.0.0\n"},
		{args: []string{"v1.2.3", "patch"}, wantErr: true},
		{args: []string{"release-1.2.3", "none"}, wantErr: true},
		{args: []string{"release-1.2.3"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, _, err := runApp(t, "", append([]string{"bump"}, tt.args...)...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("bump %v error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if out != tt.want {
				t.Errorf("bump %v = %q, want %q", tt.args, out, tt.want)
			}
		})
	}
}

const classifyInput = `commit 1111111111111111111111111111111111111111
Author: Alice <alice@example.com>
Date:   Tue Jan 2 15:04:05 2024 +0000

    fix: handle empty input

commit 2222222222222222222222222222222222222222
Author: Bob <bob@example.com>
Date:   Tue Jan 2 14:04:05 2024 +0000

    feat(api): add endpoint
`

func TestClassifyCommand(t *testing.T) {
	out, _, err := runApp(t, classifyInput, "--config", emptyConfig(t), "classify", "--explain")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	for _, want := range []string{"11111111", "patch", "feat(api): add endpoint", "2 commits, severity: minor"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestClassifyCommand_EmptyInput(t *testing.T) {
	if _, _, err := runApp(t, "", "--config", emptyConfig(t), "classify"); err == nil {
		t.Error("expected an error for empty input")
	}
}

func TestSummaryCommand(t *testing.T) {
	r := gittest.NewRepo(t)
	base := r.Commit("chore: initial")
	r.Tag("release-1.0.0", base)
	r.Tag("nightly", base)
	r.Commit("feat: add widget")
	r.Commit("fix: widget color")

	outPath := filepath.Join(t.TempDir(), "summary.json")
	_, _, err := runApp(t, "",
		"--config", emptyConfig(t),
		"summary", "--repo", r.Dir, "--backend", "native", "--format", "json", "--output", outPath)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	var report output.JSONReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, data)
	}
	if len(report.Repositories) != 1 {
		t.Fatalf("repositories = %d", len(report.Repositories))
	}
	got := report.Repositories[0]
	if got.Tag != "release-1.1.0" || got.Baseline != "release-1.0.0" || len(got.Commits) != 2 {
		t.Errorf("unexpected summary: %+v", got)
	}
}

func TestSummaryCommand_NoBaseline(t *testing.T) {
	r := gittest.NewRepo(t)
	r.Commit("chore: initial")

	_, _, err := runApp(t, "", "--config", emptyConfig(t), "summary", "--repo", r.Dir, "--backend", "native")
	if err == nil || !strings.Contains(err.Error(), "no baseline tag") {
		t.Errorf("summary error = %v, want a missing baseline error", err)
	}
}

func TestScanCommand(t *testing.T) {
	root := t.TempDir()
	app := gittest.NewRepoAt(t, filepath.Join(root, "app"))
	h := app.Commit("chore: initial")
	app.Tag("app-0.1.0", h)

	svc := gittest.NewRepoAt(t, filepath.Join(root, "svc"))
	svc.Commit("chore: initial")

	outPath := filepath.Join(t.TempDir(), "scan.ndjson")
	_, _, err := runApp(t, "",
		"--config", emptyConfig(t),
		"scan", "--root", root, "--backend", "native", "--workers", "2", "--format", "ci", "--output", outPath)

	var exitErr cli.ExitCoder
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
		t.Fatalf("scan error = %v, want exit code 1 for the untagged repository", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), data)
	}
	var summary output.CISummary
	if err := json.Unmarshal([]byte(lines[0]), &summary); err != nil {
		t.Fatal(err)
	}
	if summary.Repositories != 2 || summary.Failed != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if !strings.Contains(lines[1], `"tag":"app-0.1.0"`) {
		t.Errorf("first repository line = %s", lines[1])
	}
}
