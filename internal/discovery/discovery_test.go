package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, filepath.FromSlash(d)), 0o755))
	}
}

func relAll(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, len(paths))
	for i, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestFindRepositories(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root,
		"services/api/.git",
		"services/api/vendor/lib/.git",
		"services/web/.git",
		"libs/core/.git",
		"docs",
	)
	// A worktree or submodule checkout has a .git file instead of a directory.
	require.NoError(t, os.WriteFile(filepath.Join(root, "libs", "linked"), nil, 0o644))
	mkdirs(t, root, "libs/wt")
	require.NoError(t, os.WriteFile(filepath.Join(root, "libs", "wt", ".git"), []byte("gitdir: elsewhere\n"), 0o644))

	tests := []struct {
		name    string
		opts    Options
		want    []string
		wantErr bool
	}{
		{
			name: "all",
			opts: Options{Root: root},
			want: []string{"libs/core", "libs/wt", "services/api", "services/web"},
		},
		{
			name: "pattern",
			opts: Options{Root: root, Pattern: "services/*"},
			want: []string{"services/api", "services/web"},
		},
		{
			name: "exclude",
			opts: Options{Root: root, Exclude: []string{"libs/**"}},
			want: []string{"services/api", "services/web"},
		},
		{
			name:    "invalid pattern",
			opts:    Options{Root: root, Pattern: "[unterminated"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRepositories(context.Background(), tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, relAll(t, root, got))
		})
	}
}

func TestFindRepositories_RootIsRepository(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, ".git", "nested/.git")

	got, err := FindRepositories(context.Background(), Options{Root: root, Pattern: "nothing-matches"})
	require.NoError(t, err)
	assert.Equal(t, []string{root}, got)
}

func TestFindRepositories_Cancelled(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "a/.git")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FindRepositories(ctx, Options{Root: root})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFindRepositories_MissingRoot(t *testing.T) {
	_, err := FindRepositories(context.Background(), Options{Root: filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}
