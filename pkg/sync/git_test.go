package sync

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	t.Setenv("GIT_AUTHOR_NAME", "learnlog")
	t.Setenv("GIT_AUTHOR_EMAIL", "learnlog@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "learnlog")
	t.Setenv("GIT_COMMITTER_EMAIL", "learnlog@example.com")
}

func TestInitCreatesRepo(t *testing.T) {
	requireGit(t)
	var out bytes.Buffer
	r := Repo{Dir: filepath.Join(t.TempDir(), "data"), Out: &out}

	require.NoError(t, r.Init(context.Background(), ""))
	assert.True(t, r.IsRepo())
	assert.FileExists(t, filepath.Join(r.Dir, ".gitignore"))
	assert.Contains(t, out.String(), "No remote specified")

	// second init is a no-op apart from the remote
	require.NoError(t, r.Init(context.Background(), "https://example.com/learnlog.git"))
	remote, err := exec.Command("git", "-C", r.Dir, "remote", "get-url", "origin").Output()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/learnlog.git\n", string(remote))
}

func TestCommit(t *testing.T) {
	requireGit(t)
	r := Repo{Dir: t.TempDir()}
	ctx := context.Background()
	require.NoError(t, r.Init(ctx, ""))

	require.NoError(t, os.WriteFile(filepath.Join(r.Dir, "courses.json"), []byte("[]"), 0644))
	committed, err := r.Commit(ctx, time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, committed)

	committed, err = r.Commit(ctx, time.Now())
	require.NoError(t, err)
	assert.False(t, committed)
}

func TestSyncRequiresRepo(t *testing.T) {
	r := Repo{Dir: t.TempDir()}
	assert.ErrorIs(t, r.Sync(context.Background()), ErrNotRepo)
}
