// Package sync keeps the data directory in a git repository and
// synchronizes it with a remote.
package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// ErrNotRepo is returned when the data directory has no .git.
var ErrNotRepo = errors.New("not a git repository. Run 'learnlog init' first")

// ignored keeps backend scratch files out of history.
const ignored = `*.db-wal
*.db-shm
.*-*
`

// Repo runs git against a single data directory.
type Repo struct {
	Dir string
	Out io.Writer // progress and git output; io.Discard when nil
}

func (r Repo) out() io.Writer {
	if r.Out == nil {
		return io.Discard
	}
	return r.Out
}

func (r Repo) git(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", r.Dir}, args...)...)
	cmd.Stdout = r.out()
	cmd.Stderr = r.out()
	return cmd
}

// IsRepo reports whether Dir holds a git repository.
func (r Repo) IsRepo() bool {
	_, err := os.Stat(filepath.Join(r.Dir, ".git"))
	return err == nil
}

// Init creates the repository if needed and points origin at remote. An
// empty remote leaves any existing origin alone.
func (r Repo) Init(ctx context.Context, remote string) error {
	if err := os.MkdirAll(r.Dir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	if !r.IsRepo() {
		if err := r.git(ctx, "init").Run(); err != nil {
			return fmt.Errorf("git init: %w", err)
		}
		gitignore := filepath.Join(r.Dir, ".gitignore")
		if err := os.WriteFile(gitignore, []byte(ignored), 0644); err != nil {
			return fmt.Errorf("writing .gitignore: %w", err)
		}
		fmt.Fprintf(r.out(), "Initialized git repository in %s\n", r.Dir)
	}

	if remote == "" {
		fmt.Fprintln(r.out(), "No remote specified. Use --remote <url> to set one.")
		return nil
	}

	// Remove existing origin first (ignore error if it doesn't exist)
	_ = exec.CommandContext(ctx, "git", "-C", r.Dir, "remote", "remove", "origin").Run()

	if err := r.git(ctx, "remote", "add", "origin", remote).Run(); err != nil {
		return fmt.Errorf("setting remote: %w", err)
	}
	fmt.Fprintf(r.out(), "Remote set to: %s\n", remote)
	return nil
}

// Commit stages everything and commits if anything changed. It reports
// whether a commit was made.
func (r Repo) Commit(ctx context.Context, now time.Time) (bool, error) {
	if !r.IsRepo() {
		return false, ErrNotRepo
	}
	if err := r.git(ctx, "add", "-A").Run(); err != nil {
		return false, fmt.Errorf("staging changes: %w", err)
	}
	// diff --quiet exits 1 when there are staged changes
	if err := r.git(ctx, "diff", "--cached", "--quiet").Run(); err == nil {
		return false, nil
	}
	msg := "sync " + now.Format("2006-01-02 15:04:05")
	if err := r.git(ctx, "commit", "-m", msg).Run(); err != nil {
		return false, fmt.Errorf("committing: %w", err)
	}
	return true, nil
}

// Sync commits local changes, pulls with rebase (falling back to merge) and
// pushes.
func (r Repo) Sync(ctx context.Context) error {
	fmt.Fprintln(r.out(), "Staging changes...")
	if _, err := r.Commit(ctx, time.Now()); err != nil {
		return err
	}

	fmt.Fprintln(r.out(), "Pulling...")
	if err := r.git(ctx, "pull", "--rebase").Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprintln(r.out(), "Rebase failed, trying merge...")
		_ = r.git(ctx, "rebase", "--abort").Run()

		if err := r.git(ctx, "pull", "--no-rebase").Run(); err != nil {
			_ = r.git(ctx, "merge", "--abort").Run()
			return fmt.Errorf("sync failed: could not rebase or merge. Resolve conflicts manually")
		}
	}

	fmt.Fprintln(r.out(), "Pushing...")
	if err := r.git(ctx, "push").Run(); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}

	fmt.Fprintln(r.out(), "Sync complete.")
	return nil
}
