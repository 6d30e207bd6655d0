package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/stefanpenner/learnlog/pkg/store"
	gsync "github.com/stefanpenner/learnlog/pkg/sync"
	"github.com/stefanpenner/learnlog/pkg/tui"
)

const debugLogName = "debug.log"

func runDashboard(cmd *cobra.Command, args []string) error {
	a := current

	// The alt screen owns stderr while the dashboard runs.
	a.logger.SetOutput(io.Discard)
	if a.cfg.LogLevel == "debug" {
		f, err := os.OpenFile(filepath.Join(a.cfg.DataDir, debugLogName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			defer f.Close()
			a.logger.SetOutput(f)
		}
	}

	opts := tui.Options{
		DataDir:     a.cfg.DataDir,
		Editor:      a.cfg.Editor,
		RecentLimit: a.cfg.RecentLimit,
	}
	repo := gsync.Repo{Dir: a.cfg.DataDir}
	if repo.IsRepo() {
		opts.Sync = func(ctx context.Context) error {
			return repo.Sync(ctx)
		}
	}

	p := tea.NewProgram(tui.NewModel(a.store, opts), tea.WithAltScreen())

	if a.cfg.Backend != store.BackendMemory {
		cleanup, err := tui.StartWatcher(a.cfg.DataDir, store.IsDataFile, p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: file watcher failed: %v\n", err)
		} else {
			defer cleanup()
		}
	}

	_, err := p.Run()
	return err
}
