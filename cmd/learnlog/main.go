// Package main implements the learnlog CLI and dashboard.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/stefanpenner/learnlog/pkg/config"
	"github.com/stefanpenner/learnlog/pkg/store"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var (
	flagDir     string
	flagBackend string
	flagConfig  string
	flagJSON    bool
)

var rootCmd = &cobra.Command{
	Use:               "learnlog",
	Short:             "LearnLog - track courses, checkpoints and due dates",
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
	RunE:              runDashboard,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "data directory (overrides config and LEARNLOG_DIR)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: file, sqlite or memory")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.config/learnlog/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "print machine-readable JSON")
}

// app is the state shared by every command once setup has run.
type app struct {
	cfg        *config.Config
	configPath string
	logger     *log.Logger
	backend    store.Backend
	store      *store.CourseStore
}

var current *app

func setup(cmd *cobra.Command, args []string) error {
	path := flagConfig
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if flagDir != "" {
		cfg.DataDir = flagDir
	}
	if flagBackend != "" {
		cfg.Backend = flagBackend
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:  cfg.Level(),
		Prefix: "learnlog",
	})

	backend, err := store.Open(cfg.Backend, cfg.DataDir)
	if err != nil {
		return err
	}
	s := store.NewCourseStore(backend,
		store.WithLogger(logger),
		store.WithRecentLimit(cfg.RecentLimit),
	)
	if err := s.Load(); err != nil {
		backend.Close()
		return err
	}
	logger.Debug("opened store", "dir", cfg.DataDir, "backend", cfg.Backend)

	current = &app{
		cfg:        cfg,
		configPath: path,
		logger:     logger,
		backend:    backend,
		store:      s,
	}
	return nil
}

func teardown(cmd *cobra.Command, args []string) {
	if current == nil {
		return
	}
	if err := current.backend.Close(); err != nil {
		current.logger.Warn("closing backend", "err", err)
	}
	current = nil
}
