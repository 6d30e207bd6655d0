package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stefanpenner/learnlog/pkg/config"
	gsync "github.com/stefanpenner/learnlog/pkg/sync"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Turn the data directory into a git repository for syncing",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Commit, pull and push the data directory",
	Args:  cobra.NoArgs,
	RunE:  runSync,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var (
	initRemote     string
	initSaveConfig bool
)

func init() {
	initCmd.Flags().StringVar(&initRemote, "remote", "", "git remote URL for origin")
	initCmd.Flags().BoolVar(&initSaveConfig, "save-config", false, "write the current settings to the config file")

	rootCmd.AddCommand(initCmd, syncCmd, configCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	repo := gsync.Repo{Dir: current.cfg.DataDir, Out: cmd.OutOrStdout()}
	if err := repo.Init(cmd.Context(), initRemote); err != nil {
		return err
	}
	if initSaveConfig {
		if err := config.Save(current.configPath, current.cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", current.configPath)
	}
	return nil
}

func runSync(cmd *cobra.Command, args []string) error {
	repo := gsync.Repo{Dir: current.cfg.DataDir, Out: cmd.OutOrStdout()}
	if !repo.IsRepo() {
		return gsync.ErrNotRepo
	}
	return repo.Sync(cmd.Context())
}

func runConfig(cmd *cobra.Command, args []string) error {
	if flagJSON {
		return outputJSON(cmd.OutOrStdout(), map[string]interface{}{
			"data_dir":     current.cfg.DataDir,
			"backend":      current.cfg.Backend,
			"recent_limit": current.cfg.RecentLimit,
			"log_level":    current.cfg.LogLevel,
			"editor":       current.cfg.Editor,
		})
	}
	out, err := yaml.Marshal(current.cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", current.configPath, out)
	return nil
}
