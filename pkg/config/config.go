// Package config loads learnlog's settings from a YAML file, LEARNLOG_*
// environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/stefanpenner/learnlog/pkg/course"
	"github.com/stefanpenner/learnlog/pkg/store"
)

// Config is the resolved application configuration.
type Config struct {
	DataDir     string `mapstructure:"data_dir" yaml:"data_dir"`
	Backend     string `mapstructure:"backend" yaml:"backend"`
	RecentLimit int    `mapstructure:"recent_limit" yaml:"recent_limit"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`
	Editor      string `mapstructure:"editor" yaml:"editor"`
}

// DefaultPath returns ~/.config/learnlog/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "learnlog", "config.yaml")
}

func defaultEditor() string {
	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}
	return "vim"
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("learnlog")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// LEARNLOG_DIR is the short form users already know.
	_ = v.BindEnv("data_dir", "LEARNLOG_DIR", "LEARNLOG_DATA_DIR")

	v.SetDefault("data_dir", store.DefaultDataDir())
	v.SetDefault("backend", store.BackendFile)
	v.SetDefault("recent_limit", course.DefaultRecentLimit)
	v.SetDefault("log_level", "warn")
	v.SetDefault("editor", defaultEditor())
	return v
}

// Load reads the config file at path. A missing file is not an error; the
// environment and defaults still apply.
func Load(path string) (*Config, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values viper cannot type-check on its own.
func (c *Config) Validate() error {
	known := false
	for _, b := range store.Backends {
		if c.Backend == b {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("unknown backend %q (use %s)", c.Backend, strings.Join(store.Backends, ", "))
	}
	if c.RecentLimit <= 0 {
		return fmt.Errorf("recent_limit must be positive, got %d", c.RecentLimit)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.DataDir == "" {
		return errors.New("data_dir must not be empty")
	}
	return nil
}

// Level returns the parsed log level, falling back to warn.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}

// Save writes cfg to path as YAML, creating parent directories.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.Set("data_dir", cfg.DataDir)
	v.Set("backend", cfg.Backend)
	v.Set("recent_limit", cfg.RecentLimit)
	v.Set("log_level", cfg.LogLevel)
	v.Set("editor", cfg.Editor)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}
