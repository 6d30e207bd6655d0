package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"LEARNLOG_DIR", "LEARNLOG_DATA_DIR", "LEARNLOG_BACKEND", "LEARNLOG_RECENT_LIMIT", "LEARNLOG_LOG_LEVEL", "LEARNLOG_EDITOR"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("XDG_DATA_HOME", "/xdg")
	t.Setenv("EDITOR", "nano")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Backend)
	assert.Equal(t, 5, cfg.RecentLimit)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "nano", cfg.Editor)
	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, log.WarnLevel, cfg.Level())
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: /srv/learnlog
backend: sqlite
recent_limit: 3
log_level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/learnlog", cfg.DataDir)
	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, 3, cfg.RecentLimit)
	assert.Equal(t, log.DebugLevel, cfg.Level())
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: sqlite\n"), 0o644))

	t.Setenv("LEARNLOG_DIR", "/env/dir")
	t.Setenv("LEARNLOG_BACKEND", "memory")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/env/dir", cfg.DataDir)
	assert.Equal(t, "memory", cfg.Backend)
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	for name, body := range map[string]string{
		"backend":      "backend: redis\n",
		"recent limit": "recent_limit: 0\n",
		"log level":    "log_level: loud\n",
		"yaml":         "backend: [\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := &Config{DataDir: "/data", Backend: "sqlite", RecentLimit: 7, LogLevel: "info", Editor: "hx"}

	require.NoError(t, Save(path, want))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
