package store

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "learnlog"

// DefaultDataDir returns the OS-appropriate directory for learnlog's
// persisted snapshot.
//
//   - macOS:   ~/Library/Application Support/learnlog
//   - Linux:   $XDG_DATA_HOME/learnlog (fallback ~/.local/share/learnlog)
//   - Windows: %LOCALAPPDATA%\learnlog (fallback %APPDATA%\learnlog)
//
// LEARNLOG_DIR overrides all of these.
func DefaultDataDir() string {
	if dir := os.Getenv("LEARNLOG_DIR"); dir != "" {
		return dir
	}
	return defaultDataDirForOS(runtime.GOOS)
}

func defaultDataDirForOS(goos string) string {
	home, _ := os.UserHomeDir()

	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		for _, env := range []string{"LOCALAPPDATA", "APPDATA"} {
			if dir := os.Getenv(env); dir != "" {
				return filepath.Join(dir, appName)
			}
		}
		return filepath.Join(home, appName)
	default: // linux, freebsd, etc.
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return filepath.Join(dir, appName)
		}
		return filepath.Join(home, ".local", "share", appName)
	}
}
