// Package paths provides XDG-compliant path resolution for specpreview.
//
// Resolution order:
// 1. SPECPREVIEW_HOME (portable root) → $SPECPREVIEW_HOME/{config,state}
// 2. XDG env vars → $XDG_*_HOME/specpreview
// 3. Platform defaults → ~/.config/specpreview, ~/.local/state/specpreview
package paths

import (
	"os"
	"path/filepath"
)

const appName = "specpreview"

// base resolves one XDG base directory.
func base(portable, xdgVar string, fallback ...string) string {
	if home := os.Getenv("SPECPREVIEW_HOME"); home != "" {
		return filepath.Join(home, portable)
	}
	if dir := os.Getenv(xdgVar); dir != "" {
		return filepath.Join(dir, appName)
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(append(append([]string{homeDir}, fallback...), appName)...)
	}
	return ""
}

// ConfigDir returns the user-level configuration directory, searched for
// specpreview.yml after the working directory and the git root.
func ConfigDir() string {
	return base("config", "XDG_CONFIG_HOME", ".config")
}

// StateDir returns the state directory.
func StateDir() string {
	return base("state", "XDG_STATE_HOME", ".local", "state")
}

// LogDir returns the directory holding the daily log files.
func LogDir() string {
	state := StateDir()
	if state == "" {
		return ""
	}
	return filepath.Join(state, "logs")
}

// EnsureDirs creates the config and state directories if they don't exist.
func EnsureDirs() error {
	for _, dir := range []string{ConfigDir(), StateDir(), LogDir()} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
