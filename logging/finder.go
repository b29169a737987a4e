package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/grovetools/specpreview/config"
	"github.com/grovetools/specpreview/pkg/paths"
)

// FindLogFile resolves the file holding a component's log. A configured
// logging.file.path is shared by every component and wins. Otherwise a zero
// day selects the most recent non-empty log of the component and any other
// day selects that day's file.
func FindLogFile(component string, day time.Time) (string, error) {
	if cfg, err := config.LoadDefault(); err == nil {
		var logCfg Config
		if err := cfg.UnmarshalExtension("logging", &logCfg); err == nil && logCfg.File.Path != "" {
			return paths.Expand(logCfg.File.Path), nil
		}
	}

	if !day.IsZero() {
		path := LogFilePath(component, day)
		if _, err := os.Stat(path); err != nil {
			return "", err
		}
		return path, nil
	}
	return FindLatestLogFile(LogDir(), component+"-")
}

// FindLatestLogFile finds the most recently modified log file in dir whose
// name starts with prefix, preferring files with content over empty ones.
func FindLatestLogFile(dir, prefix string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("could not read log directory %s: %w", dir, err)
	}

	var latest, latestNonEmpty os.FileInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || filepath.Ext(name) != ".log" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if latest == nil || info.ModTime().After(latest.ModTime()) {
			latest = info
		}
		if info.Size() > 0 && (latestNonEmpty == nil || info.ModTime().After(latestNonEmpty.ModTime())) {
			latestNonEmpty = info
		}
	}

	switch {
	case latestNonEmpty != nil:
		return filepath.Join(dir, latestNonEmpty.Name()), nil
	case latest != nil:
		return filepath.Join(dir, latest.Name()), nil
	default:
		return "", fmt.Errorf("no %s*.log files found in %s: %w", prefix, dir, os.ErrNotExist)
	}
}
