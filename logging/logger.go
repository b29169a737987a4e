package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/grovetools/specpreview/config"
	"github.com/grovetools/specpreview/pkg/paths"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
)

// NewLogger returns the logger for component, creating it on first use from
// the "logging" section of the nearest specpreview.yml. Every entry carries a
// "component" field.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if entry, ok := loggers[component]; ok {
		return entry
	}

	logCfg := loadConfig()
	logger := logrus.New()
	logger.SetLevel(levelFor(logCfg))
	logger.SetReportCaller(os.Getenv("SPECPREVIEW_LOG_CALLER") == "true" || logCfg.ReportCaller)
	logger.SetFormatter(formatterFor(logCfg.Format))

	var writers []io.Writer
	if f := openLogFile(logger, component, logCfg.File); f != nil {
		writers = append(writers, f)
	}
	if shouldLogToStderr(logCfg.Format.StructuredToStderr, logger.GetLevel()) {
		writers = append(writers, os.Stderr)
	}
	switch len(writers) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}

	entry := logger.WithField(componentKey, component)
	loggers[component] = entry
	return entry
}

func loadConfig() Config {
	var logCfg Config
	cfg, err := config.LoadDefault()
	if err != nil {
		return logCfg
	}
	if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
		logrus.Warnf("Failed to parse 'logging' config: %v", err)
	}
	return logCfg
}

// levelFor prefers SPECPREVIEW_LOG_LEVEL over the configured level. Unknown
// names fall back to info.
func levelFor(logCfg Config) logrus.Level {
	name := os.Getenv("SPECPREVIEW_LOG_LEVEL")
	if name == "" {
		name = logCfg.Level
	}
	if name == "" {
		return logrus.InfoLevel
	}
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func formatterFor(format FormatConfig) logrus.Formatter {
	switch format.Preset {
	case "json":
		return &logrus.JSONFormatter{}
	case "simple":
		return &TextFormatter{Config: FormatConfig{DisableTimestamp: true, DisableComponent: true}}
	default:
		return &TextFormatter{Config: format}
	}
}

// openLogFile opens the configured file or the component's file for today.
// Failures for the default location are silent since the state directory
// may be read-only.
func openLogFile(logger *logrus.Logger, component string, sink FileSinkConfig) *os.File {
	if sink.Disabled {
		return nil
	}
	path := LogFilePath(component, time.Now())
	if sink.Path != "" {
		path = paths.Expand(sink.Path)
	}
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		if sink.Path != "" {
			logger.Warnf("Failed to create log directory %s: %v", filepath.Dir(path), err)
		}
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		if sink.Path != "" {
			logger.Warnf("Failed to open log file %s: %v", path, err)
		}
		return nil
	}
	return f
}

// shouldLogToStderr decides the stderr sink. In "auto" mode structured logs go
// to stderr when debugging or when stderr is not an interactive terminal.
func shouldLogToStderr(mode string, level logrus.Level) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		isDebug := os.Getenv("SPECPREVIEW_DEBUG") == "1" || level >= logrus.DebugLevel
		isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		return isDebug || !isInteractive
	}
}

// LogDir returns the directory holding the default per-day log files.
func LogDir() string {
	return paths.LogDir()
}

// LogFilePath returns the default log file for a component on the given day.
func LogFilePath(component string, day time.Time) string {
	dir := LogDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%s.log", component, day.Format("2006-01-02")))
}
