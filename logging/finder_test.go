package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLog(t *testing.T, dir, name, content string, mod time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(path, mod, mod))
	return path
}

func TestFindLatestLogFile(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	older := writeLog(t, dir, "serve-2026-02-28.log", "old\n", base.Add(-24*time.Hour))
	writeLog(t, dir, "serve-2026-03-01.log", "", base)
	writeLog(t, dir, "panel-2026-03-02.log", "other\n", base.Add(24*time.Hour))

	path, err := FindLatestLogFile(dir, "serve-")
	require.NoError(t, err)
	assert.Equal(t, older, path, "non-empty files win over newer empty ones")

	_, err = FindLatestLogFile(dir, "watch-")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = FindLatestLogFile(filepath.Join(dir, "missing"), "serve-")
	assert.Error(t, err)
}

func TestFindLogFile(t *testing.T) {
	t.Setenv("SPECPREVIEW_HOME", "")
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	dir := LogDir()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	day := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	want := writeLog(t, dir, "serve-2026-01-31.log", "x\n", day)

	path, err := FindLogFile("serve", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, want, path)

	path, err = FindLogFile("serve", day)
	require.NoError(t, err)
	assert.Equal(t, want, path)

	_, err = FindLogFile("serve", day.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFindLogFileConfiguredPath(t *testing.T) {
	t.Setenv("SPECPREVIEW_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	project := t.TempDir()
	t.Chdir(project)

	target := filepath.Join(project, "preview.log")
	cfg := "logging:\n  file:\n    path: " + target + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(project, "specpreview.yml"), []byte(cfg), 0o644))

	path, err := FindLogFile("serve", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, target, path)
}
