// Package testutil provides helpers for tests that need a real workspace on
// disk.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// IsolateEnv points every directory specpreview reads or writes outside the
// workspace at fresh temp dirs and detaches from any surrounding Neovim.
func IsolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SPECPREVIEW_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("NVIM", "")
	t.Setenv("SPECPREVIEW_LOG_LEVEL", "")
}

// NewWorkspace creates a workspace root holding a specs folder with the given
// files. It returns the root.
func NewWorkspace(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "specs")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, content := range files {
		WriteSpec(t, root, name, content)
	}
	return root
}

// WriteSpec writes one file into the workspace's specs folder.
func WriteSpec(t *testing.T, root, name, content string) string {
	t.Helper()
	path := filepath.Join(root, "specs", name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// InitGitRepo initializes a git repository in the given directory
func InitGitRepo(t *testing.T, dir string) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	RunGitCommand(t, dir, "init")
}

// RunGitCommand runs a git command in dir and fails the test on error.
func RunGitCommand(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}
