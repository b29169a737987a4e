package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/specpreview/config"
	"github.com/grovetools/specpreview/errors"
	"github.com/grovetools/specpreview/testutil"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SilenceUsage = true
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestPrintText(t *testing.T) {
	testutil.IsolateEnv(t)
	root := testutil.NewWorkspace(t, map[string]string{
		"a.md": "alpha",
		"b.md": "beta",
	})
	require.NoError(t, os.Mkdir(filepath.Join(root, "specs", "nested"), 0o755))

	out, err := execute(t, NewPrintCmd(), "-w", root)
	require.NoError(t, err)
	assert.Equal(t, "SPECS:\n----\n\nFile: a.md\nalpha\n----\n\nFile: b.md\nbeta\n----\n", out)
}

func TestPrintHTML(t *testing.T) {
	testutil.IsolateEnv(t)
	root := testutil.NewWorkspace(t, map[string]string{"a.md": "<x & 'y'>"})

	out, err := execute(t, NewPrintCmd(), "-w", root, "--html")
	require.NoError(t, err)
	assert.Contains(t, out, "&lt;x &amp; &apos;y&apos;&gt;")
	assert.Contains(t, out, "<pre>")
}

func TestPrintMissingFolder(t *testing.T) {
	testutil.IsolateEnv(t)
	root := t.TempDir()

	out, err := execute(t, NewPrintCmd(), "-w", root, "--html")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSpecsFolderMissing, errors.GetCode(err))
	assert.Contains(t, out, `<div class="error">No &quot;specs&quot; folder found in workspace</div>`)
}

func TestPrintFolderAndExcludeFlags(t *testing.T) {
	testutil.IsolateEnv(t)
	root := t.TempDir()
	dir := filepath.Join(root, "docs", "specs")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("A"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".a.md.swp"), []byte("junk"), 0o644))

	out, err := execute(t, NewPrintCmd(), "-w", root, "--folder", "docs/specs", "--exclude", "*.swp")
	require.NoError(t, err)
	assert.Equal(t, "SPECS:\n----\n\nFile: a.md\nA\n----\n", out)
}

func TestPrintRejectsInvalidExcludePattern(t *testing.T) {
	testutil.IsolateEnv(t)
	root := testutil.NewWorkspace(t, map[string]string{"a.md": "A"})

	out, err := execute(t, NewPrintCmd(), "-w", root, "--exclude", "[")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetCode(err))
	assert.Empty(t, out)
}

func TestPrintRejectsEscapingFolder(t *testing.T) {
	testutil.IsolateEnv(t)
	_, err := execute(t, NewPrintCmd(), "-w", t.TempDir(), "--folder", "../outside")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetCode(err))
}

func TestPrintUsesConfigFile(t *testing.T) {
	testutil.IsolateEnv(t)
	root := testutil.NewWorkspace(t, nil)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "notes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes", "n.txt"), []byte("note"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "specpreview.yml"), []byte("folder: notes\n"), 0o644))
	chdir(t, root)

	out, err := execute(t, NewPrintCmd(), "-w", root)
	require.NoError(t, err)
	assert.Contains(t, out, "File: n.txt\nnote")
}

func TestPrintUnreachableNvim(t *testing.T) {
	testutil.IsolateEnv(t)
	root := testutil.NewWorkspace(t, map[string]string{"a.md": "x"})

	_, err := execute(t, NewPrintCmd(), "-w", root, "--nvim", filepath.Join(t.TempDir(), "missing.sock"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeEditorUnavailable, errors.GetCode(err))
}

func TestPrintIgnoresUnreachableNvimEnv(t *testing.T) {
	testutil.IsolateEnv(t)
	t.Setenv("NVIM", filepath.Join(t.TempDir(), "missing.sock"))
	root := testutil.NewWorkspace(t, map[string]string{"a.md": "x"})

	out, err := execute(t, NewPrintCmd(), "-w", root)
	require.NoError(t, err)
	assert.Contains(t, out, "File: a.md")
}

func TestResolveWorkspace(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		ws := resolveWorkspace("/tmp/project", &config.Config{Workspace: "/elsewhere"})
		assert.Equal(t, []string{"/tmp/project"}, ws.Roots)
	})

	t.Run("config relative to config file", func(t *testing.T) {
		ws := resolveWorkspace("", &config.Config{Workspace: "sub", Path: "/repo/specpreview.yml"})
		assert.Equal(t, []string{"/repo/sub"}, ws.Roots)
	})

	t.Run("git root", func(t *testing.T) {
		root := t.TempDir()
		testutil.InitGitRepo(t, root)
		nested := filepath.Join(root, "a", "b")
		require.NoError(t, os.MkdirAll(nested, 0o755))
		chdir(t, nested)

		ws := resolveWorkspace("", &config.Config{})
		got, ok := ws.Root()
		require.True(t, ok)
		want, err := filepath.EvalSymlinks(root)
		require.NoError(t, err)
		gotResolved, err := filepath.EvalSymlinks(got)
		require.NoError(t, err)
		assert.Equal(t, want, gotResolved)
	})
}

func TestConfigCommand(t *testing.T) {
	testutil.IsolateEnv(t)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "specpreview.yml"),
		[]byte("folder: design\nserver:\n  listen: 127.0.0.1:9000\n"), 0o644))
	chdir(t, root)

	out, err := execute(t, NewConfigCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "# Source: ")
	assert.Contains(t, out, "folder: design")
	assert.Contains(t, out, "listen: 127.0.0.1:9000")

	out, err = execute(t, NewConfigCmd(), "schema")
	require.NoError(t, err)
	assert.Contains(t, out, `"nvim_address"`)

	out, err = execute(t, NewConfigCmd(), "path")
	require.NoError(t, err)
	assert.Contains(t, out, "specpreview.yml")
}

func TestLogsList(t *testing.T) {
	testutil.IsolateEnv(t)

	out, err := execute(t, NewLogsCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "No log files")

	dir := filepath.Join(os.Getenv("XDG_STATE_HOME"), "specpreview", "logs")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "serve-2026-01-31.log"), []byte("[INFO] started\n"), 0o644))

	out, err = execute(t, NewLogsCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "serve-2026-01-31")

	out, err = execute(t, NewLogsCmd(), "serve", "--date", "2026-01-31")
	require.NoError(t, err)
	assert.Equal(t, "[INFO] started\n", out)

	_, err = execute(t, NewLogsCmd(), "serve", "--date", "yesterday")
	assert.Error(t, err)

	_, err = execute(t, NewLogsCmd(), "missing", "--date", "2026-01-31")
	assert.Error(t, err)
}
