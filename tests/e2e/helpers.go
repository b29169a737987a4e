package main

import (
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/grovetools/tend/pkg/fs"
	"github.com/grovetools/tend/pkg/harness"
)

// findBinary finds the specpreview binary under test.
// The binary must be on PATH.
func findBinary() (string, error) {
	path, err := exec.LookPath("specpreview")
	if err != nil {
		return "", fmt.Errorf("could not find 'specpreview' binary in PATH. Build it into ./bin and add that directory to PATH")
	}
	return path, nil
}

// setupWorkspace creates a project with a specs folder holding files and
// stores its path under "workspace".
func setupWorkspace(ctx *harness.Context, name string, files map[string]string) (string, error) {
	root := ctx.NewDir(name)
	specsDir := filepath.Join(root, "specs")
	if err := fs.CreateDir(specsDir); err != nil {
		return "", fmt.Errorf("failed to create specs dir: %w", err)
	}
	for file, content := range files {
		if err := fs.WriteString(filepath.Join(specsDir, file), content); err != nil {
			return "", err
		}
	}
	ctx.Set("workspace", root)
	return root, nil
}

// run executes specpreview with args in dir.
func run(ctx *harness.Context, dir string, args ...string) (stdout, stderr string, exitCode int, err error) {
	bin, err := findBinary()
	if err != nil {
		return "", "", 0, err
	}
	cmd := ctx.Command(bin, args...).Dir(dir)
	result := cmd.Run()
	ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
	return result.Stdout, result.Stderr, result.ExitCode, nil
}
