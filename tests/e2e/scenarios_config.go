package main

import (
	"path/filepath"

	"github.com/grovetools/tend/pkg/assert"
	"github.com/grovetools/tend/pkg/fs"
	"github.com/grovetools/tend/pkg/harness"
)

// ConfigShowScenario checks that the effective configuration is printed.
func ConfigShowScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "specpreview-config-show",
		Description: "Prints the project config merged with defaults.",
		Tags:        []string{"config"},
		Steps: []harness.Step{
			harness.NewStep("Show project config", func(ctx *harness.Context) error {
				root := ctx.NewDir("config-project")
				if err := fs.WriteString(filepath.Join(root, "specpreview.yml"), "server:\n  listen: 127.0.0.1:9100\n"); err != nil {
					return err
				}
				stdout, _, code, err := run(ctx, root, "config")
				if err != nil {
					return err
				}
				if err := assert.Equal(0, code, "config should succeed"); err != nil {
					return err
				}
				if err := assert.Contains(stdout, "listen: 127.0.0.1:9100", "configured listen address"); err != nil {
					return err
				}
				return assert.Contains(stdout, "folder: specs", "default folder")
			}),
		},
	}
}

// ConfigGlobalScenario checks the XDG config fallback.
func ConfigGlobalScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "specpreview-config-global",
		Description: "Falls back to ~/.config/specpreview/specpreview.yml.",
		Tags:        []string{"config"},
		Steps: []harness.Step{
			harness.NewStep("Use global config", func(ctx *harness.Context) error {
				globalDir := filepath.Join(ctx.HomeDir(), ".config", "specpreview")
				if err := fs.CreateDir(globalDir); err != nil {
					return err
				}
				if err := fs.WriteString(filepath.Join(globalDir, "specpreview.yml"), "folder: notes\n"); err != nil {
					return err
				}
				stdout, _, code, err := run(ctx, ctx.NewDir("no-config"), "config")
				if err != nil {
					return err
				}
				if err := assert.Equal(0, code, "config should succeed"); err != nil {
					return err
				}
				return assert.Contains(stdout, "folder: notes", "global config applies")
			}),
		},
	}
}

// ConfigInvalidScenario checks that unknown keys are rejected.
func ConfigInvalidScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "specpreview-config-invalid",
		Description: "Rejects a config that fails schema validation.",
		Tags:        []string{"config", "errors"},
		Steps: []harness.Step{
			harness.NewStep("Load invalid config", func(ctx *harness.Context) error {
				root := ctx.NewDir("bad-config")
				if err := fs.WriteString(filepath.Join(root, "specpreview.yml"), "server:\n  port: 80\n"); err != nil {
					return err
				}
				_, stderr, code, err := run(ctx, root, "config")
				if err != nil {
					return err
				}
				if err := assert.Equal(1, code, "config should fail"); err != nil {
					return err
				}
				return assert.Contains(stderr, "schema validation failed", "validation error is reported")
			}),
		},
	}
}
