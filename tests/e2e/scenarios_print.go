package main

import (
	"fmt"
	"path/filepath"

	"github.com/grovetools/tend/pkg/assert"
	"github.com/grovetools/tend/pkg/fs"
	"github.com/grovetools/tend/pkg/harness"
)

// PrintAggregationScenario checks the aggregated document for a plain specs folder.
func PrintAggregationScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "specpreview-print-aggregation",
		Description: "Concatenates the direct children of specs/ in listing order and skips subfolders.",
		Tags:        []string{"print"},
		Steps: []harness.Step{
			{
				Name: "Create workspace",
				Func: func(ctx *harness.Context) error {
					root, err := setupWorkspace(ctx, "project", map[string]string{
						"a.md": "alpha",
						"b.md": "beta",
					})
					if err != nil {
						return err
					}
					return fs.WriteString(filepath.Join(root, "specs", "nested", "c.md"), "hidden")
				},
			},
			{
				Name: "Print text",
				Func: func(ctx *harness.Context) error {
					root := ctx.GetString("workspace")
					stdout, _, code, err := run(ctx, root, "print")
					if err != nil {
						return err
					}
					if err := assert.Equal(0, code, "print should succeed"); err != nil {
						return err
					}
					want := "SPECS:\n----\n\nFile: a.md\nalpha\n----\n\nFile: b.md\nbeta\n----\n"
					if err := assert.Equal(want, stdout, "aggregated document"); err != nil {
						return err
					}
					return assert.NotContains(stdout, "hidden", "subfolders are not aggregated")
				},
			},
			{
				Name: "Print HTML",
				Func: func(ctx *harness.Context) error {
					root := ctx.GetString("workspace")
					if err := fs.WriteString(filepath.Join(root, "specs", "b.md"), `<b>"x" & 'y'</b>`); err != nil {
						return err
					}
					stdout, _, code, err := run(ctx, root, "print", "--html")
					if err != nil {
						return err
					}
					if err := assert.Equal(0, code, "print --html should succeed"); err != nil {
						return err
					}
					return assert.Contains(stdout, "&lt;b&gt;&quot;x&quot; &amp; &apos;y&apos;&lt;/b&gt;", "content is escaped")
				},
			},
		},
	}
}

// PrintMissingFolderScenario checks the error path when specs/ does not exist.
func PrintMissingFolderScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "specpreview-print-missing-folder",
		Description: "Reports a missing specs folder and exits non-zero.",
		Tags:        []string{"print", "errors"},
		Steps: []harness.Step{
			harness.NewStep("Print without specs folder", func(ctx *harness.Context) error {
				root := ctx.NewDir("empty-project")
				_, stderr, code, err := run(ctx, root, "print", "-w", root)
				if err != nil {
					return err
				}
				if err := assert.Equal(1, code, "print should fail"); err != nil {
					return err
				}
				return assert.Contains(stderr, `No "specs" folder found in workspace`, "error message")
			}),
		},
	}
}

// PrintConfiguredFolderScenario checks folder and exclude settings from specpreview.yml.
func PrintConfiguredFolderScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "specpreview-print-config-folder",
		Description: "Uses the folder and exclude patterns from specpreview.yml.",
		Tags:        []string{"print", "config"},
		Steps: []harness.Step{
			harness.NewStep("Print configured folder", func(ctx *harness.Context) error {
				root := ctx.NewDir("configured")
				docs := filepath.Join(root, "docs", "design")
				if err := fs.CreateDir(docs); err != nil {
					return err
				}
				if err := fs.WriteString(filepath.Join(docs, "one.txt"), "first"); err != nil {
					return err
				}
				if err := fs.WriteString(filepath.Join(docs, "one.txt~"), "backup"); err != nil {
					return err
				}
				cfg := "workspace: .\nfolder: docs/design\nexclude:\n  - \"*~\"\n"
				if err := fs.WriteString(filepath.Join(root, "specpreview.yml"), cfg); err != nil {
					return err
				}

				stdout, _, code, err := run(ctx, root, "print")
				if err != nil {
					return err
				}
				if err := assert.Equal(0, code, "print should succeed"); err != nil {
					return err
				}
				if err := assert.Contains(stdout, "File: one.txt\nfirst", "configured folder is used"); err != nil {
					return err
				}
				if err := assert.NotContains(stdout, "backup", "excluded files are skipped"); err != nil {
					return fmt.Errorf("exclude patterns not applied: %w", err)
				}
				return nil
			}),
		},
	}
}
