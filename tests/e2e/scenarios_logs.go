package main

import (
	"github.com/grovetools/tend/pkg/assert"
	"github.com/grovetools/tend/pkg/harness"
)

// LogFileCreationScenario checks that commands write their daily log file.
func LogFileCreationScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "specpreview-logs-file-creation",
		Description: "Running print creates a print log listed by 'specpreview logs'.",
		Tags:        []string{"logging"},
		Steps: []harness.Step{
			{
				Name: "Run print with debug logging",
				Func: func(ctx *harness.Context) error {
					root, err := setupWorkspace(ctx, "logged", map[string]string{"a.md": "x"})
					if err != nil {
						return err
					}
					_, _, code, err := run(ctx, root, "print", "--verbose")
					if err != nil {
						return err
					}
					return assert.Equal(0, code, "print should succeed")
				},
			},
			{
				Name: "List log files",
				Func: func(ctx *harness.Context) error {
					stdout, _, code, err := run(ctx, ctx.GetString("workspace"), "logs")
					if err != nil {
						return err
					}
					if err := assert.Equal(0, code, "logs should succeed"); err != nil {
						return err
					}
					return assert.Contains(stdout, "print-", "print log is listed")
				},
			},
		},
	}
}
