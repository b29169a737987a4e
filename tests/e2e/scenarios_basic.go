package main

import (
	"github.com/grovetools/tend/pkg/assert"
	"github.com/grovetools/tend/pkg/harness"
)

// VersionScenario tests the 'version' command.
func VersionScenario() *harness.Scenario {
	return &harness.Scenario{
		Name: "specpreview-basic-version",
		Tags: []string{"basic"},
		Steps: []harness.Step{
			harness.NewStep("Run 'specpreview version'", func(ctx *harness.Context) error {
				stdout, _, code, err := run(ctx, ctx.NewDir("version"), "version")
				if err != nil {
					return err
				}
				if err := assert.Equal(0, code, "version should exit successfully"); err != nil {
					return err
				}
				if err := assert.Contains(stdout, "Version:", "Output should contain Version"); err != nil {
					return err
				}
				return assert.Contains(stdout, "Go Version:", "Output should contain Go Version")
			}),
			harness.NewStep("Run 'specpreview version --json'", func(ctx *harness.Context) error {
				stdout, _, code, err := run(ctx, ctx.NewDir("version-json"), "version", "--json")
				if err != nil {
					return err
				}
				if err := assert.Equal(0, code, "version --json should exit successfully"); err != nil {
					return err
				}
				return assert.Contains(stdout, `"goVersion"`, "JSON output should contain goVersion")
			}),
		},
	}
}
