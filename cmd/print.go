package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grovetools/specpreview/cli"
	"github.com/grovetools/specpreview/pkg/profiling"
	"github.com/grovetools/specpreview/pkg/render"
)

// NewPrintCmd creates the `print` command.
func NewPrintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print the aggregated specs document once",
		Long: `Aggregates the specs folder once and writes the result to stdout, as text or
as the HTML the live preview would show. Unsaved Neovim buffers are included
when running inside Neovim.

Examples:
  specpreview print
  specpreview print --html > specs.html
  specpreview print -w ~/src/project --folder docs/specs`,
		Args: cobra.NoArgs,
		RunE: runPrint,
	}
	addPreviewFlags(cmd)
	cmd.Flags().Bool("html", false, "Write the rendered HTML document instead of text")
	return cmd
}

func runPrint(cmd *cobra.Command, args []string) error {
	logger := cli.GetLogger(cmd, "print")
	setup, err := newPreviewSetup(cmd, logger)
	if err != nil {
		return err
	}
	defer setup.Close()

	html, _ := cmd.Flags().GetBool("html")
	out := cmd.OutOrStdout()

	stop := profiling.Track("aggregate")
	result := setup.aggregator.Aggregate(cmd.Context())
	stop()
	if !result.OK() {
		if html {
			fmt.Fprint(out, render.Error(result.Message()).HTML)
		}
		return result.Err
	}

	if html {
		fmt.Fprint(out, render.Content(result.Content).HTML)
		return nil
	}
	fmt.Fprint(out, result.Content)
	return nil
}
