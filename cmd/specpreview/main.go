package main

import (
	"os"

	"github.com/grovetools/specpreview/cli"
	"github.com/grovetools/specpreview/cmd"
	"github.com/grovetools/specpreview/pkg/profiling"
	"github.com/grovetools/specpreview/version"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"specpreview",
		"Live preview of a workspace's specs folder",
	)
	cli.SetVersionTemplate(rootCmd, version.GetInfo())
	profiling.New(profiling.Default).AddFlags(rootCmd)

	rootCmd.AddCommand(cmd.NewServeCmd())
	rootCmd.AddCommand(cmd.NewPanelCmd())
	rootCmd.AddCommand(cmd.NewPrintCmd())
	rootCmd.AddCommand(cmd.NewLogsCmd())
	rootCmd.AddCommand(cmd.NewConfigCmd())
	rootCmd.AddCommand(cli.NewVersionCommand("specpreview"))
	cli.ApplyStyledHelpRecursive(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		cli.NewErrorHandler(cli.GetOptions(rootCmd).Verbose).Handle(err)
		os.Exit(1)
	}
}
