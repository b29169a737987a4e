package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/grovetools/specpreview/cli"
	"github.com/grovetools/specpreview/pkg/preview"
	"github.com/grovetools/specpreview/tui"
	"github.com/grovetools/specpreview/tui/panel"
)

// NewPanelCmd creates the `panel` command.
func NewPanelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "panel",
		Short: "Show a live preview of the specs folder in the terminal",
		Long: `Opens a full-screen terminal panel showing the aggregated specs folder. The
panel refreshes on every file change and on edits to Neovim buffers inside the
folder. Press q to close it.

Examples:
  specpreview panel
  specpreview panel --nvim /tmp/nvim.sock`,
		Args: cobra.NoArgs,
		RunE: runPanel,
	}
	addPreviewFlags(cmd)
	return cmd
}

func runPanel(cmd *cobra.Command, args []string) error {
	logger := cli.GetLogger(cmd, "panel")
	setup, err := newPreviewSetup(cmd, logger)
	if err != nil {
		return err
	}
	defer setup.Close()

	tui.InitializeTUI()
	p := panel.New("SPECS  " + setup.folderPath())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := make(chan error, 1)
	go func() { runErr <- p.Run() }()

	session, err := preview.Open(ctx, preview.Options{
		Aggregator: setup.aggregator,
		Sink:       p,
		Changes:    setup.registry,
		Logger:     logger,
	})
	if err != nil {
		p.Quit()
		<-runErr
		return err
	}

	select {
	case err := <-runErr:
		session.Dispose()
		return err
	case <-session.Done():
		p.Quit()
		return <-runErr
	}
}
