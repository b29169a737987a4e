package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/grovetools/specpreview/cli"
	"github.com/grovetools/specpreview/internal/server"
	"github.com/grovetools/specpreview/pkg/preview"
	"github.com/grovetools/specpreview/tui/theme"
)

// NewServeCmd creates the `serve` command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live preview of the specs folder over HTTP",
		Long: `Starts a preview session that renders every file in the workspace's specs
folder into one page and re-renders it whenever a file changes or an editor
buffer inside the folder is edited. The session ends on Ctrl+C or when a
client posts to /api/close.

Editors without Neovim can report unsaved buffers with
PUT /api/buffers {"path": ..., "text": ..., "dirty": true}.

Examples:
  specpreview serve --open
  specpreview serve --listen 127.0.0.1:9000 --folder docs/specs`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	addPreviewFlags(cmd)
	cmd.Flags().String("listen", "", "Address to listen on (default: server.listen or 127.0.0.1:7878)")
	cmd.Flags().Bool("open", false, "Open the preview in the default browser")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := cli.GetLogger(cmd, "serve")
	setup, err := newPreviewSetup(cmd, logger)
	if err != nil {
		return err
	}
	defer setup.Close()

	addr := setup.cfg.Server.Listen
	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		addr = listen
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := preview.NewMetrics()
	if err := metrics.Register(reg); err != nil {
		return err
	}

	srv := server.New(logger, server.Options{Buffers: setup.memory, Gatherer: reg})
	listener, err := srv.Listen(addr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(listener) }()

	session, err := preview.Open(ctx, preview.Options{
		Aggregator: setup.aggregator,
		Sink:       srv,
		Changes:    setup.registry,
		Metrics:    metrics,
		Logger:     logger,
	})
	if err != nil {
		_ = srv.Shutdown(context.Background())
		return err
	}

	url := "http://" + listener.Addr().String()
	fmt.Fprintf(cmd.OutOrStdout(), "%s Previewing %s at %s\n",
		theme.DefaultTheme.Success.Render(theme.IconRunning), setup.folderPath(), url)

	open, _ := cmd.Flags().GetBool("open")
	if open || setup.cfg.Server.OpenBrowser {
		if err := openBrowser(url); err != nil {
			logger.WithError(err).Warn("Could not open browser")
		}
	}

	var runErr error
	select {
	case <-session.Done():
	case runErr = <-serveErr:
		session.Dispose()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Debug("Server shutdown")
	}
	return runErr
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
