package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/hpcloud/tail"
	"github.com/spf13/cobra"

	"github.com/grovetools/specpreview/logging"
	"github.com/grovetools/specpreview/tui/theme"
)

// NewLogsCmd creates the `logs` command.
func NewLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs [component]",
		Short: "List or show the log files written by specpreview",
		Long: `Without arguments, lists the log files in the log directory. With a component
name (serve, panel, print, preview, watch, buffers) prints that component's most
recent log, or the log of --date, optionally following it as it grows. A
logging.file.path set in specpreview.yml is shared by all components.

Examples:
  specpreview logs
  specpreview logs serve -f
  specpreview logs watch --date 2026-01-31`,
		Args: cobra.MaximumNArgs(1),
		RunE: runLogsE,
	}

	cmd.Flags().BoolP("follow", "f", false, "Follow log output")
	cmd.Flags().String("date", "", "Day of the log file, YYYY-MM-DD (default: today)")
	return cmd
}

func runLogsE(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		return listLogFiles(out, logging.LogDir())
	}

	var day time.Time
	if date, _ := cmd.Flags().GetString("date"); date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", date, err)
		}
		day = parsed
	}
	follow, _ := cmd.Flags().GetBool("follow")

	path, err := logging.FindLogFile(args[0], day)
	if err != nil {
		if !follow {
			return fmt.Errorf("no log for %s: %w", args[0], err)
		}
		// Wait for today's file to appear.
		path = logging.LogFilePath(args[0], time.Now())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t, err := tail.TailFile(path, tail.Config{
		Follow:    follow,
		ReOpen:    follow,
		MustExist: !follow,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("no log for %s: %w", args[0], err)
	}
	defer t.Cleanup()

	for {
		select {
		case <-ctx.Done():
			return t.Stop()
		case line, ok := <-t.Lines:
			if !ok {
				return nil
			}
			if line.Err != nil {
				return line.Err
			}
			fmt.Fprintln(out, line.Text)
		}
	}
}

func listLogFiles(out io.Writer, dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.log"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(out, "No log files in %s\n", dir)
		return nil
	}
	sort.Strings(files)

	t := theme.DefaultTheme
	fmt.Fprintln(out, t.Header.Render(dir))
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		name := strings.TrimSuffix(filepath.Base(file), ".log")
		fmt.Fprintf(out, " %s %-32s %8d  %s\n", theme.IconArchive, name, info.Size(),
			t.Muted.Render(info.ModTime().Format("2006-01-02 15:04")))
	}
	return nil
}
