package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/grovetools/specpreview/tui/theme"
)

const maxWidth = 72
const minWidth = 40

// getTerminalWidth returns the terminal width capped at maxWidth.
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < minWidth {
		return maxWidth
	}
	if width > maxWidth {
		return maxWidth
	}
	return width
}

// wrapText wraps text to the specified width, preserving existing line breaks.
func wrapText(text string, width int) string {
	if width <= 0 {
		width = maxWidth
	}

	var result []string
	for _, paragraph := range strings.Split(text, "\n") {
		if len(paragraph) <= width {
			result = append(result, paragraph)
			continue
		}

		var line string
		for _, word := range strings.Fields(paragraph) {
			if line == "" {
				line = word
			} else if len(line)+1+len(word) <= width {
				line += " " + word
			} else {
				result = append(result, line)
				line = word
			}
		}
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}

// SetStyledHelp applies the themed help output to a command.
func SetStyledHelp(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
}

// ApplyStyledHelpRecursive applies styled help to a command and all its
// subcommands. Call this after all subcommands have been added.
func ApplyStyledHelpRecursive(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
	for _, sub := range cmd.Commands() {
		ApplyStyledHelpRecursive(sub)
	}
}

// parseDescription splits a command's long description into main text and examples.
func parseDescription(long string) (description string, examples string) {
	markers := []string{"\nExamples:\n", "\nExample:\n"}
	for _, marker := range markers {
		if idx := strings.Index(long, marker); idx != -1 {
			return strings.TrimSpace(long[:idx]), strings.TrimSpace(long[idx+len(marker):])
		}
	}
	return long, ""
}

// renderExamples styles example lines with muted comments and styled commands.
func renderExamples(w io.Writer, t *theme.Theme, examples string, cmdPath string) {
	rootCmd := strings.Split(cmdPath, " ")[0]
	for _, line := range strings.Split(examples, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			fmt.Fprintln(w)
		case strings.HasPrefix(trimmed, "#"):
			fmt.Fprintln(w, " "+t.Muted.Render(trimmed))
		default:
			fmt.Fprintln(w, " "+styleCommandLine(t, trimmed, rootCmd))
		}
	}
}

// styleCommandLine colours the command, subcommand and flags of an example.
func styleCommandLine(t *theme.Theme, line, rootCmd string) string {
	parts := strings.Fields(line)
	var result []string
	for i, part := range parts {
		switch {
		case i == 0 && part == rootCmd:
			result = append(result, t.Header.Render(part))
		case i == 1 && !strings.HasPrefix(part, "-"):
			result = append(result, t.Success.Render(part))
		case strings.HasPrefix(part, "-"):
			result = append(result, t.Accent.Render(part))
		default:
			result = append(result, part)
		}
	}
	return "  " + strings.Join(result, " ")
}

// helpPage writes the sections of one help screen.
type helpPage struct {
	w       io.Writer
	t       *theme.Theme
	heading lipgloss.Style
	width   int
}

func (p *helpPage) paragraph(text string) {
	for _, line := range strings.Split(wrapText(text, p.width), "\n") {
		fmt.Fprintln(p.w, " "+line)
	}
}

func (p *helpPage) section(title string) {
	fmt.Fprintln(p.w, "\n "+p.heading.Render(title))
}

// rows prints name/description pairs with the descriptions aligned.
func (p *helpPage) rows(names, descriptions []string) {
	width := 0
	for _, n := range names {
		if len(n) > width {
			width = len(n)
		}
	}
	for i, n := range names {
		fmt.Fprintf(p.w, " %s%s  %s\n", p.t.Accent.Render(n), strings.Repeat(" ", width-len(n)), descriptions[i])
	}
}

func styledHelpFunc(cmd *cobra.Command, args []string) {
	t := theme.DefaultTheme
	p := &helpPage{
		w:       cmd.OutOrStdout(),
		t:       t,
		heading: lipgloss.NewStyle().Italic(true).Foreground(t.Colors.Yellow),
		width:   getTerminalWidth() - 2,
	}

	fmt.Fprintln(p.w, " "+t.Header.Render(strings.ToUpper(cmd.CommandPath())))
	description, examples := parseDescription(cmd.Long)
	if cmd.Short != "" {
		p.paragraph(cmd.Short)
	}
	if description != "" && description != cmd.Short {
		fmt.Fprintln(p.w)
		p.paragraph(description)
	}

	if cmd.Runnable() || cmd.HasSubCommands() {
		p.section("USAGE")
		if cmd.Runnable() {
			fmt.Fprintf(p.w, " %s\n", cmd.UseLine())
		}
		if cmd.HasSubCommands() {
			fmt.Fprintf(p.w, " %s [command]\n", cmd.CommandPath())
		}
	}

	if cmd.HasAvailableSubCommands() {
		var names, shorts []string
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() {
				names = append(names, sub.Name())
				shorts = append(shorts, sub.Short)
			}
		}
		p.section("COMMANDS")
		p.rows(names, shorts)
	}

	var names, usages []string
	collect := func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		usage := f.Usage
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "[]" {
			usage += t.Muted.Render(fmt.Sprintf(" (default: %s)", f.DefValue))
		}
		names = append(names, formatFlagName(f))
		usages = append(usages, usage)
	}
	cmd.LocalFlags().VisitAll(collect)
	cmd.InheritedFlags().VisitAll(collect)
	if len(names) > 0 {
		p.section("FLAGS")
		p.rows(names, usages)
	}

	if cmd.Example != "" {
		examples = cmd.Example
	}
	if examples != "" {
		p.section("EXAMPLES")
		renderExamples(p.w, t, examples, cmd.CommandPath())
	}

	if cmd.HasSubCommands() {
		fmt.Fprintf(p.w, "\n Use \"%s [command] --help\" for more information.\n", cmd.CommandPath())
	}
}

// formatFlagName returns a formatted flag string like "-f, --flag" or "--flag".
func formatFlagName(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	}
	return fmt.Sprintf("    --%s", f.Name)
}
