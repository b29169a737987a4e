// Package theme holds the lipgloss styles shared by the preview panel, the
// log formatter and CLI output.
package theme

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const defaultThemeName = "kanagawa"

// --- Kanagawa Dragon palette ---
const (
	kanagawaGreen     = "#98BB6C"
	kanagawaYellow    = "#FF9E3B"
	kanagawaRed       = "#FF5D62"
	kanagawaCyan      = "#7E9CD8"
	kanagawaViolet    = "#957FB8"
	kanagawaLightText = "#DCD7BA"
	kanagawaMutedText = "#727169"
	kanagawaBorder    = "#363646"
)

// --- Terminal (ANSI-friendly) palette ---
const (
	terminalGreen     = "2"
	terminalYellow    = "3"
	terminalRed       = "1"
	terminalCyan      = "6"
	terminalViolet    = "5"
	terminalLightText = "7"
	terminalMutedText = "8"
	terminalBorder    = "8"
)

// Colors is the palette a theme is built from.
type Colors struct {
	Green     lipgloss.TerminalColor
	Yellow    lipgloss.TerminalColor
	Red       lipgloss.TerminalColor
	Cyan      lipgloss.TerminalColor
	Violet    lipgloss.TerminalColor
	LightText lipgloss.TerminalColor
	MutedText lipgloss.TerminalColor
	Border    lipgloss.TerminalColor
}

// Theme contains the styles used across specpreview.
type Theme struct {
	Name   string
	Colors Colors

	Header  lipgloss.Style
	Accent  lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Status  lipgloss.Style
	Box     lipgloss.Style
}

var themeRegistry = map[string]func() Colors{
	"kanagawa": newKanagawaColors,
	"terminal": newTerminalColors,
}

// DefaultTheme is selected from SPECPREVIEW_THEME, falling back to kanagawa.
var DefaultTheme = NewThemeWithName(getThemeName())

// NewThemeWithName builds a theme from a registered palette name.
func NewThemeWithName(name string) *Theme {
	factory, ok := themeRegistry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		factory = themeRegistry[defaultThemeName]
		name = defaultThemeName
	}
	return newThemeFromColors(factory(), name)
}

// RenderHeader renders a header with the default theme.
func RenderHeader(title string) string {
	return DefaultTheme.Header.Render(title)
}

// RenderError renders an error message with the default theme.
func RenderError(text string) string {
	return DefaultTheme.Error.Render(text)
}

func newThemeFromColors(colors Colors, name string) *Theme {
	return &Theme{
		Name:    name,
		Colors:  colors,
		Header:  lipgloss.NewStyle().Bold(true).Foreground(colors.Cyan),
		Accent:  lipgloss.NewStyle().Foreground(colors.Violet),
		Muted:   lipgloss.NewStyle().Foreground(colors.MutedText),
		Error:   lipgloss.NewStyle().Foreground(colors.Red),
		Success: lipgloss.NewStyle().Foreground(colors.Green),
		Warning: lipgloss.NewStyle().Foreground(colors.Yellow),
		Status: lipgloss.NewStyle().
			Foreground(colors.LightText).
			BorderTop(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(colors.Border),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Border).
			Padding(0, 1),
	}
}

func getThemeName() string {
	if name := os.Getenv("SPECPREVIEW_THEME"); name != "" {
		return name
	}
	return defaultThemeName
}

func newKanagawaColors() Colors {
	return Colors{
		Green:     lipgloss.Color(kanagawaGreen),
		Yellow:    lipgloss.Color(kanagawaYellow),
		Red:       lipgloss.Color(kanagawaRed),
		Cyan:      lipgloss.Color(kanagawaCyan),
		Violet:    lipgloss.Color(kanagawaViolet),
		LightText: lipgloss.Color(kanagawaLightText),
		MutedText: lipgloss.Color(kanagawaMutedText),
		Border:    lipgloss.Color(kanagawaBorder),
	}
}

func newTerminalColors() Colors {
	return Colors{
		Green:     lipgloss.Color(terminalGreen),
		Yellow:    lipgloss.Color(terminalYellow),
		Red:       lipgloss.Color(terminalRed),
		Cyan:      lipgloss.Color(terminalCyan),
		Violet:    lipgloss.Color(terminalViolet),
		LightText: lipgloss.Color(terminalLightText),
		MutedText: lipgloss.Color(terminalMutedText),
		Border:    lipgloss.Color(terminalBorder),
	}
}
