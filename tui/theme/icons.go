package theme

import "os"

// Nerd Font icons
const (
	nerdIconSuccess = "\U000F012C" // md-check (U+F012C)
	nerdIconError   = "\uEA87"     // cod-error (U+EA87)
	nerdIconWarning = "\uF071"     // fa-warning (U+F071)
	nerdIconInfo    = "\U000F02FC" // md-information (U+F02FC)
	nerdIconRunning = "\uF021"     // fa-refresh (U+F021)
	nerdIconNote    = "\U000F039A" // md-note (U+F039A)
	nerdIconArchive = "\U000F003C" // md-archive (U+F003C)
)

// ASCII fallbacks
const (
	asciiIconSuccess = "✓"
	asciiIconError   = "✗"
	asciiIconWarning = "⚠"
	asciiIconInfo    = "ℹ"
	asciiIconRunning = "◐"
	asciiIconNote    = "▢"
	asciiIconArchive = "[A]"
)

var (
	IconSuccess string
	IconError   string
	IconWarning string
	IconInfo    string
	IconRunning string
	IconNote    string
	IconArchive string
)

func init() {
	UseASCIIIcons(os.Getenv("SPECPREVIEW_ICONS") == "ascii")
}

// UseASCIIIcons switches between the Nerd Font and plain icon sets.
func UseASCIIIcons(ascii bool) {
	if ascii {
		IconSuccess = asciiIconSuccess
		IconError = asciiIconError
		IconWarning = asciiIconWarning
		IconInfo = asciiIconInfo
		IconRunning = asciiIconRunning
		IconNote = asciiIconNote
		IconArchive = asciiIconArchive
		return
	}
	IconSuccess = nerdIconSuccess
	IconError = nerdIconError
	IconWarning = nerdIconWarning
	IconInfo = nerdIconInfo
	IconRunning = nerdIconRunning
	IconNote = nerdIconNote
	IconArchive = nerdIconArchive
}
