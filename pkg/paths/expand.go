package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// Expand replaces a leading "~" with the user's home directory and expands
// environment variables. Relative paths stay relative.
func Expand(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return os.ExpandEnv(path)
}
