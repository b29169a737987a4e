package config

import (
	"fmt"
	"net"
	"path/filepath"
	"strings"

	"github.com/grovetools/specpreview/errors"
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validateFolder(c.Folder); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid folder").
			WithDetail("folder", c.Folder)
	}

	if _, _, err := net.SplitHostPort(c.Server.Listen); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid server.listen address").
			WithDetail("listen", c.Server.Listen)
	}

	for _, pattern := range c.Exclude {
		if strings.TrimSpace(pattern) == "" {
			return errors.ConfigInvalid("exclude patterns cannot be empty")
		}
	}

	return nil
}

func validateFolder(folder string) error {
	if folder == "" {
		return fmt.Errorf("folder cannot be empty")
	}
	if filepath.IsAbs(folder) {
		return fmt.Errorf("folder must be relative to the workspace root")
	}
	clean := filepath.Clean(folder)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("folder must stay inside the workspace root")
	}
	return nil
}
