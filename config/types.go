package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

const (
	// DefaultFolder is the workspace-relative folder whose files are previewed.
	DefaultFolder = "specs"
	// DefaultListen is the address the HTTP preview target binds to.
	DefaultListen = "127.0.0.1:7878"
)

// Config is the specpreview configuration, loaded from specpreview.yml or
// specpreview.toml.
type Config struct {
	// Workspace is the workspace root. Relative paths are resolved against the
	// directory holding the config file.
	Workspace string `yaml:"workspace,omitempty" mapstructure:"workspace" json:"workspace,omitempty"`

	// Folder is the folder, relative to the workspace root, whose direct
	// children are aggregated.
	Folder string `yaml:"folder,omitempty" mapstructure:"folder" json:"folder,omitempty"`

	// Exclude lists file patterns (.dockerignore syntax) that are left out of
	// the preview, e.g. editor swap files.
	Exclude []string `yaml:"exclude,omitempty" mapstructure:"exclude" json:"exclude,omitempty"`

	Server ServerConfig `yaml:"server,omitempty" mapstructure:"server" json:"server,omitempty"`
	Editor EditorConfig `yaml:"editor,omitempty" mapstructure:"editor" json:"editor,omitempty"`

	// Extensions captures all other top-level keys (e.g. "logging").
	Extensions map[string]interface{} `yaml:",inline" mapstructure:",remain" json:"-"`

	// Path is the file this configuration was read from, empty for defaults.
	Path string `yaml:"-" mapstructure:"-" json:"-"`
}

// ServerConfig configures the HTTP preview target.
type ServerConfig struct {
	Listen      string `yaml:"listen,omitempty" mapstructure:"listen" json:"listen,omitempty"`
	OpenBrowser bool   `yaml:"open_browser,omitempty" mapstructure:"open_browser" json:"open_browser,omitempty"`
}

// EditorConfig configures where unsaved buffers come from.
type EditorConfig struct {
	// NvimAddress is a Neovim RPC address (socket path or host:port).
	// Defaults to $NVIM when unset.
	NvimAddress string `yaml:"nvim_address,omitempty" mapstructure:"nvim_address" json:"nvim_address,omitempty"`
}

// SetDefaults sets default values for configuration
func (c *Config) SetDefaults() {
	if c.Folder == "" {
		c.Folder = DefaultFolder
	}
	if c.Server.Listen == "" {
		c.Server.Listen = DefaultListen
	}
}

// UnmarshalExtension decodes a specific extension's configuration into the
// provided target struct. The target must be a pointer. A missing key leaves
// the target zero-valued.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}
