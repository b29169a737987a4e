package cmd

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/grovetools/specpreview/cli"
	"github.com/grovetools/specpreview/config"
	"github.com/grovetools/specpreview/errors"
	"github.com/grovetools/specpreview/pkg/buffers"
	"github.com/grovetools/specpreview/pkg/paths"
	"github.com/grovetools/specpreview/pkg/profiling"
	"github.com/grovetools/specpreview/pkg/specs"
)

// addPreviewFlags registers the flags of every command that aggregates the
// specs folder.
func addPreviewFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("workspace", "w", "", "Workspace root (default: config workspace, git root, or current directory)")
	cmd.Flags().String("folder", "", "Folder to preview, relative to the workspace (default: specs)")
	cmd.Flags().StringSlice("exclude", nil, "File patterns to leave out, e.g. '*.swp'")
	cmd.Flags().String("nvim", "", "Neovim RPC address to read unsaved buffers from (default: $NVIM)")
}

// previewSetup is everything a command needs to aggregate the folder.
type previewSetup struct {
	cfg        *config.Config
	workspace  specs.Workspace
	aggregator *specs.Aggregator
	memory     *buffers.Memory
	registry   buffers.Chain
	nvim       *buffers.Nvim
}

func newPreviewSetup(cmd *cobra.Command, logger *logrus.Entry) (*previewSetup, error) {
	defer profiling.Track("setup")()

	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if folder, _ := cmd.Flags().GetString("folder"); folder != "" {
		cfg.Folder = folder
	}
	if exclude, _ := cmd.Flags().GetStringSlice("exclude"); len(exclude) > 0 {
		cfg.Exclude = append(cfg.Exclude, exclude...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := specs.NewDirStore(cfg.Exclude)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid exclude pattern").
			WithDetail("exclude", cfg.Exclude)
	}

	workspaceFlag, _ := cmd.Flags().GetString("workspace")
	ws := resolveWorkspace(workspaceFlag, cfg)
	if root, ok := ws.Root(); ok {
		logger.WithFields(logrus.Fields{"root": root, "folder": cfg.Folder}).Debug("Resolved workspace")
	}

	s := &previewSetup{
		cfg:       cfg,
		workspace: ws,
		memory:    buffers.NewMemory(),
	}
	s.registry = buffers.Chain{s.memory}

	nvimFlag, _ := cmd.Flags().GetString("nvim")
	if err := s.connectEditor(nvimFlag, logger); err != nil {
		return nil, err
	}

	s.aggregator = &specs.Aggregator{
		Workspace: ws,
		Folder:    cfg.Folder,
		Store:     store,
		Buffers:   s.registry,
	}
	return s, nil
}

// connectEditor attaches to Neovim. An address given by flag or config must
// be reachable; one inherited from $NVIM is best effort.
func (s *previewSetup) connectEditor(flagAddr string, logger *logrus.Entry) error {
	addr, explicit := flagAddr, true
	if addr == "" {
		addr = s.cfg.Editor.NvimAddress
	}
	if addr == "" {
		addr, explicit = buffers.AddressFromEnv(), false
	}
	if addr == "" {
		return nil
	}

	n, err := buffers.DialNvim(addr)
	if err != nil {
		if explicit {
			return err
		}
		logger.WithError(err).Warn("Ignoring unreachable $NVIM")
		return nil
	}
	s.nvim = n
	s.registry = append(s.registry, n)
	return nil
}

// folderPath is the folder being previewed, for display.
func (s *previewSetup) folderPath() string {
	if dir, ok := s.workspace.FolderPath(s.cfg.Folder); ok {
		return dir
	}
	return s.cfg.Folder
}

func (s *previewSetup) Close() {
	if s.nvim != nil {
		_ = s.nvim.Close()
	}
}

// resolveWorkspace picks the workspace root: the flag, then the configured
// workspace, then the git root, then the working directory.
func resolveWorkspace(flag string, cfg *config.Config) specs.Workspace {
	root := paths.Expand(flag)
	if root == "" && cfg.Workspace != "" {
		root = paths.Expand(cfg.Workspace)
		if !filepath.IsAbs(root) && cfg.Path != "" {
			root = filepath.Join(filepath.Dir(cfg.Path), root)
		}
	}
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return specs.Workspace{}
		}
		root = cwd
		if gitRoot, err := config.GitRoot(cwd); err == nil && gitRoot != "" {
			root = gitRoot
		}
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return specs.Workspace{}
	}
	return specs.Workspace{Roots: []string{abs}}
}
