package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/specpreview/errors"
	"github.com/grovetools/specpreview/version"
)

func TestWrapText(t *testing.T) {
	assert.Equal(t, "short", wrapText("short", 20))
	assert.Equal(t, "aaa bbb\nccc", wrapText("aaa bbb ccc", 7))
	assert.Equal(t, "one\ntwo", wrapText("one\ntwo", 10))
}

func TestParseDescription(t *testing.T) {
	desc, examples := parseDescription("Serve the preview.\n\nExamples:\n  specpreview serve --open")
	assert.Equal(t, "Serve the preview.", desc)
	assert.Equal(t, "specpreview serve --open", examples)

	desc, examples = parseDescription("No examples here")
	assert.Equal(t, "No examples here", desc)
	assert.Empty(t, examples)
}

func TestStyledHelp(t *testing.T) {
	root := NewStandardCommand("specpreview", "Live preview of a specs folder")
	sub := &cobra.Command{
		Use:     "serve",
		Short:   "Serve the preview over HTTP",
		Example: "# default address\nspecpreview serve --open",
		RunE:    func(*cobra.Command, []string) error { return nil },
	}
	sub.Flags().String("listen", "127.0.0.1:7878", "Listen address")
	root.AddCommand(sub)
	ApplyStyledHelpRecursive(root)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"serve", "--help"})
	require.NoError(t, root.Execute())

	help := out.String()
	assert.Contains(t, help, "SPECPREVIEW SERVE")
	assert.Contains(t, help, "--listen")
	assert.Contains(t, help, "127.0.0.1:7878")
	assert.Contains(t, help, "--verbose")
	assert.Contains(t, help, "EXAMPLES")
}

func TestGetOptions(t *testing.T) {
	cmd := NewStandardCommand("specpreview", "test")
	require.NoError(t, cmd.ParseFlags([]string{"-v", "--json", "-c", "/tmp/specpreview.yml"}))

	opts := GetOptions(cmd)
	assert.True(t, opts.Verbose)
	assert.True(t, opts.JSONOutput)
	assert.Equal(t, "/tmp/specpreview.yml", opts.ConfigFile)
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "port conflict",
			err:  errors.PortConflict("127.0.0.1:7878", fmt.Errorf("bind: address already in use")),
			want: []string{"127.0.0.1:7878 is already in use", "--listen"},
		},
		{
			name: "wrapped specs folder missing",
			err:  fmt.Errorf("print: %w", errors.SpecsFolderMissing("/w/specs")),
			want: []string{`No "specs" folder found in workspace`},
		},
		{
			name: "editor",
			err:  errors.EditorUnavailable("/tmp/nvim.sock", fmt.Errorf("refused")),
			want: []string{"Neovim at /tmp/nvim.sock"},
		},
		{
			name: "plain",
			err:  fmt.Errorf("boom"),
			want: []string{"Error: boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			h := &ErrorHandler{Out: &out}
			assert.Equal(t, tt.err, h.Handle(tt.err))
			for _, want := range tt.want {
				assert.Contains(t, out.String(), want)
			}
		})
	}

	assert.NoError(t, NewErrorHandler(false).Handle(nil))
}

func TestErrorHandlerVerbose(t *testing.T) {
	var out bytes.Buffer
	h := &ErrorHandler{Verbose: true, Out: &out}
	h.Handle(errors.ConfigInvalid("folder must be relative"))
	assert.Contains(t, out.String(), `"code": "CONFIG_INVALID"`)
}

func TestVersionCommand(t *testing.T) {
	root := NewStandardCommand("specpreview", "test")
	root.AddCommand(NewVersionCommand("specpreview"))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "specpreview "+version.Version))

	out.Reset()
	root.SetArgs([]string{"version", "--json"})
	require.NoError(t, root.Execute())
	var info version.Info
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Equal(t, version.Version, info.Version)
}
