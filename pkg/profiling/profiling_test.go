package profiling

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerDisabledRecordsNothing(t *testing.T) {
	timer := &Timer{}
	timer.Track("aggregate")()

	assert.Empty(t, timer.Spans())

	var buf bytes.Buffer
	timer.Summarize(&buf)
	assert.Empty(t, buf.String())
}

func TestTimerRecordsSpans(t *testing.T) {
	timer := &Timer{}
	timer.Enable()

	stop := timer.Track("setup")
	stop()
	timer.Track("aggregate")()

	spans := timer.Spans()
	require.Len(t, spans, 2)
	assert.Equal(t, "setup", spans[0].Name)
	assert.Equal(t, "aggregate", spans[1].Name)

	var buf bytes.Buffer
	timer.Summarize(&buf)
	assert.Contains(t, buf.String(), "--- Timing Profile ---")
	assert.Contains(t, buf.String(), "- setup (")
	assert.Contains(t, buf.String(), "- aggregate (")
}

func TestProfilerFlags(t *testing.T) {
	dir := t.TempDir()
	memPath := filepath.Join(dir, "mem.pprof")
	timer := &Timer{}
	var ran bool

	root := &cobra.Command{
		Use: "root",
		RunE: func(cmd *cobra.Command, args []string) error {
			ran = true
			defer timer.Track("work")()
			return nil
		},
	}
	New(timer).AddFlags(root)

	var errOut bytes.Buffer
	root.SetErr(&errOut)
	root.SetArgs([]string{"--timing", "--mem-profile", memPath})
	require.NoError(t, root.Execute())

	assert.True(t, ran)
	assert.FileExists(t, memPath)
	info, err := os.Stat(memPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.Contains(t, errOut.String(), "Memory profile written to "+memPath)
	assert.Contains(t, errOut.String(), "- work (")
}

func TestProfilerChainsExistingHooks(t *testing.T) {
	var order []string
	root := &cobra.Command{
		Use: "root",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			order = append(order, "pre")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			order = append(order, "run")
			return nil
		},
	}
	New(&Timer{}).AddFlags(root)
	root.SetArgs([]string{})
	require.NoError(t, root.Execute())

	assert.Equal(t, []string{"pre", "run"}, order)
}
