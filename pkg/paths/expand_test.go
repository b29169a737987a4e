package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("SPECPREVIEW_TEST_DIR", "/srv/specs")

	assert.Equal(t, filepath.Join(home, "src", "project"), Expand("~/src/project"))
	assert.Equal(t, home, Expand("~"))
	assert.Equal(t, "/srv/specs/a", Expand("$SPECPREVIEW_TEST_DIR/a"))
	assert.Equal(t, "relative/dir", Expand("relative/dir"))
	assert.Equal(t, "~user/x", Expand("~user/x"))
	assert.Equal(t, "", Expand(""))
}
