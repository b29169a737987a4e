package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillFromBuildInfo(t *testing.T) {
	info := Info{Version: "dev", Commit: "none", BuildDate: "unknown"}
	fillFromBuildInfo(&info, &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	})

	assert.Equal(t, "v0.3.1", info.Version)
	assert.Equal(t, "0123456789ab", info.Commit)
	assert.Equal(t, "2026-01-02T03:04:05Z", info.BuildDate)
}

func TestFillFromBuildInfoKeepsLinkerValues(t *testing.T) {
	info := Info{Version: "v1.0.0", Commit: "abc", BuildDate: "today"}
	fillFromBuildInfo(&info, &debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffff"}},
	})

	assert.Equal(t, "v1.0.0", info.Version)
	assert.Equal(t, "abc", info.Commit)
	assert.Equal(t, "today", info.BuildDate)
}

func TestInfoFormatting(t *testing.T) {
	info := Info{Version: "v1.2.3", Commit: "abc123", Platform: "linux/amd64"}
	assert.Equal(t, "v1.2.3 (abc123)", info.Short())
	assert.Contains(t, info.String(), "Version:    v1.2.3")
	assert.Contains(t, info.String(), "Platform:   linux/amd64")

	info.Commit = "none"
	assert.Equal(t, "v1.2.3", info.Short())
}
