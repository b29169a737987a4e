package specs_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/specpreview/errors"
	"github.com/grovetools/specpreview/pkg/specs"
	"github.com/grovetools/specpreview/pkg/specs/specstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const root = "/work"

var specsDir = filepath.Join(root, "specs")

func newAggregator(store specs.FolderStore, buffers specs.BufferRegistry) *specs.Aggregator {
	return &specs.Aggregator{
		Workspace: specs.Workspace{Roots: []string{root}},
		Store:     store,
		Buffers:   buffers,
	}
}

func TestAggregateNoWorkspace(t *testing.T) {
	agg := &specs.Aggregator{Store: specstest.NewStore()}

	result := agg.Aggregate(context.Background())

	require.False(t, result.OK())
	assert.Equal(t, errors.ErrCodeNoWorkspace, result.Err.Code)
	assert.Equal(t, "No workspace folder open", result.Message())
	assert.Empty(t, result.Content)
}

func TestAggregateMissingFolder(t *testing.T) {
	store := specstest.NewStore()
	store.AddDir(root)

	result := newAggregator(store, nil).Aggregate(context.Background())

	require.False(t, result.OK())
	assert.Equal(t, errors.ErrCodeSpecsFolderMissing, result.Err.Code)
	assert.Equal(t, `No "specs" folder found in workspace`, result.Message())
}

func TestAggregateConcatenatesInListingOrder(t *testing.T) {
	store := specstest.NewStore()
	store.AddFile(specsDir, "a.txt", "hello")
	store.AddFile(specsDir, "b.txt", "world")

	result := newAggregator(store, specstest.NewBuffers()).Aggregate(context.Background())

	require.True(t, result.OK(), result.Message())
	assert.Equal(t, "SPECS:\n----\n\nFile: a.txt\nhello\n----\n\nFile: b.txt\nworld\n----\n", result.Content)
}

func TestAggregateKeepsStoreOrder(t *testing.T) {
	store := specstest.NewStore()
	store.AddFile(specsDir, "z.md", "last alphabetically")
	store.AddFile(specsDir, "a.md", "first alphabetically")

	result := newAggregator(store, nil).Aggregate(context.Background())

	require.True(t, result.OK())
	assert.Equal(t, "SPECS:\n----\n\nFile: z.md\nlast alphabetically\n----\n\nFile: a.md\nfirst alphabetically\n----\n", result.Content)
}

func TestAggregateEmptyFolder(t *testing.T) {
	store := specstest.NewStore()
	store.AddDir(specsDir)

	result := newAggregator(store, nil).Aggregate(context.Background())

	require.True(t, result.OK())
	assert.Equal(t, "SPECS:\n----\n", result.Content)
}

func TestAggregateDirtyBufferWins(t *testing.T) {
	store := specstest.NewStore()
	store.AddFile(specsDir, "a.txt", "saved")
	buffers := specstest.NewBuffers()
	buffers.Open(filepath.Join(specsDir, "a.txt"), "edited", true)

	result := newAggregator(store, buffers).Aggregate(context.Background())

	require.True(t, result.OK())
	assert.Contains(t, result.Content, "\nFile: a.txt\nedited\n----\n")
	assert.NotContains(t, result.Content, "saved")
	assert.Empty(t, store.Reads(), "a dirty buffer must not fall back to disk")
}

func TestAggregateCleanBufferUsesDisk(t *testing.T) {
	store := specstest.NewStore()
	store.AddFile(specsDir, "a.txt", "saved")
	buffers := specstest.NewBuffers()
	buffers.Open(filepath.Join(specsDir, "a.txt"), "stale buffer text", false)

	result := newAggregator(store, buffers).Aggregate(context.Background())

	require.True(t, result.OK())
	assert.Contains(t, result.Content, "\nFile: a.txt\nsaved\n----\n")
}

func TestAggregateBufferMatchIsExactPath(t *testing.T) {
	store := specstest.NewStore()
	store.AddFile(specsDir, "a.txt", "saved")
	buffers := specstest.NewBuffers()
	buffers.Open(filepath.Join(root, "other", "a.txt"), "wrong file", true)

	result := newAggregator(store, buffers).Aggregate(context.Background())

	require.True(t, result.OK())
	assert.Contains(t, result.Content, "saved")
	assert.NotContains(t, result.Content, "wrong file")
}

func TestAggregateSkipsDirectories(t *testing.T) {
	store := specstest.NewStore()
	store.AddFile(specsDir, "a.txt", "hello")
	store.AddSubdir(specsDir, "sub")
	store.AddFile(filepath.Join(specsDir, "sub"), "inner.txt", "never read")

	result := newAggregator(store, nil).Aggregate(context.Background())

	require.True(t, result.OK())
	assert.NotContains(t, result.Content, "File: sub")
	assert.NotContains(t, result.Content, "never read")
	assert.Equal(t, []string{filepath.Join(specsDir, "a.txt")}, store.Reads())
}

func TestAggregateListFailure(t *testing.T) {
	store := specstest.NewStore()
	store.AddDir(specsDir)
	store.Fail(specsDir, fmt.Errorf("permission denied"))

	result := newAggregator(store, nil).Aggregate(context.Background())

	require.False(t, result.OK())
	assert.Equal(t, errors.ErrCodeUnexpectedIO, result.Err.Code)
	assert.Equal(t, "Error loading specs: permission denied", result.Message())
}

func TestAggregateReadFailureDiscardsEverything(t *testing.T) {
	store := specstest.NewStore()
	store.AddFile(specsDir, "a.txt", "hello")
	store.AddFile(specsDir, "b.txt", "world")
	store.Fail(filepath.Join(specsDir, "b.txt"), fmt.Errorf("disk on fire"))

	result := newAggregator(store, nil).Aggregate(context.Background())

	require.False(t, result.OK())
	assert.Empty(t, result.Content)
	assert.Equal(t, "Error loading specs: disk on fire", result.Message())
}

func TestAggregateCancelledContext(t *testing.T) {
	store := specstest.NewStore()
	store.AddFile(specsDir, "a.txt", "hello")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := newAggregator(store, nil).Aggregate(ctx)

	require.False(t, result.OK())
	assert.Equal(t, errors.ErrCodeUnexpectedIO, result.Err.Code)
	assert.True(t, stderrors.Is(result.Err, context.Canceled))
}

func TestAggregateCustomFolder(t *testing.T) {
	store := specstest.NewStore()
	store.AddFile(filepath.Join(root, "docs"), "a.txt", "hello")

	agg := newAggregator(store, nil)
	agg.Folder = "docs"
	result := agg.Aggregate(context.Background())

	require.True(t, result.OK())
	assert.Contains(t, result.Content, "File: a.txt")
}

func TestAggregateUsesFirstRootOnly(t *testing.T) {
	store := specstest.NewStore()
	store.AddFile(specsDir, "a.txt", "first root")
	store.AddFile(filepath.Join("/second", "specs"), "b.txt", "second root")

	agg := newAggregator(store, nil)
	agg.Workspace.Roots = append(agg.Workspace.Roots, "/second")
	result := agg.Aggregate(context.Background())

	require.True(t, result.OK())
	assert.Contains(t, result.Content, "first root")
	assert.NotContains(t, result.Content, "second root")
}

func TestDecode(t *testing.T) {
	text, err := specs.Decode([]byte("\xEF\xBB\xBFhello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	text, err = specs.Decode([]byte("a\xffb"))
	require.NoError(t, err)
	assert.Equal(t, "a\uFFFDb", text)
}

func TestDirStore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".a.txt.swp"), []byte("swap"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	store, err := specs.NewDirStore([]string{"*.swp"})
	require.NoError(t, err)

	entries, err := store.List(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []specs.Entry{
		{Name: "a.txt", Kind: specs.KindFile},
		{Name: "b.txt", Kind: specs.KindFile},
		{Name: "sub", Kind: specs.KindDir},
	}, entries)

	data, err := store.Read(context.Background(), filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))

	_, err = store.List(context.Background(), filepath.Join(dir, "missing"))
	assert.True(t, stderrors.Is(err, os.ErrNotExist))
}

func TestDirStoreEndToEnd(t *testing.T) {
	ws := t.TempDir()
	dir := filepath.Join(ws, "specs")
	require.NoError(t, os.Mkdir(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("world"), 0644))

	store, err := specs.NewDirStore(nil)
	require.NoError(t, err)
	agg := &specs.Aggregator{Workspace: specs.Workspace{Roots: []string{ws}}, Store: store}

	result := agg.Aggregate(context.Background())
	require.True(t, result.OK(), result.Message())
	assert.Equal(t, "SPECS:\n----\n\nFile: a.txt\nhello\n----\n\nFile: b.txt\nworld\n----\n", result.Content)
}
