package specs

import (
	"context"
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/grovetools/specpreview/errors"
	"golang.org/x/text/encoding/unicode"
)

const (
	// DefaultFolder is the folder aggregated when none is configured.
	DefaultFolder = "specs"

	header    = "SPECS:\n----\n"
	separator = "\n----\n"
)

// Result is the outcome of one aggregation: exactly one of Content or Err is set.
type Result struct {
	Content string
	Err     *errors.PreviewError
}

// OK reports whether the aggregation succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Message returns the user-visible error message, or "" on success.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Message
}

// Aggregator builds the aggregated document for one workspace folder.
type Aggregator struct {
	Workspace Workspace
	Folder    string
	Store     FolderStore
	Buffers   BufferRegistry
}

// Aggregate lists the folder, resolves each regular file's content and
// concatenates the blocks in listing order. Any failure aborts the whole
// aggregation; nothing partial is returned.
func (a *Aggregator) Aggregate(ctx context.Context) Result {
	folder := a.Folder
	if folder == "" {
		folder = DefaultFolder
	}

	dir, ok := a.Workspace.FolderPath(folder)
	if !ok {
		return Result{Err: errors.NoWorkspace()}
	}

	entries, err := a.Store.List(ctx, dir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return Result{Err: errors.SpecsFolderMissing(dir)}
		}
		return Result{Err: errors.UnexpectedIO(err)}
	}

	buffers := a.Buffers
	if buffers == nil {
		buffers = NoBuffers{}
	}

	var b strings.Builder
	b.WriteString(header)
	for _, entry := range entries {
		if entry.Kind != KindFile {
			continue
		}

		path := filepath.Join(dir, entry.Name)
		content, err := resolve(ctx, a.Store, buffers, path)
		if err != nil {
			return Result{Err: errors.UnexpectedIO(err).WithDetail("file", path)}
		}

		b.WriteString("\nFile: ")
		b.WriteString(entry.Name)
		b.WriteString("\n")
		b.WriteString(content)
		b.WriteString(separator)
	}

	return Result{Content: b.String()}
}

// resolve returns the dirty buffer text for path when there is one, else the
// decoded file content.
func resolve(ctx context.Context, store FolderStore, buffers BufferRegistry, path string) (string, error) {
	if text, ok := buffers.Dirty(path); ok {
		return text, nil
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := store.Read(ctx, path)
	if err != nil {
		return "", err
	}
	return Decode(data)
}

// Decode decodes bytes as UTF-8 text: a leading byte order mark is dropped
// and invalid sequences become U+FFFD.
func Decode(data []byte) (string, error) {
	out, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
