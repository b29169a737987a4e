// Package specs aggregates the files of a workspace's specs folder into a
// single text document, preferring unsaved editor buffers over disk content.
package specs

import (
	"context"
	"path/filepath"
)

// Kind distinguishes regular files from everything else in a folder listing.
type Kind int

const (
	// KindOther is anything that is neither a regular file nor a directory.
	KindOther Kind = iota
	// KindFile is a regular file; only these are aggregated.
	KindFile
	// KindDir is a subdirectory; never recursed into.
	KindDir
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	default:
		return "other"
	}
}

// Entry is one direct child of a folder.
type Entry struct {
	Name string
	Kind Kind
}

// FolderStore lists and reads files. List must return an error satisfying
// errors.Is(err, fs.ErrNotExist) when the folder does not exist.
type FolderStore interface {
	List(ctx context.Context, dir string) ([]Entry, error)
	Read(ctx context.Context, path string) ([]byte, error)
}

// BufferRegistry exposes open editor buffers. Dirty reports the text of the
// buffer whose path equals path, but only if that buffer has unsaved changes.
type BufferRegistry interface {
	Dirty(path string) (text string, ok bool)
}

// Workspace is the set of open root folders. Only the first one is used.
type Workspace struct {
	Roots []string
}

// Root returns the first workspace root.
func (w Workspace) Root() (string, bool) {
	if len(w.Roots) == 0 || w.Roots[0] == "" {
		return "", false
	}
	return w.Roots[0], true
}

// FolderPath returns the aggregated folder for this workspace.
func (w Workspace) FolderPath(folder string) (string, bool) {
	root, ok := w.Root()
	if !ok {
		return "", false
	}
	return filepath.Join(root, folder), true
}

// NoBuffers is a BufferRegistry with no open buffers.
type NoBuffers struct{}

// Dirty implements BufferRegistry.
func (NoBuffers) Dirty(string) (string, bool) { return "", false }
