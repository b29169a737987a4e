// Package specstest provides in-memory FolderStore and BufferRegistry
// implementations for tests.
package specstest

import (
	"context"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/grovetools/specpreview/pkg/specs"
)

// Store is an in-memory specs.FolderStore. Entries are listed in insertion
// order. It records every read so tests can assert what was touched.
type Store struct {
	mu       sync.Mutex
	dirs     map[string][]specs.Entry
	files    map[string][]byte
	failures map[string]error
	reads    []string
	lists    int
	// BeforeRead, when set, runs before every Read and may block.
	BeforeRead func(path string)
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		dirs:     make(map[string][]specs.Entry),
		files:    make(map[string][]byte),
		failures: make(map[string]error),
	}
}

// AddDir registers an (initially empty) directory.
func (s *Store) AddDir(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.dirs[dir]; !ok {
		s.dirs[dir] = nil
	}
}

// AddFile adds or replaces a regular file inside dir.
func (s *Store) AddFile(dir, name, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := filepath.Join(dir, name)
	if _, exists := s.files[path]; !exists {
		s.dirs[dir] = append(s.dirs[dir], specs.Entry{Name: name, Kind: specs.KindFile})
	}
	s.files[path] = []byte(content)
}

// AddSubdir adds a subdirectory entry inside dir.
func (s *Store) AddSubdir(dir, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirs[dir] = append(s.dirs[dir], specs.Entry{Name: name, Kind: specs.KindDir})
	sub := filepath.Join(dir, name)
	if _, ok := s.dirs[sub]; !ok {
		s.dirs[sub] = nil
	}
}

// Fail makes List or Read of path return err.
func (s *Store) Fail(path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = err
}

// List implements specs.FolderStore.
func (s *Store) List(ctx context.Context, dir string) ([]specs.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if err := s.failures[dir]; err != nil {
		return nil, err
	}
	entries, ok := s.dirs[dir]
	if !ok {
		return nil, &fs.PathError{Op: "readdir", Path: dir, Err: fs.ErrNotExist}
	}
	return append([]specs.Entry(nil), entries...), nil
}

// Read implements specs.FolderStore.
func (s *Store) Read(ctx context.Context, path string) ([]byte, error) {
	if s.BeforeRead != nil {
		s.BeforeRead(path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads = append(s.reads, path)
	if err := s.failures[path]; err != nil {
		return nil, err
	}
	data, ok := s.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

// Reads returns the paths read so far.
func (s *Store) Reads() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.reads...)
}

// Lists returns how many times List was called.
func (s *Store) Lists() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lists
}

// Buffers is an in-memory specs.BufferRegistry.
type Buffers struct {
	mu      sync.Mutex
	buffers map[string]buffer
}

type buffer struct {
	text  string
	dirty bool
}

// NewBuffers returns an empty Buffers.
func NewBuffers() *Buffers {
	return &Buffers{buffers: make(map[string]buffer)}
}

// Open sets the buffer for path.
func (b *Buffers) Open(path, text string, dirty bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buffers[path] = buffer{text: text, dirty: dirty}
}

// Dirty implements specs.BufferRegistry.
func (b *Buffers) Dirty(path string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	buf, ok := b.buffers[path]
	if !ok || !buf.dirty {
		return "", false
	}
	return buf.text, true
}
