package specs

import (
	"context"
	"fmt"
	"os"

	"github.com/moby/patternmatcher"
)

// DirStore is a FolderStore over the local file system. Entries come back in
// os.ReadDir order (sorted by file name).
type DirStore struct {
	exclude *patternmatcher.PatternMatcher
}

// NewDirStore returns a DirStore that hides entries matching any of the
// exclude patterns (.dockerignore syntax, matched against the entry name).
func NewDirStore(exclude []string) (*DirStore, error) {
	s := &DirStore{}
	if len(exclude) > 0 {
		pm, err := patternmatcher.New(exclude)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude patterns: %w", err)
		}
		s.exclude = pm
	}
	return s, nil
}

// List implements FolderStore.
func (s *DirStore) List(ctx context.Context, dir string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		excluded, err := s.Excluded(de.Name())
		if err != nil {
			return nil, err
		}
		if excluded {
			continue
		}

		kind := KindOther
		switch {
		case de.Type().IsRegular():
			kind = KindFile
		case de.IsDir():
			kind = KindDir
		}
		entries = append(entries, Entry{Name: de.Name(), Kind: kind})
	}
	return entries, nil
}

// Read implements FolderStore.
func (s *DirStore) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Excluded reports whether name matches the exclude patterns.
func (s *DirStore) Excluded(name string) (bool, error) {
	if s.exclude == nil {
		return false, nil
	}
	return s.exclude.MatchesOrParentMatches(name)
}
