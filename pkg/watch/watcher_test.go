package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nextEvent(t *testing.T, w *Watcher, match func(Event) bool) Event {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-w.Events():
			require.True(t, ok, "events channel closed")
			if match(ev) {
				return ev
			}
		case <-timeout:
			t.Fatal("timed out waiting for watch event")
		}
	}
}

func TestWatcherReportsChildChanges(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	dir := filepath.Join(t.TempDir(), "specs")
	require.NoError(t, os.Mkdir(dir, 0755))

	w, err := New(dir)
	require.NoError(t, err)
	defer w.Close()

	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("hello"), 0644))
	ev := nextEvent(t, w, func(e Event) bool { return e.Path == file })
	assert.Equal(t, Created, ev.Op)

	require.NoError(t, os.Remove(file))
	ev = nextEvent(t, w, func(e Event) bool { return e.Path == file && e.Op == Deleted })
	assert.Equal(t, Deleted, ev.Op)
}

func TestWatcherPicksUpLateFolder(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	root := t.TempDir()
	dir := filepath.Join(root, "specs")

	w, err := New(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.Mkdir(dir, 0755))
	ev := nextEvent(t, w, func(e Event) bool { return e.Path == dir })
	assert.Equal(t, Created, ev.Op)

	file := filepath.Join(dir, "late.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	nextEvent(t, w, func(e Event) bool { return e.Path == file })
}

func TestTranslateScope(t *testing.T) {
	w := &Watcher{dir: "/w/specs", parent: "/w", logger: logrus.NewEntry(logrus.New())}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  Event
		ok    bool
	}{
		{"child write", fsnotify.Event{Name: "/w/specs/a.txt", Op: fsnotify.Write}, Event{"/w/specs/a.txt", Changed}, true},
		{"child create", fsnotify.Event{Name: "/w/specs/a.txt", Op: fsnotify.Create}, Event{"/w/specs/a.txt", Created}, true},
		{"child rename", fsnotify.Event{Name: "/w/specs/a.txt", Op: fsnotify.Rename}, Event{"/w/specs/a.txt", Deleted}, true},
		{"folder removed", fsnotify.Event{Name: "/w/specs", Op: fsnotify.Remove}, Event{"/w/specs", Deleted}, true},
		{"chmod ignored", fsnotify.Event{Name: "/w/specs/a.txt", Op: fsnotify.Chmod}, Event{}, false},
		{"sibling ignored", fsnotify.Event{Name: "/w/README.md", Op: fsnotify.Write}, Event{}, false},
		{"grandchild ignored", fsnotify.Event{Name: "/w/specs/sub/x.txt", Op: fsnotify.Write}, Event{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := w.translate(tt.event)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	w, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, w.Close())
	assert.NotPanics(t, func() { _ = w.Close() })

	_, ok := <-w.Events()
	assert.False(t, ok, "events channel should be closed")
}
