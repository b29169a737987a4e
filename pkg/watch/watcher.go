// Package watch reports file creations, changes and deletions among the
// direct children of one folder.
package watch

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/specpreview/logging"
	"github.com/sirupsen/logrus"
)

// Op is the kind of change observed.
type Op uint8

const (
	// Created indicates a file or directory appeared.
	Created Op = iota + 1
	// Changed indicates a file was written.
	Changed
	// Deleted indicates a file or directory was removed or renamed away.
	Deleted
)

func (o Op) String() string {
	switch o {
	case Created:
		return "created"
	case Changed:
		return "changed"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Event is one observed change.
type Event struct {
	Path string
	Op   Op
}

// Watcher watches the direct children of a folder. The folder's parent is
// watched as well so the folder itself appearing or disappearing is reported
// and a folder created after the watcher started is picked up.
type Watcher struct {
	fsw    *fsnotify.Watcher
	dir    string
	parent string
	events chan Event
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
	logger *logrus.Entry
}

// New starts watching dir.
func New(dir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:    fsw,
		dir:    filepath.Clean(dir),
		parent: filepath.Dir(filepath.Clean(dir)),
		events: make(chan Event),
		done:   make(chan struct{}),
		logger: logging.NewLogger("watch"),
	}

	if err := fsw.Add(w.parent); err != nil {
		w.logger.WithError(err).WithField("dir", w.parent).Debug("Parent folder not watchable")
	}
	if err := fsw.Add(w.dir); err != nil {
		// Not fatal: the folder may be created later.
		w.logger.WithError(err).WithField("dir", w.dir).Debug("Folder not watchable yet")
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Events returns the event channel. It is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Close stops watching and releases the underlying watcher. Safe to call
// more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
		close(w.events)
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev, ok := w.translate(event); ok {
				select {
				case w.events <- ev:
				case <-w.done:
					return
				}
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Warn("Watcher error")
		}
	}
}

// translate maps an fsnotify event onto an Event, dropping anything that is
// not about the folder or one of its direct children.
func (w *Watcher) translate(event fsnotify.Event) (Event, bool) {
	name := filepath.Clean(event.Name)

	var op Op
	switch {
	case event.Op&fsnotify.Create != 0:
		op = Created
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		op = Deleted
	case event.Op&fsnotify.Write != 0:
		op = Changed
	default:
		return Event{}, false
	}

	switch {
	case name == w.dir:
		if op == Created {
			if err := w.fsw.Add(w.dir); err != nil {
				w.logger.WithError(err).WithField("dir", w.dir).Warn("Failed to watch new folder")
			}
		}
	case filepath.Dir(name) == w.dir:
	default:
		return Event{}, false
	}

	w.logger.WithField("path", name).Debugf("fsnotify %s", op)
	return Event{Path: name, Op: op}, true
}
