// Package preview keeps a display target in sync with a workspace's specs
// folder. A Session renders once when opened and again on every file or
// buffer event until it is disposed.
package preview

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/specpreview/errors"
	"github.com/grovetools/specpreview/logging"
	"github.com/grovetools/specpreview/pkg/render"
	"github.com/grovetools/specpreview/pkg/specs"
	"github.com/grovetools/specpreview/pkg/watch"
)

// State is the lifecycle state of a Session.
type State int

const (
	StateUninitialized State = iota
	StateActive
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateDisposed:
		return "disposed"
	default:
		return "uninitialized"
	}
}

// Sink is a display target. Show replaces everything currently displayed.
// Closed is closed when the user closes the target.
type Sink interface {
	Show(view render.View) error
	Closed() <-chan struct{}
}

// ChangeSource reports the paths of edited editor buffers.
type ChangeSource interface {
	SubscribeChanges() (<-chan string, func())
}

// FolderWatcher reports changes to the direct children of a folder.
type FolderWatcher interface {
	Events() <-chan watch.Event
	Close() error
}

// WatchFunc starts watching a folder.
type WatchFunc func(dir string) (FolderWatcher, error)

// WatchFolder is the default WatchFunc, backed by fsnotify.
func WatchFolder(dir string) (FolderWatcher, error) {
	w, err := watch.New(dir)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Options configure a Session.
type Options struct {
	Aggregator *specs.Aggregator
	Sink       Sink
	// Watch defaults to WatchFolder.
	Watch WatchFunc
	// Changes is optional; without it buffer edits are not observed.
	Changes ChangeSource
	Metrics *Metrics
	Logger  *logrus.Entry
}

// Session binds one display target to the specs folder. All methods are
// safe for concurrent use.
type Session struct {
	agg     *specs.Aggregator
	sink    Sink
	metrics *Metrics
	logger  *logrus.Entry
	dir     string

	mu      sync.Mutex
	state   State
	seq     uint64
	applied uint64
	view    render.View

	watcher       FolderWatcher
	changes       <-chan string
	cancelChanges func()

	ctx      context.Context
	cancel   context.CancelFunc
	inflight sync.WaitGroup
	once     sync.Once
	disposed chan struct{}
}

// Open renders the preview once and then subscribes to folder and buffer
// events. Without a workspace root the error view is shown and no
// subscriptions are made. The session is disposed when the sink closes,
// when ctx is cancelled, or when Dispose is called.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if opts.Aggregator == nil || opts.Sink == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "preview session requires an aggregator and a sink")
	}
	if opts.Watch == nil {
		opts.Watch = WatchFolder
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewLogger("preview")
	}

	s := &Session{
		agg:      opts.Aggregator,
		sink:     opts.Sink,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		disposed: make(chan struct{}),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.mu.Lock()
	s.state = StateActive
	s.mu.Unlock()
	s.metrics.sessionDelta(1)

	s.Refresh(ctx)

	folder := s.agg.Folder
	if folder == "" {
		folder = specs.DefaultFolder
	}
	if dir, ok := s.agg.Workspace.FolderPath(folder); ok {
		s.dir = dir
		w, err := opts.Watch(dir)
		if err != nil {
			s.logger.WithError(err).WithField("dir", dir).Warn("Folder watch unavailable; file changes will not refresh the preview")
		} else {
			s.watcher = w
		}
		if opts.Changes != nil {
			s.changes, s.cancelChanges = opts.Changes.SubscribeChanges()
		}
	} else {
		s.logger.Debug("No workspace root; preview will not be refreshed")
	}

	go s.run(ctx)
	return s, nil
}

func (s *Session) run(parent context.Context) {
	var events <-chan watch.Event
	if s.watcher != nil {
		events = s.watcher.Events()
	}
	changes := s.changes

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			s.logger.WithFields(logrus.Fields{"path": ev.Path, "op": ev.Op}).Debug("Folder changed")
			s.trigger("watch")
		case path, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			if strings.HasPrefix(path, s.dir) {
				s.logger.WithField("path", path).Debug("Buffer changed")
				s.trigger("buffer")
			}
		case <-s.sink.Closed():
			s.logger.Debug("Preview closed")
			s.Dispose()
			return
		case <-parent.Done():
			s.Dispose()
			return
		case <-s.disposed:
			return
		}
	}
}

// trigger starts an independent refresh. Overlapping refreshes are allowed;
// the sequence check in apply keeps the newest one.
func (s *Session) trigger(source string) {
	seq, ok := s.begin()
	if !ok {
		return
	}
	s.metrics.trigger(source)
	go func() {
		defer s.inflight.Done()
		s.refresh(s.ctx, seq)
	}()
}

// begin reserves a sequence number. The caller must call inflight.Done.
func (s *Session) begin() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return 0, false
	}
	s.seq++
	s.inflight.Add(1)
	return s.seq, true
}

// Refresh re-aggregates the folder and replaces the displayed view. It does
// nothing once the session is disposed.
func (s *Session) Refresh(ctx context.Context) {
	seq, ok := s.begin()
	if !ok {
		return
	}
	defer s.inflight.Done()
	s.refresh(ctx, seq)
}

func (s *Session) refresh(ctx context.Context, seq uint64) {
	start := time.Now()

	result := s.agg.Aggregate(ctx)
	var view render.View
	if result.OK() {
		view = render.Content(result.Content)
	} else {
		view = render.Error(result.Message())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return
	}
	if seq <= s.applied {
		s.metrics.stale()
		s.logger.WithFields(logrus.Fields{"seq": seq, "applied": s.applied}).Debug("Dropping stale refresh")
		return
	}
	s.applied = seq
	s.view = view
	if err := s.sink.Show(view); err != nil {
		s.logger.WithError(err).Warn("Failed to update preview")
	}
	s.metrics.applied(string(view.Kind), time.Since(start))
	if !result.OK() {
		s.logger.WithField("code", result.Err.Code).Debug(result.Message())
	}
}

// Dispose releases the watcher and the buffer subscription and waits for
// in-flight refreshes. Only the first call has any effect.
func (s *Session) Dispose() {
	s.once.Do(func() {
		s.mu.Lock()
		s.state = StateDisposed
		s.mu.Unlock()

		close(s.disposed)
		s.cancel()
		if s.watcher != nil {
			if err := s.watcher.Close(); err != nil {
				s.logger.WithError(err).Debug("Closing folder watcher")
			}
		}
		if s.cancelChanges != nil {
			s.cancelChanges()
		}
		s.inflight.Wait()
		s.metrics.sessionDelta(-1)
		s.logger.Debug("Preview session disposed")
	})
}

// Done is closed once the session has been disposed.
func (s *Session) Done() <-chan struct{} {
	return s.disposed
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// View returns the last view shown and its sequence number.
func (s *Session) View() (render.View, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view, s.applied
}
