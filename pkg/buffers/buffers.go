// Package buffers provides registries of open editor buffers and the change
// notifications they emit.
package buffers

import (
	"path/filepath"
	"sync"

	"github.com/grovetools/specpreview/pkg/specs"
)

// Registry is a BufferRegistry that also reports edits. Every edit to any
// open buffer publishes the buffer's path to all subscribers.
type Registry interface {
	specs.BufferRegistry
	SubscribeChanges() (<-chan string, func())
}

// hub fans change notifications out to subscribers.
type hub struct {
	mu          sync.Mutex
	subscribers map[chan string]struct{}
}

func newHub() *hub {
	return &hub{subscribers: make(map[chan string]struct{})}
}

func (h *hub) subscribe() (<-chan string, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan string, 64)
	h.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			// closeAll may have closed it already.
			if _, ok := h.subscribers[ch]; ok {
				delete(h.subscribers, ch)
				close(ch)
			}
		})
	}
}

func (h *hub) publish(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		select {
		case ch <- path:
		default:
			// Drop for slow subscribers rather than stall the editor.
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		delete(h.subscribers, ch)
		close(ch)
	}
}

// Memory is an in-process Registry, fed by editors over the HTTP buffer API
// and used by tests.
type Memory struct {
	mu      sync.RWMutex
	buffers map[string]Buffer
	hub     *hub
}

// Buffer is the state of one open document.
type Buffer struct {
	Path  string `json:"path"`
	Text  string `json:"text"`
	Dirty bool   `json:"dirty"`
}

// NewMemory returns an empty Memory registry.
func NewMemory() *Memory {
	return &Memory{
		buffers: make(map[string]Buffer),
		hub:     newHub(),
	}
}

// Set opens or updates a buffer and publishes a change for it.
func (m *Memory) Set(buf Buffer) {
	buf.Path = filepath.Clean(buf.Path)
	m.mu.Lock()
	m.buffers[buf.Path] = buf
	m.mu.Unlock()
	m.hub.publish(buf.Path)
}

// Remove closes a buffer. Closing a dirty buffer discards its edits, which
// is published as a change.
func (m *Memory) Remove(path string) bool {
	path = filepath.Clean(path)
	m.mu.Lock()
	_, ok := m.buffers[path]
	delete(m.buffers, path)
	m.mu.Unlock()
	if ok {
		m.hub.publish(path)
	}
	return ok
}

// List returns all open buffers.
func (m *Memory) List() []Buffer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Buffer, 0, len(m.buffers))
	for _, buf := range m.buffers {
		out = append(out, buf)
	}
	return out
}

// Dirty implements specs.BufferRegistry.
func (m *Memory) Dirty(path string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	buf, ok := m.buffers[path]
	if !ok || !buf.Dirty {
		return "", false
	}
	return buf.Text, true
}

// SubscribeChanges implements Registry.
func (m *Memory) SubscribeChanges() (<-chan string, func()) {
	return m.hub.subscribe()
}

// Chain consults several registries in order; the first dirty buffer wins.
// Change notifications of all members are merged.
type Chain []Registry

// Dirty implements specs.BufferRegistry.
func (c Chain) Dirty(path string) (string, bool) {
	for _, r := range c {
		if text, ok := r.Dirty(path); ok {
			return text, true
		}
	}
	return "", false
}

// SubscribeChanges implements Registry.
func (c Chain) SubscribeChanges() (<-chan string, func()) {
	out := make(chan string, 64)
	done := make(chan struct{})
	var wg sync.WaitGroup
	var cancels []func()

	for _, r := range c {
		ch, cancel := r.SubscribeChanges()
		cancels = append(cancels, cancel)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case path, ok := <-ch:
					if !ok {
						return
					}
					select {
					case out <- path:
					case <-done:
						return
					}
				case <-done:
					return
				}
			}
		}()
	}

	var once sync.Once
	return out, func() {
		once.Do(func() {
			close(done)
			for _, cancel := range cancels {
				cancel()
			}
			wg.Wait()
			close(out)
		})
	}
}
