package profiling

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Span is one completed timing.
type Span struct {
	Name     string
	Start    time.Time
	Duration time.Duration
}

// Timer records named spans once enabled. It is safe for concurrent use.
type Timer struct {
	mu      sync.Mutex
	enabled bool
	started time.Time
	spans   []Span
}

// Default is the process-wide timer behind Track.
var Default = &Timer{}

// Enable starts recording. Spans begun before Enable are not kept.
func (t *Timer) Enable() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.enabled {
		return
	}
	t.enabled = true
	t.started = time.Now()
}

// Enabled reports whether spans are being recorded.
func (t *Timer) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

// Track starts a span and returns the function that ends it:
//
//	defer timer.Track("aggregate")()
func (t *Timer) Track(name string) func() {
	if !t.Enabled() {
		return func() {}
	}
	start := time.Now()
	return func() {
		t.mu.Lock()
		t.spans = append(t.spans, Span{Name: name, Start: start, Duration: time.Since(start)})
		t.mu.Unlock()
	}
}

// Spans returns the recorded spans in completion order.
func (t *Timer) Spans() []Span {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Span(nil), t.spans...)
}

// Summarize prints each span with its share of the time since Enable.
func (t *Timer) Summarize(w io.Writer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled {
		return
	}

	total := time.Since(t.started)
	fmt.Fprintln(w, "\n--- Timing Profile ---")
	for _, s := range t.spans {
		pct := 0.0
		if total > 0 {
			pct = float64(s.Duration) / float64(total) * 100
		}
		fmt.Fprintf(w, "- %s (%v, %.1f%%)\n", s.Name, s.Duration.Round(100*time.Microsecond), pct)
	}
	fmt.Fprintf(w, "total %v\n", total.Round(100*time.Microsecond))
	fmt.Fprintln(w, "--------------------")
}

// Track records a span on Default.
func Track(name string) func() {
	return Default.Track(name)
}
