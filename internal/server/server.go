// Package server provides the HTTP preview target: a page that always shows
// the latest rendered view, kept current over a WebSocket.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/grovetools/specpreview/errors"
	"github.com/grovetools/specpreview/pkg/buffers"
	"github.com/grovetools/specpreview/pkg/render"
)

const writeTimeout = 10 * time.Second

// liveScript keeps the page in sync with the session. Each message carries a
// full view which replaces the whole document.
const liveScript = `<script>
(function () {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(proto + location.host + "/ws");
    ws.onmessage = function (ev) {
        var msg = JSON.parse(ev.data);
        var doc = new DOMParser().parseFromString(msg.html, "text/html");
        document.head.innerHTML = doc.head.innerHTML;
        document.body.innerHTML = doc.body.innerHTML;
    };
    ws.onclose = function () { document.title = "specpreview (disconnected)"; };
})();
</script>
`

// Update is a view together with its position in the stream of views.
type Update struct {
	render.View
	Seq uint64 `json:"seq"`
}

// Options configure a Server.
type Options struct {
	// Buffers enables the buffer API when set.
	Buffers *buffers.Memory
	// Gatherer backs /metrics when set.
	Gatherer prometheus.Gatherer
}

// Server is a preview sink served over HTTP.
type Server struct {
	logger   *logrus.Entry
	server   *http.Server
	buffers  *buffers.Memory
	gatherer prometheus.Gatherer
	upgrader websocket.Upgrader

	mu          sync.RWMutex
	current     Update
	subscribers map[chan Update]struct{}

	closed    chan struct{}
	closeOnce sync.Once
}

// New creates a new Server. It shows an empty page until the first Show.
func New(logger *logrus.Entry, opts Options) *Server {
	s := &Server{
		logger:      logger,
		buffers:     opts.Buffers,
		gatherer:    opts.Gatherer,
		subscribers: make(map[chan Update]struct{}),
		closed:      make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     sameHost,
		},
	}
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func sameHost(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	origin = strings.TrimPrefix(strings.TrimPrefix(origin, "http://"), "https://")
	return origin == r.Host
}

// Show implements preview.Sink. The view replaces the current one and is
// pushed to every connected client.
func (s *Server) Show(view render.View) error {
	s.mu.Lock()
	s.current = Update{View: view, Seq: s.current.Seq + 1}
	u := s.current
	for ch := range s.subscribers {
		// Each client holds at most one pending update: the newest.
		select {
		case <-ch:
		default:
		}
		ch <- u
	}
	s.mu.Unlock()
	return nil
}

// Closed implements preview.Sink.
func (s *Server) Closed() <-chan struct{} {
	return s.closed
}

// Close marks the preview target as closed. Safe to call more than once.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
}

// Current returns the view currently shown.
func (s *Server) Current() Update {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Server) subscribe() (chan Update, Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Update, 1)
	s.subscribers[ch] = struct{}{}
	return ch, s.current
}

func (s *Server) unsubscribe(ch chan Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subscribers, ch)
}

// Handler returns the HTTP handler with all routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/api/view", s.handleView)
	mux.HandleFunc("/api/stream", s.handleStream)
	mux.HandleFunc("/api/buffers", s.handleBuffers)
	mux.HandleFunc("/api/close", s.handleClose)

	if s.gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return h2c.NewHandler(mux, &http2.Server{})
}

// Listen opens the TCP listener for addr.
func (s *Server) Listen(addr string) (net.Listener, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.PortConflict(addr, err)
	}
	return l, nil
}

// Serve serves on l until Shutdown. It returns nil after a clean shutdown,
// including when Shutdown ran before Serve.
func (s *Server) Serve(l net.Listener) error {
	s.logger.WithField("addr", l.Addr().String()).Info("Preview listening")
	if err := s.server.Serve(l); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Debug("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// handleIndex serves the current view with the live-update script.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	fmt.Fprint(w, withLiveScript(s.Current().HTML))
}

func withLiveScript(html string) string {
	if i := strings.LastIndex(html, "</body>"); i >= 0 {
		return html[:i] + liveScript + html[i:]
	}
	return html + liveScript
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Current())
}

// handleWebSocket pushes every view to the client, starting with the current one.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Debug("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ch, current := s.subscribe()
	defer s.unsubscribe(ch)

	// Reads only serve to notice the client going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	s.logger.Debug("WebSocket client connected")
	send := func(u Update) bool {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		return conn.WriteJSON(u) == nil
	}
	if current.Seq > 0 && !send(current) {
		return
	}

	for {
		select {
		case <-gone:
			s.logger.Debug("WebSocket client disconnected")
			return
		case <-s.closed:
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "preview closed"),
				time.Now().Add(time.Second))
			return
		case u := <-ch:
			if !send(u) {
				return
			}
		}
	}
}

// handleStream provides Server-Sent Events for clients without WebSocket
// support.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, current := s.subscribe()
	defer s.unsubscribe(ch)

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	write := func(u Update) {
		data, err := json.Marshal(u)
		if err != nil {
			s.logger.WithError(err).Error("Failed to marshal view")
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}
	if current.Seq > 0 {
		write(current)
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.closed:
			return
		case u := <-ch:
			write(u)
		}
	}
}

// handleBuffers lets editors without Neovim report open buffers.
// GET lists, PUT opens or updates, DELETE ?path= closes.
func (s *Server) handleBuffers(w http.ResponseWriter, r *http.Request) {
	if s.buffers == nil {
		http.Error(w, "buffer API disabled", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.buffers.List())

	case http.MethodPut, http.MethodPost:
		var buf buffers.Buffer
		if err := json.NewDecoder(r.Body).Decode(&buf); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if buf.Path == "" {
			http.Error(w, "path is required", http.StatusBadRequest)
			return
		}
		s.buffers.Set(buf)
		s.logger.WithFields(logrus.Fields{"path": buf.Path, "dirty": buf.Dirty}).Debug("Buffer updated")
		w.WriteHeader(http.StatusNoContent)

	case http.MethodDelete:
		path := r.URL.Query().Get("path")
		if path == "" {
			http.Error(w, "path is required", http.StatusBadRequest)
			return
		}
		if !s.buffers.Remove(path) {
			http.Error(w, "buffer not open", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.logger.Info("Preview closed by client")
	s.Close()
	w.WriteHeader(http.StatusAccepted)
}
