// Package live streams demo scenes to browsers over websockets. Each
// connection gets its own orchestrator ticking on the server; the client
// sends pointer and widget input and draws the frames it receives.
package live

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/graphica/graphica/internal/demo"
)

const (
	defaultWidth  = 800
	defaultHeight = 600
)

// Manager tracks the live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	tickRate       int
	idleTimeout    time.Duration
	originPatterns []string
	assets         func(id string) (string, error)
}

type Option func(*Manager)

// WithOrigins sets the accepted websocket origin patterns.
func WithOrigins(patterns []string) Option {
	return func(m *Manager) { m.originPatterns = patterns }
}

// WithIdleTimeout ends sessions that received no input for d.
func WithIdleTimeout(d time.Duration) Option {
	return func(m *Manager) { m.idleTimeout = d }
}

// WithAssets resolves the asset query parameter for the svg demo.
func WithAssets(resolve func(id string) (string, error)) Option {
	return func(m *Manager) { m.assets = resolve }
}

func NewManager(tickRate int, opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		tickRate: max(tickRate, 1),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Count returns the number of running sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Session returns a running session by id.
func (m *Manager) Session(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *Manager) add(s *Session) {
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	slog.Info("live session started", "session", s.ID, "demo", s.Demo)
}

func (m *Manager) remove(s *Session) {
	m.mu.Lock()
	delete(m.sessions, s.ID)
	m.mu.Unlock()
	slog.Info("live session ended", "session", s.ID, "demo", s.Demo)
}

func sizeParam(r *http.Request, name string, def float64) float64 {
	v, err := strconv.ParseFloat(r.URL.Query().Get(name), 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// ServeHTTP handles /ws/live/{demo}?w=&h=&asset=.
func (m *Manager) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["demo"]
	if _, ok := demo.Lookup(name); !ok {
		http.Error(w, "unknown demo", http.StatusNotFound)
		return
	}

	var opts demo.Options
	if id := r.URL.Query().Get("asset"); id != "" && m.assets != nil {
		path, err := m.assets(id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		opts.SVGPath = path
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: m.originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := newClient(conn)
	interval := time.Second / time.Duration(m.tickRate)
	s, err := NewSession(name, sizeParam(r, "w", defaultWidth), sizeParam(r, "h", defaultHeight), interval, opts, client.Send)
	if err != nil {
		slog.Error("create live session", "demo", name, "error", err)
		conn.Close(websocket.StatusInternalError, "scene failed to build")
		return
	}
	s.Idle = m.idleTimeout
	client.session = s

	m.add(s)
	defer m.remove(s)

	welcome, _ := newMessage(TypeWelcome, WelcomePayload{
		SessionID: s.ID,
		Demo:      name,
		Demos:     demo.Names(),
		TickRate:  m.tickRate,
	})
	welcome.SessionID = s.ID
	client.Send(welcome)

	go client.WritePump(ctx)
	go client.ReadPump(ctx, cancel)

	err = s.Run(ctx)
	// the session goroutine was the only sender; deliver its last messages
	// before closing
	client.Flush()
	switch {
	case errors.Is(err, ErrIdle):
		conn.Close(websocket.StatusNormalClosure, "idle timeout")
	case errors.Is(err, context.Canceled):
	case err != nil:
		slog.Error("live session failed", "session", s.ID, "error", err)
		conn.Close(websocket.StatusInternalError, "scene stopped")
	default:
		conn.Close(websocket.StatusNormalClosure, "")
	}
}
