package live

import (
	"context"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/emekaobi/staffintake/pkg/logging"
)

// Server upgrades HTTP requests to live sessions.
type Server struct {
	factory func() Component
	hooks   Hooks
	log     logging.Logger

	mu       sync.Mutex
	cancels  map[string]context.CancelFunc
	draining bool
}

// ServerOpt configures the server.
type ServerOpt func(*Server)

// WithServerHooks installs session lifecycle hooks.
func WithServerHooks(hooks Hooks) ServerOpt {
	return func(s *Server) { s.hooks = hooks }
}

// WithServerLogger sets the server logger.
func WithServerLogger(log logging.Logger) ServerOpt {
	return func(s *Server) { s.log = log }
}

// NewServer creates a live server. factory builds a fresh component per
// session.
func NewServer(factory func() Component, opts ...ServerOpt) *Server {
	s := &Server{
		factory: factory,
		log:     logging.NopLogger{},
		cancels: make(map[string]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ServeHTTP accepts a WebSocket connection and runs a session on it. The
// client may pass ?session=<key> to resume earlier state; otherwise a new
// key is issued.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	s.mu.Unlock()

	wsConn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.Warn("websocket accept failed", logging.Err(err))
		return
	}
	wsConn.SetReadLimit(64 * 1024)

	key := r.URL.Query().Get("session")
	if key == "" {
		key = uuid.NewString()
	}

	params := Params{"session": key}
	for name, values := range r.URL.Query() {
		if len(values) > 0 {
			params[name] = values[0]
		}
	}

	// Cancels are tracked per connection, not per session key: two tabs
	// sharing a key must not evict each other's entry.
	connID := uuid.NewString()
	ctx, cancel := context.WithCancel(r.Context())
	s.mu.Lock()
	s.cancels[connID] = cancel
	s.mu.Unlock()
	defer func() {
		cancel()
		s.mu.Lock()
		delete(s.cancels, connID)
		s.mu.Unlock()
	}()

	sess := NewSession(key, s.factory(), websocketConn{wsConn},
		WithHooks(s.hooks), WithLogger(s.log.With(logging.String("session", key))))

	s.log.Info("session started", logging.String("session", key))
	if err := sess.Run(ctx, params); err != nil {
		s.log.Error("session ended with error",
			logging.String("session", key), logging.Err(err))
		return
	}
	s.log.Info("session ended", logging.String("session", key))
}

// Shutdown refuses new sessions and cancels running ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.draining = true
	cancels := make([]context.CancelFunc, 0, len(s.cancels))
	for _, cancel := range s.cancels {
		cancels = append(cancels, cancel)
	}
	s.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	return nil
}

// websocketConn adapts a coder/websocket connection to the Conn interface.
type websocketConn struct {
	conn *websocket.Conn
}

func (w websocketConn) Read(ctx context.Context) ([]byte, error) {
	_, data, err := w.conn.Read(ctx)
	return data, err
}

func (w websocketConn) Write(ctx context.Context, data []byte) error {
	return w.conn.Write(ctx, websocket.MessageText, data)
}

func (w websocketConn) Close() error {
	return w.conn.Close(websocket.StatusNormalClosure, "bye")
}
