package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/emekaobi/staffintake/pkg/logging"
)

// Session errors.
var (
	ErrSessionClosed = errors.New("live: session closed")
)

// Conn is the wire connection a session reads events from and writes
// renders to. Implemented by the WebSocket glue in this package and by test
// doubles.
type Conn interface {
	// Read blocks until the next client frame arrives.
	Read(ctx context.Context) ([]byte, error)

	// Write sends one frame to the client.
	Write(ctx context.Context, data []byte) error

	// Close closes the connection.
	Close() error
}

// clientEvent is the frame the client sends for every interaction.
type clientEvent struct {
	Event   string         `json:"event"`
	Payload map[string]any `json:"payload"`
}

// serverFrame is what the session pushes back after processing an event.
type serverFrame struct {
	Type  string `json:"type"`            // "render" or "error"
	HTML  string `json:"html,omitempty"`  // for render frames
	Error string `json:"error,omitempty"` // for error frames
}

// Hooks observe the session lifecycle. Used by applications to persist and
// restore component state around events.
type Hooks struct {
	// AfterMount runs once after the component mounted, before the first
	// render is pushed.
	AfterMount func(ctx context.Context, key string, c Component)

	// AfterEvent runs after every processed event or info message.
	AfterEvent func(ctx context.Context, key string, c Component)
}

// Session drives one component over one connection. All component calls
// happen on the goroutine running Run.
type Session struct {
	key    string
	comp   Component
	conn   Conn
	hooks  Hooks
	log    logging.Logger
	info   chan any
	closed chan struct{}
}

// SessionOpt configures a session.
type SessionOpt func(*Session)

// WithHooks installs lifecycle hooks.
func WithHooks(hooks Hooks) SessionOpt {
	return func(s *Session) { s.hooks = hooks }
}

// WithLogger sets the session logger.
func WithLogger(log logging.Logger) SessionOpt {
	return func(s *Session) { s.log = log }
}

// NewSession creates a session for one component instance. The key
// identifies the client across reconnects.
func NewSession(key string, comp Component, conn Conn, opts ...SessionOpt) *Session {
	s := &Session{
		key:    key,
		comp:   comp,
		conn:   conn,
		log:    logging.NopLogger{},
		info:   make(chan any, 16),
		closed: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the session key.
func (s *Session) Key() string {
	return s.key
}

// Notify delivers an internal message to the component via the session's
// event loop. Safe to call from any goroutine.
func (s *Session) Notify(msg any) {
	select {
	case s.info <- msg:
	case <-s.closed:
	}
}

// Run mounts the component and processes events until the connection drops
// or ctx is canceled. It always terminates the component before returning.
func (s *Session) Run(ctx context.Context, params Params) error {
	if target, ok := s.comp.(InfoTarget); ok {
		target.SetNotifier(s.Notify)
	}

	if err := s.comp.Mount(ctx, params); err != nil {
		s.terminate(ctx, TerminateError)
		return fmt.Errorf("mount %s: %w", s.comp.Name(), err)
	}
	if s.hooks.AfterMount != nil {
		s.hooks.AfterMount(ctx, s.key, s.comp)
	}
	if err := s.push(ctx); err != nil {
		s.terminate(ctx, TerminateError)
		return err
	}

	// Reader goroutine feeds frames; the loop below is the only place
	// component methods run.
	frames := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		for {
			data, err := s.conn.Read(ctx)
			if err != nil {
				readErr <- err
				return
			}
			select {
			case frames <- data:
			case <-s.closed:
				return
			}
		}
	}()
	defer close(s.closed)

	for {
		select {
		case <-ctx.Done():
			s.terminate(ctx, TerminateShutdown)
			return ctx.Err()

		case err := <-readErr:
			// Client went away; a reconnect with the same key resumes
			// from the saved draft.
			s.log.Debug("session read ended", logging.Err(err))
			s.terminate(context.WithoutCancel(ctx), TerminateNormal)
			return nil

		case data := <-frames:
			var ev clientEvent
			if err := json.Unmarshal(data, &ev); err != nil {
				s.log.Warn("dropping malformed event frame", logging.Err(err))
				continue
			}
			if err := s.dispatch(ctx, func() error {
				return s.comp.HandleEvent(ctx, ev.Event, ev.Payload)
			}); err != nil {
				s.terminate(ctx, TerminateError)
				return err
			}

		case msg := <-s.info:
			if err := s.dispatch(ctx, func() error {
				return s.comp.HandleInfo(ctx, msg)
			}); err != nil {
				s.terminate(ctx, TerminateError)
				return err
			}
		}
	}
}

// dispatch runs one handler, then the hooks and a render push.
func (s *Session) dispatch(ctx context.Context, handle func() error) error {
	if err := handle(); err != nil {
		s.log.Error("component handler failed",
			logging.String("component", s.comp.Name()),
			logging.Err(err))
		frame, _ := json.Marshal(serverFrame{Type: "error", Error: err.Error()})
		_ = s.conn.Write(ctx, frame)
		return nil // handler errors are surfaced to the client, not fatal
	}
	if s.hooks.AfterEvent != nil {
		s.hooks.AfterEvent(ctx, s.key, s.comp)
	}
	return s.push(ctx)
}

// push renders the component and writes the frame.
func (s *Session) push(ctx context.Context) error {
	html, err := s.comp.Render(ctx)
	if err != nil {
		return fmt.Errorf("render %s: %w", s.comp.Name(), err)
	}
	frame, err := json.Marshal(serverFrame{Type: "render", HTML: html})
	if err != nil {
		return err
	}
	if err := s.conn.Write(ctx, frame); err != nil {
		return fmt.Errorf("push render: %w", err)
	}
	return nil
}

func (s *Session) terminate(ctx context.Context, reason TerminateReason) {
	if err := s.comp.Terminate(ctx, reason); err != nil {
		s.log.Warn("component terminate failed", logging.Err(err))
	}
	_ = s.conn.Close()
}
