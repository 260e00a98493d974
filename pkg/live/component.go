// Package live provides a minimal LiveView-style runtime: stateful
// server-side components driven by client events over a WebSocket, with all
// state mutation serialized onto one goroutine per session.
package live

import "context"

// Component is a stateful view driven by discrete events.
//
// The runtime guarantees that Mount, HandleEvent, HandleInfo, Render and
// Terminate for one session are never called concurrently, so components
// need no internal locking.
type Component interface {
	// Name identifies the component type.
	Name() string

	// Mount is called once when the session starts.
	Mount(ctx context.Context, params Params) error

	// HandleEvent processes a client interaction.
	HandleEvent(ctx context.Context, event string, payload map[string]any) error

	// HandleInfo processes an internal message, typically the result of a
	// background task started by an event handler.
	HandleInfo(ctx context.Context, msg any) error

	// Render returns the current HTML for the component.
	Render(ctx context.Context) (string, error)

	// Terminate is called when the session ends.
	Terminate(ctx context.Context, reason TerminateReason) error
}

// Params carries connection parameters (query string values) into Mount.
type Params map[string]string

// Get returns a parameter value or "".
func (p Params) Get(key string) string {
	return p[key]
}

// GetDefault returns a parameter value or the given default.
func (p Params) GetDefault(key, def string) string {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// TerminateReason indicates why a session ended.
type TerminateReason int

const (
	// TerminateNormal indicates clean disconnection.
	TerminateNormal TerminateReason = iota
	// TerminateShutdown indicates server shutdown.
	TerminateShutdown
	// TerminateError indicates termination due to an error.
	TerminateError
)

func (r TerminateReason) String() string {
	switch r {
	case TerminateNormal:
		return "normal"
	case TerminateShutdown:
		return "shutdown"
	case TerminateError:
		return "error"
	default:
		return "unknown"
	}
}

// Notifier delivers an internal message to a component's session. A
// background task calls it once with its result; the runtime routes the
// message back into HandleInfo on the session goroutine.
type Notifier func(msg any)

// InfoTarget is implemented by components that run background work. The
// runtime installs a Notifier before Mount; without a runtime (tests),
// components fall back to invoking HandleInfo directly.
type InfoTarget interface {
	SetNotifier(notify Notifier)
}

// BaseComponent provides default implementations and Notifier plumbing.
// Embed it to avoid implementing unused methods.
type BaseComponent struct {
	notify Notifier
}

// SetNotifier installs the session's notifier.
func (bc *BaseComponent) SetNotifier(notify Notifier) {
	bc.notify = notify
}

// Notifier returns the installed notifier, or nil.
func (bc *BaseComponent) Notifier() Notifier {
	return bc.notify
}

// Mount does nothing by default.
func (bc *BaseComponent) Mount(ctx context.Context, params Params) error {
	return nil
}

// HandleEvent does nothing by default.
func (bc *BaseComponent) HandleEvent(ctx context.Context, event string, payload map[string]any) error {
	return nil
}

// HandleInfo does nothing by default.
func (bc *BaseComponent) HandleInfo(ctx context.Context, msg any) error {
	return nil
}

// Terminate does nothing by default.
func (bc *BaseComponent) Terminate(ctx context.Context, reason TerminateReason) error {
	return nil
}
