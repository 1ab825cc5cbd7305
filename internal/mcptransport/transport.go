// Package mcptransport implements the three wire transports for talking to
// MCP servers: newline-delimited JSON over stdio, HTTP-streamable
// request/response, and SSE for server push.
package mcptransport

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agentcore/agentcore/internal/mcpwire"
)

// ErrorKind classifies transport-level failures.
type ErrorKind string

const (
	SpawnFailed      ErrorKind = "spawn_failed"
	ConnectionClosed ErrorKind = "connection_closed"
	ProtocolError    ErrorKind = "protocol_error"
	Timeout          ErrorKind = "timeout"
)

// Error is the typed transport-level error, classified by ErrorKind.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mcptransport: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("mcptransport: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Transport is the shared contract for the three MCP transports.
//
// Send issues a request and blocks for the matching response. Notify sends a
// fire-and-forget message. Close releases the underlying connection/process
// and is idempotent.
type Transport interface {
	Send(ctx context.Context, method string, params any) (json.RawMessage, error)
	Notify(ctx context.Context, method string, params any) error
	Close() error
}

// NotificationSink receives server-pushed notifications. Only the SSE
// transport drives one; stdio/HTTP transports never call it.
type NotificationSink interface {
	Notify(n mcpwire.Notification)
}
