package mcpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agentcore/agentcore/internal/logging"
	"github.com/agentcore/agentcore/internal/mcptransport"
	"github.com/agentcore/agentcore/internal/mcpwire"
)

// Status is the lifecycle state of one server connection.
type Status string

const (
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusFailed       Status = "failed"
	StatusDisabled     Status = "disabled"
	StatusDisconnected Status = "disconnected"
)

// Error is the typed MCP-layer error, classified by ErrorKind.
type Error struct {
	Kind ErrorKind
	Err  error
}

type ErrorKind string

const (
	InvalidConfiguration ErrorKind = "invalid_configuration"
	ServerError          ErrorKind = "server_error"
	MissingResult        ErrorKind = "missing_result"
	IOError              ErrorKind = "io"
)

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mcpclient: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("mcpclient: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Connection owns one server's transport, discovered catalog, and status.
// Notification fan-out (SSE only) is wired through onNotification.
type Connection struct {
	Name   string
	config ServerConfig

	transport mcptransport.Transport

	tools   []mcpwire.Tool
	prompts []mcpwire.Prompt

	status  Status
	lastErr string
}

// onToolsChanged / onPromptsChanged are invoked when the notification watcher
// observes the matching server-push method.
type CatalogChangeCallback func(serverName string)

// Dial builds the transport for cfg.Type and runs the three-step initialize
// handshake. onToolsChanged/onPromptsChanged may be nil.
func Dial(ctx context.Context, cfg ServerConfig, onToolsChanged, onPromptsChanged CatalogChangeCallback) (*Connection, error) {
	conn := &Connection{Name: cfg.Name, config: cfg, status: StatusConnecting}

	transport, err := buildTransport(ctx, cfg, conn.notificationSink(onToolsChanged, onPromptsChanged))
	if err != nil {
		conn.status = StatusFailed
		conn.lastErr = err.Error()
		return conn, &Error{Kind: InvalidConfiguration, Err: err}
	}
	conn.transport = transport

	callCtx, cancel := context.WithTimeout(ctx, cfg.callTimeout())
	defer cancel()

	if err := conn.initialize(callCtx); err != nil {
		conn.status = StatusFailed
		conn.lastErr = err.Error()
		_ = transport.Close()
		return conn, err
	}

	conn.status = StatusConnected
	return conn, nil
}

func buildTransport(ctx context.Context, cfg ServerConfig, sink mcptransport.NotificationSink) (mcptransport.Transport, error) {
	switch cfg.Type {
	case TransportStdio:
		if len(cfg.Command) == 0 {
			return nil, fmt.Errorf("stdio server %q: empty command", cfg.Name)
		}
		return mcptransport.NewStdioTransport(ctx, mcptransport.StdioConfig{
			Command: cfg.Command,
			Env:     cfg.envMap(),
			Dir:     cfg.Cwd,
		})
	case TransportHTTP:
		if cfg.URL == "" {
			return nil, fmt.Errorf("http server %q: missing url", cfg.Name)
		}
		return mcptransport.NewHTTPTransport(cfg.URL, cfg.headerMap())
	case TransportSSE:
		if cfg.URL == "" {
			return nil, fmt.Errorf("sse server %q: missing url", cfg.Name)
		}
		return mcptransport.NewSSETransport(ctx, cfg.URL, cfg.headerMap(), sink)
	default:
		return nil, fmt.Errorf("unknown transport type %q", cfg.Type)
	}
}

// initialize runs the three strictly ordered handshake steps: initialize,
// the initialized notification, then the tools/prompts catalog refresh.
func (c *Connection) initialize(ctx context.Context) error {
	initParams := mcpwire.InitializeParams{
		ProtocolVersion: mcpwire.ProtocolVersion,
		Capabilities:    map[string]any{},
		ClientInfo:      mcpwire.Implementation{Name: "agentcore", Version: "0.1.0"},
	}

	raw, err := c.transport.Send(ctx, mcpwire.MethodInitialize, initParams)
	if err != nil {
		return &Error{Kind: ServerError, Err: err}
	}
	var initResult mcpwire.InitializeResult
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &initResult)
	}

	if err := c.transport.Notify(ctx, mcpwire.MethodInitialized, nil); err != nil {
		return &Error{Kind: IOError, Err: err}
	}

	if err := c.refreshTools(ctx); err != nil {
		logging.Warn().Err(err).Str("server", c.Name).Msg("mcpclient: tools/list failed, catalog empty")
		c.tools = nil
	}

	if err := c.refreshPrompts(ctx); err != nil {
		logging.Warn().Err(err).Str("server", c.Name).Msg("mcpclient: prompts/list failed (non-fatal)")
		c.prompts = nil
	}

	return nil
}

func (c *Connection) refreshTools(ctx context.Context) error {
	raw, err := c.transport.Send(ctx, mcpwire.MethodToolsList, nil)
	if err != nil {
		return err
	}
	var result mcpwire.ToolsListResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	c.tools = result.Tools
	if len(c.tools) == 0 {
		logging.Info().Str("server", c.Name).Msg("mcpclient: server reported no tools")
	}
	return nil
}

func (c *Connection) refreshPrompts(ctx context.Context) error {
	raw, err := c.transport.Send(ctx, mcpwire.MethodPromptsList, nil)
	if err != nil {
		return err
	}
	var result mcpwire.PromptsListResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	c.prompts = result.Prompts
	return nil
}

// Tools returns the discovered catalog, each name namespaced server:tool.
func (c *Connection) Tools() []mcpwire.Tool {
	out := make([]mcpwire.Tool, len(c.tools))
	for i, t := range c.tools {
		out[i] = mcpwire.Tool{
			Name:        c.Name + ":" + t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		}
	}
	return out
}

// Prompts returns the discovered prompt catalog, unprefixed.
func (c *Connection) Prompts() []mcpwire.Prompt {
	return c.prompts
}

// Status reports the connection's current lifecycle state and last error.
func (c *Connection) Status() (Status, string) {
	return c.status, c.lastErr
}

// CallTool issues tools/call. toolName may be namespaced server:tool; only
// the portion after the colon is sent as the wire tool name.
func (c *Connection) CallTool(ctx context.Context, toolName string, args json.RawMessage) (string, error) {
	name := toolName
	if idx := strings.IndexByte(toolName, ':'); idx >= 0 {
		name = toolName[idx+1:]
	}

	callCtx, cancel := context.WithTimeout(ctx, c.config.callTimeout())
	defer cancel()

	var argsVal any
	if len(args) > 0 {
		if err := json.Unmarshal(args, &argsVal); err != nil {
			return "", &Error{Kind: IOError, Err: err}
		}
	}

	params := map[string]any{"name": name, "arguments": argsVal}
	raw, err := c.transport.Send(callCtx, mcpwire.MethodToolsCall, params)
	if err != nil {
		return "", &Error{Kind: ServerError, Err: err}
	}
	if raw == nil {
		return "", &Error{Kind: MissingResult}
	}

	return coerceCallResult(raw)
}

// coerceCallResult turns a tools/call result into a single string: a
// content[] array is concatenated by each element's text field; absent that,
// the raw result value is coerced by kind.
func coerceCallResult(raw json.RawMessage) (string, error) {
	var withContent struct {
		Content []mcpwire.ContentBlock `json:"content"`
		IsError bool                   `json:"isError"`
	}
	if err := json.Unmarshal(raw, &withContent); err == nil && withContent.Content != nil {
		var sb strings.Builder
		for _, block := range withContent.Content {
			sb.WriteString(block.Text)
		}
		return sb.String(), nil
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", err
	}
	return coerceValue(generic), nil
}

func coerceValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		return trimFloat(val)
	case map[string]any, []any:
		b, _ := json.MarshalIndent(val, "", "  ")
		return string(b)
	default:
		b, _ := json.Marshal(val)
		return string(b)
	}
}

func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

// notificationSink adapts tools/list_changed and prompts/list_changed
// notifications into catalog-refresh callbacks; everything else is logged at
// trace level and dropped.
type sink struct {
	conn             *Connection
	onToolsChanged   CatalogChangeCallback
	onPromptsChanged CatalogChangeCallback
}

func (s *sink) Notify(n mcpwire.Notification) {
	switch n.Method {
	case mcpwire.MethodToolsListChanged:
		if s.onToolsChanged != nil {
			s.onToolsChanged(s.conn.Name)
		}
	case mcpwire.MethodPromptsListChanged:
		if s.onPromptsChanged != nil {
			s.onPromptsChanged(s.conn.Name)
		}
	default:
		logging.Logger.Trace().Str("server", s.conn.Name).Str("method", n.Method).Msg("mcpclient: dropped notification")
	}
}

func (c *Connection) notificationSink(onToolsChanged, onPromptsChanged CatalogChangeCallback) mcptransport.NotificationSink {
	return &sink{conn: c, onToolsChanged: onToolsChanged, onPromptsChanged: onPromptsChanged}
}

// Close shuts down the transport. Idempotent.
func (c *Connection) Close() error {
	if c.transport == nil {
		return nil
	}
	return c.transport.Close()
}
