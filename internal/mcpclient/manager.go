package mcpclient

import (
	"context"
	"fmt"
	"sync"

	"github.com/agentcore/agentcore/internal/event"
	"github.com/agentcore/agentcore/internal/mcpwire"
)

// Manager is the multi-server registry: a single-writer map of named
// connections, safe for concurrent lookup and tool dispatch.
type Manager struct {
	mu      sync.RWMutex
	servers map[string]*Connection
	closed  bool
}

// NewManager constructs an empty manager.
func NewManager() *Manager {
	return &Manager{servers: make(map[string]*Connection)}
}

// AddServer dials and registers a new server connection under cfg.Name.
func (m *Manager) AddServer(ctx context.Context, cfg ServerConfig) error {
	m.mu.Lock()
	if _, exists := m.servers[cfg.Name]; exists {
		m.mu.Unlock()
		return fmt.Errorf("mcpclient: server %q already registered", cfg.Name)
	}
	m.mu.Unlock()

	conn, err := Dial(ctx, cfg, m.onToolsChanged, m.onPromptsChanged)

	m.mu.Lock()
	m.servers[cfg.Name] = conn
	m.mu.Unlock()

	status, lastErr := conn.Status()
	event.Publish(event.Event{
		Type: event.MCPServerStatus,
		Data: event.MCPServerStatusData{Server: cfg.Name, Status: string(status), Error: lastErr},
	})

	return err
}

// RemoveServer closes and deregisters a server. register_mcp_server followed
// by unregister_mcp_server leaves other entries bit-identical.
func (m *Manager) RemoveServer(name string) error {
	m.mu.Lock()
	conn, ok := m.servers[name]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("mcpclient: server %q not found", name)
	}
	delete(m.servers, name)
	m.mu.Unlock()

	return conn.Close()
}

// Get returns the named connection, if registered.
func (m *Manager) Get(name string) (*Connection, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conn, ok := m.servers[name]
	return conn, ok
}

// Tools returns the combined catalog across every connected server.
func (m *Manager) Tools() []mcpwire.Tool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var all []mcpwire.Tool
	for _, conn := range m.servers {
		if status, _ := conn.Status(); status != StatusConnected {
			continue
		}
		all = append(all, conn.Tools()...)
	}
	return all
}

// CallTool resolves toolName's server prefix and dispatches the call.
func (m *Manager) CallTool(ctx context.Context, toolName string, args []byte) (string, error) {
	serverName, _, ok := splitNamespace(toolName)
	if !ok {
		return "", fmt.Errorf("mcpclient: tool name %q is not server-namespaced", toolName)
	}

	m.mu.RLock()
	conn, ok := m.servers[serverName]
	m.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("mcpclient: no server registered for tool %q", toolName)
	}

	return conn.CallTool(ctx, toolName, args)
}

func splitNamespace(toolName string) (server, tool string, ok bool) {
	for i := 0; i < len(toolName); i++ {
		if toolName[i] == ':' {
			return toolName[:i], toolName[i+1:], true
		}
	}
	return "", "", false
}

// Status returns a snapshot of every registered server's lifecycle state.
func (m *Manager) Status() map[string]Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]Status, len(m.servers))
	for name, conn := range m.servers {
		status, _ := conn.Status()
		out[name] = status
	}
	return out
}

// Close shuts down every connection. Idempotent: a second call is a no-op.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	var firstErr error
	for _, conn := range m.servers {
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.servers = make(map[string]*Connection)
	return firstErr
}

func (m *Manager) onToolsChanged(serverName string) {
	conn, ok := m.Get(serverName)
	if !ok {
		return
	}
	event.Publish(event.Event{
		Type: event.MCPNotification,
		Data: event.MCPNotificationData{Server: serverName, Method: mcpwire.MethodToolsListChanged},
	})
	_ = conn
}

func (m *Manager) onPromptsChanged(serverName string) {
	event.Publish(event.Event{
		Type: event.MCPNotification,
		Data: event.MCPNotificationData{Server: serverName, Method: mcpwire.MethodPromptsListChanged},
	})
}
