package event

// SessionUpdatedData is the data for session.updated events.
type SessionUpdatedData struct {
	SessionID string `json:"sessionID"`
	UpdatedAt int64  `json:"updatedAt"`
}

// MessageAppendedData is the data for message.appended events.
type MessageAppendedData struct {
	SessionID string `json:"sessionID"`
	Role      string `json:"role"`
	ToolName  string `json:"toolName,omitempty"`
}

// SessionCompactedData is the data for session.compacted events.
type SessionCompactedData struct {
	SessionID        string `json:"sessionID"`
	MessagesReplaced int    `json:"messagesReplaced"`
}

// HookFiredData is the data for hook.fired events: one HookRegistry.Fire call.
type HookFiredData struct {
	EventKind string `json:"eventKind"`
	Matched   int    `json:"matched"`
	Decision  string `json:"decision"`
}

// MCPServerStatusData is the data for mcp.server.status events.
type MCPServerStatusData struct {
	Server string `json:"server"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// MCPNotificationData is the data for mcp.notification events (server push).
type MCPNotificationData struct {
	Server string `json:"server"`
	Method string `json:"method"`
}

// ToolDispatchedData is the data for tool.dispatched events.
type ToolDispatchedData struct {
	SessionID string `json:"sessionID"`
	ToolName  string `json:"toolName"`
	CallID    string `json:"callID"`
	Parallel  bool   `json:"parallel"`
}
