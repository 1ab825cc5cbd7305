// Package acp defines the wire-level request/response DTOs for the
// front-end <-> orchestrator HTTP boundary. These types are the JSON shape
// an ACP-speaking front-end sends and receives; internal/server translates
// them to and from internal/session.Session and internal/orchestrator
// values so the rest of the module never imports encoding/json tags.
package acp

import "time"

// Session is the wire representation of a session.
type Session struct {
	ID                 string          `json:"id"`
	Cwd                string          `json:"cwd"`
	Mode               string          `json:"mode,omitempty"`
	Messages           []Message       `json:"messages"`
	Tools              []ToolSummary   `json:"tools,omitempty"`
	Capabilities       *Capabilities   `json:"capabilities,omitempty"`
	TemplateTokenCount int             `json:"templateTokenCount"`
	EstimatedTokens    int             `json:"estimatedTokens"`
	UpdatedAt          time.Time       `json:"updatedAt"`
	CompactionHistory  []CompactionLog `json:"compactionHistory,omitempty"`
}

// Message is the wire representation of one session message.
type Message struct {
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	ToolCallID string    `json:"toolCallID,omitempty"`
	ToolName   string    `json:"toolName,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// ToolSummary is the catalog entry a front-end sees for one tool.
type ToolSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// Capabilities mirrors session.ClientCapabilities on the wire.
type Capabilities struct {
	FilesystemRead  bool `json:"filesystemRead"`
	FilesystemWrite bool `json:"filesystemWrite"`
	Terminal        bool `json:"terminal"`
}

// CompactionLog is one entry of a session's compaction history.
type CompactionLog struct {
	At               time.Time `json:"at"`
	MessagesReplaced int       `json:"messagesReplaced"`
	Summary          string    `json:"summary"`
}

// CreateSessionRequest creates a new session.
type CreateSessionRequest struct {
	Cwd            string `json:"cwd"`
	TranscriptPath string `json:"transcriptPath,omitempty"`
}

// AddMessageRequest appends a message to an existing session.
type AddMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompactSessionRequest triggers an explicit compaction.
type CompactSessionRequest struct {
	PreserveRecent int `json:"preserveRecent"`
	ContextSize    int `json:"contextSize"`
}

// SetSessionModeRequest changes a session's current mode (e.g. a front-end
// switching between "default" and "plan" or "accept-edits" style presets).
type SetSessionModeRequest struct {
	Mode string `json:"mode"`
}

// RunTurnRequest asks the orchestrator to generate one turn for a session.
type RunTurnRequest struct {
	TemplateKey string `json:"templateKey,omitempty"`
}

// RunTurnResponse is the orchestrator's result for one turn.
type RunTurnResponse struct {
	GeneratedText   string `json:"generatedText"`
	TokensGenerated int    `json:"tokensGenerated"`
	FinishReason    string `json:"finishReason"`
}

// ToolCatalogEntry is one entry of the built-in tool registry listing.
type ToolCatalogEntry struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	SubName     string `json:"subName"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
}

// MCPServerStatus reports one configured MCP server's connection state.
type MCPServerStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// AddMCPServerRequest registers a new MCP server connection.
type AddMCPServerRequest struct {
	Name    string            `json:"name"`
	Type    string            `json:"type"`
	Command []string          `json:"command,omitempty"`
	URL     string            `json:"url,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// Error is the envelope every non-2xx JSON response uses.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
