// Package session implements the Session Store: an in-memory
// mapping from SessionId to Session, with creation, lookup, append, and
// compaction, each mutation taking the store's lock only long enough to
// swap a value.
package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Role is one of the four message roles a session tracks.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
	RoleSystem    Role = "system"
)

// Message is immutable once appended, except for compaction, which replaces
// a prefix with a single synthesized summary message.
type Message struct {
	Role       Role
	Content    string
	ToolCallID string
	ToolName   string
	Timestamp  time.Time
}

// ToolDefinition names a tool available to the model in a session's catalog.
// Source is "agent" for built-ins, otherwise an MCP server id.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  json.RawMessage
	Source      string
}

// PromptDefinition names a prompt available to the model from a session's
// prompt catalog.
type PromptDefinition struct {
	Name        string
	Description string
}

// CompactionEntry records one compaction event for history.
type CompactionEntry struct {
	At               time.Time
	MessagesReplaced int
	Summary          string
}

// ClientCapabilities are advertised by the front-end during an external init
// handshake and gate capability enforcement.
type ClientCapabilities struct {
	FilesystemRead  bool
	FilesystemWrite bool
	Terminal        bool
}

// Session is the per-conversation state owned by the Store. Callers mutate
// it copy-out -> mutate -> store-back via Get and Update; the Store's own
// mutators change the stored record under its lock.
type Session struct {
	ID   string
	Cwd  string
	Mode string

	Messages []Message
	Tools    []ToolDefinition
	Prompts  []PromptDefinition

	TranscriptPath string
	Capabilities   *ClientCapabilities

	CompactionHistory []CompactionEntry

	UpdatedAt time.Time

	// TemplateTokenCount is seeded once per session on first generation;
	// zero means "not yet seeded".
	TemplateTokenCount int

	tokenEstimate int
}

// NewSessionID returns a fresh ULID-based session identifier.
func NewSessionID() string {
	return ulid.Make().String()
}

// EstimatedTokens returns the monotonically non-decreasing token estimate for
// the session: counting need not be exact, but adding a message must never
// reduce it.
func (s *Session) EstimatedTokens() int {
	return s.tokenEstimate
}

func estimateTokens(content string) int {
	// ~4 bytes/token: cheap token estimation without a tokenizer dependency.
	return (len(content) + 3) / 4
}
