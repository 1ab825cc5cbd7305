// Package hook implements a declarative hook engine: event matching,
// command/prompt/agent handler execution, and output interpretation into
// typed decisions.
package hook

import "encoding/json"

// Kind names the seven hook event variants the engine fires.
type Kind string

const (
	KindSessionStart       Kind = "SessionStart"
	KindUserPromptSubmit   Kind = "UserPromptSubmit"
	KindPreToolUse         Kind = "PreToolUse"
	KindPostToolUse        Kind = "PostToolUse"
	KindPostToolUseFailure Kind = "PostToolUseFailure"
	KindStop               Kind = "Stop"
	KindNotification       Kind = "Notification"
)

// Event is the tagged union over the seven hook event kinds. Only the fields
// relevant to Kind are populated; others are zero.
type Event struct {
	Kind Kind

	SessionID string
	Cwd       string

	// UserPromptSubmit
	Prompt string

	// PreToolUse / PostToolUse / PostToolUseFailure
	ToolName     string
	ToolUseID    string
	ToolInput    json.RawMessage
	ToolResponse json.RawMessage
	ToolError    string

	// Notification
	NotificationMessage string
}

// PrimaryString returns the field the registry's matcher is evaluated
// against: tool name for tool-use events, prompt text for UserPromptSubmit,
// and "" (unmatched, always passes) for everything else.
func (e Event) PrimaryString() string {
	switch e.Kind {
	case KindPreToolUse, KindPostToolUse, KindPostToolUseFailure:
		return e.ToolName
	case KindUserPromptSubmit:
		return e.Prompt
	default:
		return ""
	}
}

// StdinPayload is the JSON object written to a command handler's stdin.
type StdinPayload struct {
	HookEventName string          `json:"hook_event_name"`
	SessionID     string          `json:"session_id"`
	ToolName      string          `json:"tool_name,omitempty"`
	ToolInput     json.RawMessage `json:"tool_input,omitempty"`
	ToolResponse  json.RawMessage `json:"tool_response,omitempty"`
	ToolUseID     string          `json:"tool_use_id,omitempty"`
	Cwd           string          `json:"cwd,omitempty"`
}

// Stdin builds the stdin contract payload for e.
func (e Event) Stdin() StdinPayload {
	return StdinPayload{
		HookEventName: string(e.Kind),
		SessionID:     e.SessionID,
		ToolName:      e.ToolName,
		ToolInput:     e.ToolInput,
		ToolResponse:  e.ToolResponse,
		ToolUseID:     e.ToolUseID,
		Cwd:           e.Cwd,
	}
}
