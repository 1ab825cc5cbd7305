package acp

import "github.com/agentcore/agentcore/internal/session"

// FromSession converts internal session state to its wire shape.
func FromSession(sess session.Session) Session {
	out := Session{
		ID:                 sess.ID,
		Cwd:                sess.Cwd,
		Mode:               sess.Mode,
		Messages:           make([]Message, len(sess.Messages)),
		TemplateTokenCount: sess.TemplateTokenCount,
		EstimatedTokens:    sess.EstimatedTokens(),
		UpdatedAt:          sess.UpdatedAt,
	}
	for i, m := range sess.Messages {
		out.Messages[i] = Message{
			Role:       string(m.Role),
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
			ToolName:   m.ToolName,
			Timestamp:  m.Timestamp,
		}
	}
	for _, t := range sess.Tools {
		out.Tools = append(out.Tools, ToolSummary{Name: t.Name, Description: t.Description, Source: t.Source})
	}
	if sess.Capabilities != nil {
		out.Capabilities = &Capabilities{
			FilesystemRead:  sess.Capabilities.FilesystemRead,
			FilesystemWrite: sess.Capabilities.FilesystemWrite,
			Terminal:        sess.Capabilities.Terminal,
		}
	}
	for _, c := range sess.CompactionHistory {
		out.CompactionHistory = append(out.CompactionHistory, CompactionLog{
			At:               c.At,
			MessagesReplaced: c.MessagesReplaced,
			Summary:          c.Summary,
		})
	}
	return out
}

// ToMessage converts a wire role/content pair to an internal message.
func ToMessage(role, content string) session.Message {
	return session.Message{Role: session.Role(role), Content: content}
}
