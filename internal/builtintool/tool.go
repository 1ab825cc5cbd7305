// Package builtintool is the in-process catalog of built-in tools: a stable
// name, description, CLI-restricted JSON schema, CLI surfacing metadata, and
// an execute method, backed by a Registry that validates and reports on the
// whole catalog.
package builtintool

import (
	"context"
	"encoding/json"
	"strings"
)

// Context carries per-call execution state into a tool.
type Context struct {
	SessionID string
	CallID    string
	WorkDir   string
}

// Result is a tool's successful output.
type Result struct {
	Title    string
	Output   string
	Metadata map[string]any
}

// Tool is a built-in tool. Name follows the `category_action` convention
// (e.g. "files_read", "memo_create").
type Tool interface {
	Name() string
	Description() string
	Schema() json.RawMessage
	Execute(ctx context.Context, args json.RawMessage, tc *Context) (*Result, error)
}

// CLIMetadata is derived from a tool's Name/Description, never stored
// separately: Category defaults to the prefix before the first "_", SubName
// to the suffix after it, and Summary to the description's first
// non-header line.
type CLIMetadata struct {
	Category string
	SubName  string
	Hidden   bool
	Summary  string
}

// HiddenTool is implemented by tools that want to opt out of CLI surfacing
// without changing their name.
type HiddenTool interface {
	Hidden() bool
}

func DeriveCLIMetadata(t Tool) CLIMetadata {
	name := t.Name()
	category, sub := name, ""
	if idx := strings.IndexByte(name, '_'); idx >= 0 {
		category, sub = name[:idx], name[idx+1:]
	}

	hidden := false
	if h, ok := t.(HiddenTool); ok {
		hidden = h.Hidden()
	}

	return CLIMetadata{
		Category: category,
		SubName:  sub,
		Hidden:   hidden,
		Summary:  firstSummaryLine(t.Description()),
	}
}

// firstSummaryLine returns the first non-blank line of a (possibly
// multi-line) description that is not a markdown header ("#..."), trimmed,
// to use as a one-line CLI summary.
func firstSummaryLine(description string) string {
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			return line
		}
	}
	return ""
}
