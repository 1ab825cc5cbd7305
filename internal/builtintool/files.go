package builtintool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ReadTool reads a file's contents from disk.
type ReadTool struct{ workDir string }

func NewReadTool(workDir string) *ReadTool { return &ReadTool{workDir: workDir} }

func (t *ReadTool) Name() string        { return "files_read" }
func (t *ReadTool) Description() string { return "Reads a file's contents from disk as text." }

func (t *ReadTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"path": {"type": "string", "description": "Absolute or workdir-relative file path"}
		},
		"required": ["path"]
	}`)
}

func (t *ReadTool) Execute(ctx context.Context, args json.RawMessage, tc *Context) (*Result, error) {
	var in struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, fmt.Errorf("files_read: invalid args: %w", err)
	}
	data, err := os.ReadFile(t.resolve(in.Path, tc))
	if err != nil {
		return nil, fmt.Errorf("files_read: %w", err)
	}
	return &Result{Title: "Read " + in.Path, Output: string(data)}, nil
}

func (t *ReadTool) resolve(path string, tc *Context) string {
	if filepath.IsAbs(path) {
		return path
	}
	base := t.workDir
	if tc != nil && tc.WorkDir != "" {
		base = tc.WorkDir
	}
	return filepath.Join(base, path)
}

// WriteTool writes content to a file, creating or overwriting it.
type WriteTool struct{ workDir string }

func NewWriteTool(workDir string) *WriteTool { return &WriteTool{workDir: workDir} }

func (t *WriteTool) Name() string { return "files_write" }
func (t *WriteTool) Description() string {
	return "Writes content to a file, creating parent directories as needed."
}

func (t *WriteTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"path": {"type": "string"},
			"content": {"type": "string"}
		},
		"required": ["path", "content"]
	}`)
}

func (t *WriteTool) Execute(ctx context.Context, args json.RawMessage, tc *Context) (*Result, error) {
	var in struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, fmt.Errorf("files_write: invalid args: %w", err)
	}
	full := resolvePath(t.workDir, in.Path, tc)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, fmt.Errorf("files_write: %w", err)
	}
	if err := os.WriteFile(full, []byte(in.Content), 0o644); err != nil {
		return nil, fmt.Errorf("files_write: %w", err)
	}
	return &Result{Title: "Write " + in.Path, Output: fmt.Sprintf("wrote %d bytes", len(in.Content))}, nil
}

// EditTool performs an exact string replacement in a file, reporting a
// unified diff summary via go-diff's line-level diffing.
type EditTool struct{ workDir string }

func NewEditTool(workDir string) *EditTool { return &EditTool{workDir: workDir} }

func (t *EditTool) Name() string { return "files_edit" }
func (t *EditTool) Description() string {
	return "Replaces an exact substring in a file. Fails if oldString is not unique unless replaceAll is set."
}

func (t *EditTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"path": {"type": "string"},
			"oldString": {"type": "string"},
			"newString": {"type": "string"},
			"replaceAll": {"type": "boolean"}
		},
		"required": ["path", "oldString", "newString"]
	}`)
}

func (t *EditTool) Execute(ctx context.Context, args json.RawMessage, tc *Context) (*Result, error) {
	var in struct {
		Path       string `json:"path"`
		OldString  string `json:"oldString"`
		NewString  string `json:"newString"`
		ReplaceAll bool   `json:"replaceAll"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, fmt.Errorf("files_edit: invalid args: %w", err)
	}

	full := resolvePath(t.workDir, in.Path, tc)
	before, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("files_edit: %w", err)
	}
	beforeStr := string(before)

	count := strings.Count(beforeStr, in.OldString)
	if count == 0 {
		return nil, fmt.Errorf("files_edit: oldString not found in %s", in.Path)
	}
	if count > 1 && !in.ReplaceAll {
		return nil, fmt.Errorf("files_edit: oldString is not unique in %s (%d matches); set replaceAll", in.Path, count)
	}

	var after string
	if in.ReplaceAll {
		after = strings.ReplaceAll(beforeStr, in.OldString, in.NewString)
	} else {
		after = strings.Replace(beforeStr, in.OldString, in.NewString, 1)
	}

	if err := os.WriteFile(full, []byte(after), 0o644); err != nil {
		return nil, fmt.Errorf("files_edit: %w", err)
	}

	diffText, additions, deletions := lineDiff(beforeStr, after)
	return &Result{
		Title:  "Edit " + in.Path,
		Output: diffText,
		Metadata: map[string]any{
			"additions": additions,
			"deletions": deletions,
		},
	}, nil
}

func resolvePath(workDir, path string, tc *Context) string {
	if filepath.IsAbs(path) {
		return path
	}
	base := workDir
	if tc != nil && tc.WorkDir != "" {
		base = tc.WorkDir
	}
	return filepath.Join(base, path)
}

// lineDiff computes a line-level unified diff and add/delete counts.
func lineDiff(before, after string) (string, int, int) {
	if before == after {
		return "", 0, 0
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	additions, deletions := 0, 0
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			additions += strings.Count(d.Text, "\n")
		case diffmatchpatch.DiffDelete:
			deletions += strings.Count(d.Text, "\n")
		}
	}

	patches := dmp.PatchMake(before, diffs)
	return dmp.PatchToText(patches), additions, deletions
}
