package builtintool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// GrepTool searches file contents via ripgrep.
type GrepTool struct{ workDir string }

func NewGrepTool(workDir string) *GrepTool { return &GrepTool{workDir: workDir} }

func (t *GrepTool) Name() string { return "search_grep" }
func (t *GrepTool) Description() string {
	return "Searches file contents for a regex pattern, using ripgrep."
}

func (t *GrepTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"pattern": {"type": "string", "description": "Regex pattern to search for"},
			"path": {"type": "string", "description": "Directory to search in"},
			"include": {"type": "string", "description": "Glob of files to include, e.g. *.go"}
		},
		"required": ["pattern"]
	}`)
}

func (t *GrepTool) Execute(ctx context.Context, args json.RawMessage, tc *Context) (*Result, error) {
	var in struct {
		Pattern string `json:"pattern"`
		Path    string `json:"path"`
		Include string `json:"include"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, fmt.Errorf("search_grep: invalid args: %w", err)
	}

	searchDir := t.workDir
	if tc != nil && tc.WorkDir != "" {
		searchDir = tc.WorkDir
	}
	if in.Path != "" {
		searchDir = resolvePath(t.workDir, in.Path, tc)
	}

	rgArgs := []string{"--line-number", "--color=never"}
	if in.Include != "" {
		rgArgs = append(rgArgs, "--glob", in.Include)
	}
	rgArgs = append(rgArgs, in.Pattern, searchDir)

	cmd := exec.CommandContext(ctx, "rg", rgArgs...)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return &Result{Title: "Search: " + in.Pattern, Output: "no matches"}, nil
		}
		return nil, fmt.Errorf("search_grep: %w", err)
	}
	return &Result{Title: "Search: " + in.Pattern, Output: string(output)}, nil
}

// GlobTool finds files matching a glob pattern, newest first.
type GlobTool struct{ workDir string }

func NewGlobTool(workDir string) *GlobTool { return &GlobTool{workDir: workDir} }

func (t *GlobTool) Name() string { return "search_glob" }
func (t *GlobTool) Description() string {
	return "Finds files matching a glob pattern (supports ** wildcards), most recently modified first."
}

func (t *GlobTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"pattern": {"type": "string"},
			"path": {"type": "string"}
		},
		"required": ["pattern"]
	}`)
}

func (t *GlobTool) Execute(ctx context.Context, args json.RawMessage, tc *Context) (*Result, error) {
	var in struct {
		Pattern string `json:"pattern"`
		Path    string `json:"path"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, fmt.Errorf("search_glob: invalid args: %w", err)
	}

	base := t.workDir
	if tc != nil && tc.WorkDir != "" {
		base = tc.WorkDir
	}
	if in.Path != "" {
		base = resolvePath(t.workDir, in.Path, tc)
	}

	fsys := os.DirFS(base)
	matches, err := doublestar.Glob(fsys, in.Pattern)
	if err != nil {
		return nil, fmt.Errorf("search_glob: %w", err)
	}

	type entry struct {
		path    string
		modTime int64
	}
	entries := make([]entry, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(filepath.Join(base, m))
		if err != nil {
			continue
		}
		entries = append(entries, entry{path: m, modTime: info.ModTime().Unix()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].modTime > entries[j].modTime })

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.path
	}
	return &Result{Title: "Glob: " + in.Pattern, Output: strings.Join(lines, "\n")}, nil
}

// ListTool lists a directory's immediate entries.
type ListTool struct{ workDir string }

func NewListTool(workDir string) *ListTool { return &ListTool{workDir: workDir} }

func (t *ListTool) Name() string        { return "files_list" }
func (t *ListTool) Description() string { return "Lists files and subdirectories at a path." }

func (t *ListTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"path": {"type": "string"}
		}
	}`)
}

func (t *ListTool) Execute(ctx context.Context, args json.RawMessage, tc *Context) (*Result, error) {
	var in struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, fmt.Errorf("files_list: invalid args: %w", err)
	}

	dir := t.workDir
	if tc != nil && tc.WorkDir != "" {
		dir = tc.WorkDir
	}
	if in.Path != "" {
		dir = resolvePath(t.workDir, in.Path, tc)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("files_list: %w", err)
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			lines = append(lines, e.Name()+"/")
			continue
		}
		info, err := e.Info()
		size := int64(0)
		if err == nil {
			size = info.Size()
		}
		lines = append(lines, fmt.Sprintf("%s (%d bytes)", e.Name(), size))
	}
	return &Result{Title: "List " + dir, Output: strings.Join(lines, "\n")}, nil
}
