package builtintool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"syscall"
	"time"

	"mvdan.cc/sh/v3/syntax"
)

const (
	defaultBashTimeout = 120 * time.Second
	maxBashTimeout     = 10 * time.Minute
	maxOutputLength    = 30000
	sigkillGrace       = 200 * time.Millisecond
)

// BashTool runs a command through the detected shell, in its own process
// group so a timeout can kill the whole tree rather than just the shell.
type BashTool struct {
	workDir string
	shell   string
}

func NewBashTool(workDir string) *BashTool {
	return &BashTool{workDir: workDir, shell: detectShell()}
}

func (t *BashTool) Name() string { return "terminal_exec" }
func (t *BashTool) Description() string {
	return `Executes a command in a shell.

Usage:
- command is required
- optional timeoutMs (max 600000)
- output is captured from stdout and stderr, truncated past 30000 bytes`
}

func (t *BashTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"command": {"type": "string"},
			"timeoutMs": {"type": "integer"},
			"description": {"type": "string"}
		},
		"required": ["command", "description"]
	}`)
}

func (t *BashTool) Execute(ctx context.Context, args json.RawMessage, tc *Context) (*Result, error) {
	var in struct {
		Command     string `json:"command"`
		TimeoutMs   int    `json:"timeoutMs"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, fmt.Errorf("terminal_exec: invalid args: %w", err)
	}

	if _, err := syntax.NewParser(syntax.Variant(syntax.LangBash)).Parse(strings.NewReader(in.Command), ""); err != nil {
		return nil, fmt.Errorf("terminal_exec: cannot parse command: %w", err)
	}

	timeout := defaultBashTimeout
	if in.TimeoutMs > 0 {
		timeout = time.Duration(in.TimeoutMs) * time.Millisecond
		if timeout > maxBashTimeout {
			timeout = maxBashTimeout
		}
	}

	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(cmdCtx, t.shell, "/c", in.Command)
	} else {
		cmd = exec.CommandContext(cmdCtx, t.shell, "-c", in.Command)
	}
	if tc != nil && tc.WorkDir != "" {
		cmd.Dir = tc.WorkDir
	} else {
		cmd.Dir = t.workDir
	}
	cmd.Env = os.Environ()
	if runtime.GOOS != "windows" {
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	}

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	runErr := cmd.Run()
	timedOut := cmdCtx.Err() == context.DeadlineExceeded
	if timedOut {
		t.killProcessGroup(cmd)
	}

	output := out.String()
	if len(output) > maxOutputLength {
		output = output[:maxOutputLength] + "\n\n(output truncated)"
	}

	exitCode := 0
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	if timedOut {
		output += fmt.Sprintf("\n\n(command timed out after %v)", timeout)
	} else if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return nil, fmt.Errorf("terminal_exec: %w", runErr)
		}
	}

	title := in.Description
	if title == "" {
		title = "Run command"
	}
	return &Result{
		Title:  title,
		Output: output,
		Metadata: map[string]any{
			"exit": exitCode,
		},
	}, nil
}

func (t *BashTool) killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil || runtime.GOOS == "windows" {
		return
	}
	pid := cmd.Process.Pid
	_ = syscall.Kill(-pid, syscall.SIGTERM)
	time.Sleep(sigkillGrace)
	if cmd.ProcessState == nil {
		_ = syscall.Kill(-pid, syscall.SIGKILL)
	}
}

func detectShell() string {
	if s := os.Getenv("SHELL"); s != "" && s != "/bin/fish" && s != "/usr/bin/fish" {
		return s
	}
	if runtime.GOOS == "windows" {
		if comspec := os.Getenv("COMSPEC"); comspec != "" {
			return comspec
		}
		return "cmd.exe"
	}
	if bash, err := exec.LookPath("bash"); err == nil {
		return bash
	}
	return "/bin/sh"
}
