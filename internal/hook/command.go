package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"runtime"
	"time"

	"github.com/agentcore/agentcore/internal/logging"
)

// CommandHandler spawns the configured command string through a shell,
// writes the event's stdin contract, and interprets exit code / stdout /
// stderr into a Decision.
type CommandHandler struct {
	Command  string
	Deadline time.Duration // default 600s
}

func (h *CommandHandler) deadline() time.Duration {
	if h.Deadline > 0 {
		return h.Deadline
	}
	return 600 * time.Second
}

// Handle runs the command against event and returns its folded decision.
func (h *CommandHandler) Handle(ctx context.Context, event Event) Decision {
	deadlineCtx, cancel := context.WithTimeout(ctx, h.deadline())
	defer cancel()

	payload, err := json.Marshal(event.Stdin())
	if err != nil {
		logging.Error().Err(err).Msg("hook.command: encode stdin failed")
		return AllowDecision()
	}

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(deadlineCtx, "cmd", "/c", h.Command)
	} else {
		cmd = exec.CommandContext(deadlineCtx, "sh", "-c", h.Command)
	}
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if deadlineCtx.Err() == context.DeadlineExceeded {
		return Decision{Kind: Block, Reason: "Command '" + h.Command + "' timed out"}
	}

	if runErr == nil {
		return h.onExitZero(stdout.Bytes(), event.Kind)
	}

	if exitErr, ok := runErr.(*exec.ExitError); ok {
		switch exitErr.ExitCode() {
		case 2:
			return legalForEvent(event.Kind, stderr.String())
		default:
			logging.Warn().Int("exit", exitErr.ExitCode()).Str("command", h.Command).Msg("hook.command: non-zero exit")
			return AllowDecision()
		}
	}

	logging.Error().Err(runErr).Str("command", h.Command).Msg("hook.command: spawn failed")
	return AllowDecision()
}

func (h *CommandHandler) onExitZero(stdout []byte, kind Kind) Decision {
	if len(bytes.TrimSpace(stdout)) == 0 {
		return AllowDecision()
	}

	out, err := ParseOutput(stdout)
	if err != nil {
		logging.Warn().Err(err).Msg("hook.command: stdout parse failed")
		return AllowDecision()
	}

	return out.Interpret(kind)
}
