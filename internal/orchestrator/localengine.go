package orchestrator

import (
	"context"
	"fmt"

	"github.com/agentcore/agentcore/internal/builtintool"
	"github.com/agentcore/agentcore/internal/session"
)

// NoopQueue is a Queue with no inference engine behind it: every Submit
// immediately reports end-of-sequence with an empty generation. It exists so
// `internal/server`'s `/session/{id}/turn` route has a concrete, honest
// collaborator to call instead of leaving the Orchestrator field nil (which
// makes the route permanently 503) — running Run against it still exercises
// validation, the template cache, and session write-back end to end. It never reports FinishToolCallDetected, so it never drives
// TemplateEngine.ExtractToolCalls or tool dispatch; swap in a real Queue
// backed by the Generation Queue described in spec.md §1 to get actual
// model output.
type NoopQueue struct{}

func (NoopQueue) Submit(ctx context.Context, sess session.Session) (GenerateResult, error) {
	return GenerateResult{FinishReason: FinishEndOfSequence}, nil
}

// NoopTemplateEngine never finds a tool call, matching NoopQueue's
// always-end-of-sequence behavior. Required only to satisfy the
// TemplateEngine interface; Run never calls it while Queue is NoopQueue.
type NoopTemplateEngine struct{}

func (NoopTemplateEngine) ExtractToolCalls(generatedText string) ([]ToolCall, error) {
	return nil, nil
}

// BuiltinToolExecutor runs a dispatched ToolCall against the built-in tool
// registry: the real Executor to pair with a real Queue/TemplateEngine, once
// one is wired, so tool calls a model emits actually run instead of being
// stubbed out alongside generation. SessionID is fixed at construction time
// rather than threaded per-call; none of the built-in tools consult
// Context.SessionID today, so a single Orchestrator shared across sessions
// stays correct, but a tool that starts caring about it will need the
// ToolCall/dispatch path extended to carry the session id through.
type BuiltinToolExecutor struct {
	Registry  *builtintool.Registry
	SessionID string
	WorkDir   string
}

func (e *BuiltinToolExecutor) Execute(ctx context.Context, call ToolCall) (string, error) {
	tool, ok := e.Registry.Get(call.Name)
	if !ok {
		return "", fmt.Errorf("tool %q is not registered", call.Name)
	}
	result, err := tool.Execute(ctx, call.Args, &builtintool.Context{
		SessionID: e.SessionID,
		CallID:    call.ID,
		WorkDir:   e.WorkDir,
	})
	if err != nil {
		return "", err
	}
	return result.Output, nil
}
