// Package orchestrator runs the generate/tool-call/feed-back loop for one
// user turn: submit to a generation queue, detect model-emitted tool calls,
// classify and dispatch them, feed results back, and repeat until the
// queue reports the end of the sequence.
package orchestrator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/agentcore/agentcore/internal/builtintool"
	"github.com/agentcore/agentcore/internal/dependency"
	"github.com/agentcore/agentcore/internal/session"
)

// FinishReason discriminates why the Queue stopped generating.
type FinishReason int

const (
	FinishEndOfSequence FinishReason = iota
	FinishToolCallDetected
)

// GenerateResult is what one Queue submission returns.
type GenerateResult struct {
	GeneratedText   string
	TokensGenerated int
	FinishReason    FinishReason
}

// Queue submits a session's current state for generation. It is the single
// point of contact with the inference engine; the orchestrator never talks
// to a model directly.
type Queue interface {
	Submit(ctx context.Context, sess session.Session) (GenerateResult, error)
}

// Validator checks a generation request against a session before it is
// submitted, e.g. enforcing a maximum prompt size or a required mode.
type Validator interface {
	Validate(sess session.Session) error
}

// ToolCall is one model-emitted call extracted from generated text.
type ToolCall struct {
	ID   string
	Name string
	Args []byte
	// ReadPaths/WritePaths/SideEffectful feed the dependency analyzer;
	// left zero-valued for tools that declare no path/side-effect metadata.
	ReadPaths     []string
	WritePaths    []string
	SideEffectful bool
}

// TemplateEngine extracts tool calls from a chunk of generated text.
type TemplateEngine interface {
	ExtractToolCalls(generatedText string) ([]ToolCall, error)
}

// ToolExecutor runs one tool call to completion and returns its stringified
// result, or an error if the call failed. dispatch retries transient errors
// and folds the final error into an "Error: ..." result string; the
// capability check runs in dispatch before Execute is ever called.
type ToolExecutor interface {
	Execute(ctx context.Context, call ToolCall) (string, error)
}

// TemplateCache looks up and stores a cached token count for a given
// (system prompt, tool schema) pairing, keyed by the caller.
type TemplateCache interface {
	Lookup(key string) (tokenCount int, ok bool)
}

// ClientCapabilities gates which tools may execute; nil means no ACP
// initialize handshake ever ran (non-ACP mode), which allows every tool.
type ClientCapabilities = session.ClientCapabilities

// Orchestrator wires the Queue/Validator/TemplateEngine/ToolExecutor
// collaborators into the generate loop.
type Orchestrator struct {
	Store          *session.Store
	Queue          Queue
	Validator      Validator
	TemplateEngine TemplateEngine
	Executor       ToolExecutor
	Cache          TemplateCache
	Retry          RetryPolicy

	// Tools, if set, is consulted before each dispatch to derive a call's
	// declared read/write paths and side-effect status from its registered
	// JSON Schema, overriding whatever the TemplateEngine populated. An MCP
	// (server:tool) call, or any call when Tools is nil, keeps the
	// TemplateEngine-supplied metadata as-is; a non-MCP call naming a tool
	// Tools doesn't recognize is treated as side-effectful with no paths.
	Tools *builtintool.Registry

	// MaxSteps bounds the loop as a last-resort circuit breaker; 0 means
	// unbounded (the loop still terminates via FinishEndOfSequence).
	MaxSteps int
}

// Run executes one full turn for sessionID: seed the template token count
// from Cache, validate, then loop submit/extract/dispatch/feed-back until the
// queue reports end of sequence. Run does not compact the session; sessions
// are compacted only through the Store's CompactSession/AutoCompactAll.
func (o *Orchestrator) Run(ctx context.Context, sessionID string, templateKey string) (GenerateResult, error) {
	sess, ok := o.Store.Get(sessionID)
	if !ok {
		return GenerateResult{}, fmt.Errorf("orchestrator: session %s not found", sessionID)
	}

	if o.Cache != nil && sess.TemplateTokenCount == 0 {
		if count, ok := o.Cache.Lookup(templateKey); ok {
			sess.TemplateTokenCount = count
			_ = o.Store.Update(sess)
		}
	}

	if o.Validator != nil {
		if err := o.Validator.Validate(sess); err != nil {
			return GenerateResult{}, fmt.Errorf("orchestrator: validation failed: %w", err)
		}
	}

	var accumulator string
	var totalTokens int
	steps := 0

	for {
		steps++
		if o.MaxSteps > 0 && steps > o.MaxSteps {
			break
		}

		sess, ok = o.Store.Get(sessionID)
		if !ok {
			return GenerateResult{}, fmt.Errorf("orchestrator: session %s disappeared mid-loop", sessionID)
		}

		gen, err := o.Queue.Submit(ctx, sess)
		if err != nil {
			return GenerateResult{}, fmt.Errorf("orchestrator: generation failed: %w", err)
		}

		accumulator += gen.GeneratedText
		totalTokens += gen.TokensGenerated

		if gen.FinishReason != FinishToolCallDetected {
			break
		}

		calls, err := o.TemplateEngine.ExtractToolCalls(gen.GeneratedText)
		if err != nil {
			return GenerateResult{}, fmt.Errorf("orchestrator: tool-call extraction failed: %w", err)
		}

		if err := o.Store.AddMessage(sessionID, session.Message{
			Role:    session.RoleAssistant,
			Content: gen.GeneratedText,
		}); err != nil {
			return GenerateResult{}, err
		}

		results := o.dispatch(ctx, calls, sess.Capabilities)
		for i, call := range calls {
			content := results[i]
			if err := o.Store.AddMessage(sessionID, session.Message{
				Role:       session.RoleTool,
				Content:    content,
				ToolCallID: call.ID,
				ToolName:   call.Name,
			}); err != nil {
				return GenerateResult{}, err
			}
		}
	}

	return GenerateResult{
		GeneratedText:   accumulator,
		TokensGenerated: totalTokens,
		FinishReason:    FinishEndOfSequence,
	}, nil
}

// dispatch classifies calls with the dependency analyzer and executes them
// either in parallel (join-all, reordered to match calls[i]) or one at a
// time. Each result is the stringified tool output or "Error: ..." — never
// an error value, so the loop can always continue.
func (o *Orchestrator) dispatch(ctx context.Context, calls []ToolCall, caps *ClientCapabilities) []string {
	results := make([]string, len(calls))

	depCalls := make([]dependency.ToolCall, len(calls))
	for i, c := range calls {
		readPaths, writePaths, sideEffectful := c.ReadPaths, c.WritePaths, c.SideEffectful
		if o.Tools != nil && !isMCPTool(c.Name) {
			if tool, ok := o.Tools.Get(c.Name); ok {
				readPaths, writePaths, sideEffectful = extractPathMetadata(tool, c.Args)
			} else {
				// Name doesn't resolve in the local registry and isn't
				// namespaced as an MCP tool either: unknown argument shape,
				// so the classifier's worst-case default applies.
				readPaths, writePaths, sideEffectful = nil, nil, true
			}
		}
		depCalls[i] = dependency.ToolCall{
			ID:            c.ID,
			Name:          c.Name,
			ReadPaths:     readPaths,
			WritePaths:    writePaths,
			SideEffectful: sideEffectful,
		}
	}
	classification := dependency.Classify(depCalls)

	runOne := func(i int) string {
		call := calls[i]
		if err := enforceCapability(call.Name, caps); err != nil {
			return "Error: " + err.Error()
		}
		out, err := o.executeWithRetry(ctx, call)
		if err != nil {
			return "Error: " + err.Error()
		}
		return out
	}

	if classification.Mode != dependency.Parallel {
		for i := range calls {
			results[i] = runOne(i)
		}
		return results
	}

	g, gctx := errgroup.WithContext(ctx)
	_ = gctx
	for i := range calls {
		i := i
		g.Go(func() error {
			results[i] = runOne(i)
			return nil
		})
	}
	_ = g.Wait() // runOne never returns an error to the group; failures are encoded in results[i]

	return results
}
