package hook

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/agentcore/agentcore/internal/logging"
)

// evaluatorReply is the {ok, reason?} shape an Evaluator's string reply is
// parsed as.
type evaluatorReply struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason"`
}

// runEvaluator substitutes $ARGUMENTS in template with the JSON-encoded
// event, calls eval with the given deadline, and interprets the reply. This
// logic is identical for prompt and agent handlers; only isAgent and the
// default deadline differ.
func runEvaluator(ctx context.Context, eval Evaluator, template string, event Event, isAgent bool, deadline time.Duration) Decision {
	payload, err := json.Marshal(event.Stdin())
	if err != nil {
		logging.Error().Err(err).Msg("hook.evaluator: encode event failed")
		return AllowDecision()
	}
	prompt := strings.ReplaceAll(template, "$ARGUMENTS", string(payload))

	deadlineCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	reply, err := eval.Evaluate(deadlineCtx, prompt, isAgent, deadline)
	if deadlineCtx.Err() == context.DeadlineExceeded {
		return Decision{Kind: Block, Reason: "evaluator timed out"}
	}
	if err != nil {
		logging.Error().Err(err).Msg("hook.evaluator: evaluate failed")
		return AllowDecision()
	}

	var parsed evaluatorReply
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		logging.Warn().Err(err).Msg("hook.evaluator: reply parse failed")
		return AllowDecision()
	}

	if parsed.OK {
		return AllowDecision()
	}
	return legalForEvent(event.Kind, parsed.Reason)
}

// PromptHandler calls an injected single-turn Evaluator.
type PromptHandler struct {
	Evaluator Evaluator
	Template  string
	Deadline  time.Duration // default 30s
}

func (h *PromptHandler) Handle(ctx context.Context, event Event) Decision {
	deadline := h.Deadline
	if deadline <= 0 {
		deadline = 30 * time.Second
	}
	return runEvaluator(ctx, h.Evaluator, h.Template, event, false, deadline)
}

// AgentHandler calls an injected multi-turn Evaluator.
type AgentHandler struct {
	Evaluator Evaluator
	Template  string
	Deadline  time.Duration // default 60s
}

func (h *AgentHandler) Handle(ctx context.Context, event Event) Decision {
	deadline := h.Deadline
	if deadline <= 0 {
		deadline = 60 * time.Second
	}
	return runEvaluator(ctx, h.Evaluator, h.Template, event, true, deadline)
}
