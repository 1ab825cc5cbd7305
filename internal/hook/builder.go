package hook

import (
	"fmt"
	"time"

	"github.com/agentcore/agentcore/internal/hookconfig"
)

// kindByEventName maps a hookconfig.EventName to the runtime Kind. Forward-
// compat and unknown names never reach here; hookconfig.Config already
// filters/validates them at parse time.
var kindByEventName = map[hookconfig.EventName]Kind{
	hookconfig.EventSessionStart:       KindSessionStart,
	hookconfig.EventUserPromptSubmit:   KindUserPromptSubmit,
	hookconfig.EventPreToolUse:         KindPreToolUse,
	hookconfig.EventPostToolUse:        KindPostToolUse,
	hookconfig.EventPostToolUseFailure: KindPostToolUseFailure,
	hookconfig.EventStop:               KindStop,
	hookconfig.EventNotification:       KindNotification,
}

// Build compiles a hookconfig.Config into a Registry. evaluator is used for
// any prompt/agent handlers the configuration declares; it may be nil if the
// configuration has none.
func Build(cfg *hookconfig.Config, evaluator Evaluator) (*Registry, error) {
	reg := NewRegistry()

	for evtName, groups := range cfg.Hooks {
		kind, ok := kindByEventName[evtName]
		if !ok {
			return nil, fmt.Errorf("hook: event %q has no runtime mapping", evtName)
		}

		for _, group := range groups {
			matcher := ""
			if group.Matcher != nil {
				matcher = *group.Matcher
			}

			for _, spec := range group.Hooks {
				handler, err := buildHandler(spec, evaluator)
				if err != nil {
					return nil, err
				}
				reg.Register(Registration{
					Events:  map[Kind]bool{kind: true},
					Matcher: matcher,
					Handler: handler,
				})
			}
		}
	}

	return reg, nil
}

func buildHandler(spec hookconfig.HandlerSpec, evaluator Evaluator) (Handler, error) {
	switch spec.Type {
	case "command":
		deadline := hookconfig.DefaultCommandTimeoutSeconds
		if spec.Timeout > 0 {
			deadline = spec.Timeout
		}
		return &CommandHandler{Command: spec.Command, Deadline: time.Duration(deadline) * time.Second}, nil

	case "prompt":
		if evaluator == nil {
			return nil, fmt.Errorf("hook: prompt handler declared but no evaluator configured")
		}
		deadline := hookconfig.DefaultPromptTimeoutSeconds
		if spec.Timeout > 0 {
			deadline = spec.Timeout
		}
		return &PromptHandler{Evaluator: evaluator, Template: spec.Prompt, Deadline: time.Duration(deadline) * time.Second}, nil

	case "agent":
		if evaluator == nil {
			return nil, fmt.Errorf("hook: agent handler declared but no evaluator configured")
		}
		deadline := hookconfig.DefaultAgentTimeoutSeconds
		if spec.Timeout > 0 {
			deadline = spec.Timeout
		}
		return &AgentHandler{Evaluator: evaluator, Template: spec.Prompt, Deadline: time.Duration(deadline) * time.Second}, nil

	default:
		return nil, fmt.Errorf("hook: unknown handler type %q", spec.Type)
	}
}
