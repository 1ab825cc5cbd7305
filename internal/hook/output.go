package hook

import "encoding/json"

// Output is the optional JSON a command handler may print to stdout on exit
// 0.
type Output struct {
	Continue       *bool         `json:"continue"`
	StopReason     string        `json:"stopReason"`
	SuppressOutput bool          `json:"suppressOutput"`
	SystemMessage  string        `json:"systemMessage"`
	Decision       string        `json:"decision"`
	Reason         string        `json:"reason"`
	HookSpecific   *HookSpecific `json:"hookSpecificOutput"`
	AdditionalCtx  string        `json:"additionalContext"`
}

// HookSpecific is the per-event-kind tagged payload inside HookOutput.
type HookSpecific struct {
	HookEventName            string `json:"hookEventName"`
	PermissionDecision       string `json:"permissionDecision"`
	PermissionDecisionReason string `json:"permissionDecisionReason"`
	UpdatedInput             any    `json:"updatedInput"`
	AdditionalContext        string `json:"additionalContext"`
	Reason                   string `json:"reason"`
}

// ParseOutput unmarshals a command handler's stdout as Output. Empty stdout
// is the caller's responsibility to special-case before calling this.
func ParseOutput(data []byte) (*Output, error) {
	var out Output
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Interpret applies the priority-ordered rules below to turn a
// parsed Output into a Decision legal for the emitting event kind.
func (o *Output) Interpret(kind Kind) Decision {
	// 1. continue=false precedes everything.
	if o.Continue != nil && !*o.Continue {
		reason := o.StopReason
		if reason == "" {
			reason = "Hook requested stop"
		}
		return Decision{Kind: Cancel, Reason: reason}
	}

	// 2. hook_specific_output, tagged by hookEventName.
	if o.HookSpecific != nil {
		if d, ok := o.interpretSpecific(kind); ok {
			return d
		}
	}

	// 3. top-level decision="block".
	if o.Decision == "block" {
		reason := o.Reason
		if reason == "" {
			reason = "Blocked by hook"
		}
		if kind == KindStop {
			return Decision{Kind: ShouldContinue, Reason: reason}
		}
		return Decision{Kind: Block, Reason: reason}
	}

	// 4. top-level additional_context.
	if o.AdditionalCtx != "" {
		return Decision{Kind: AllowWithContext, Context: o.AdditionalCtx}
	}

	// 5. default.
	return AllowDecision()
}

func (o *Output) interpretSpecific(kind Kind) (Decision, bool) {
	spec := o.HookSpecific

	switch kind {
	case KindPreToolUse:
		switch spec.PermissionDecision {
		case "deny", "block":
			reason := spec.PermissionDecisionReason
			if reason == "" {
				reason = "Denied by hook"
			}
			return Decision{Kind: Block, Reason: reason}, true
		case "allow":
			if spec.AdditionalContext != "" {
				return Decision{Kind: AllowWithContext, Context: spec.AdditionalContext}, true
			}
			return AllowDecision(), true
		case "ask", "":
			// fall through to updated_input / additional_context / Allow
		}
		if spec.UpdatedInput != nil {
			return Decision{Kind: AllowWithUpdatedInput, UpdatedInput: spec.UpdatedInput}, true
		}
		if spec.AdditionalContext != "" {
			return Decision{Kind: AllowWithContext, Context: spec.AdditionalContext}, true
		}
		return Decision{}, false

	case KindStop:
		if spec.Reason != "" {
			return Decision{Kind: ShouldContinue, Reason: spec.Reason}, true
		}
		return Decision{}, false

	default:
		if spec.AdditionalContext != "" {
			return Decision{Kind: AllowWithContext, Context: spec.AdditionalContext}, true
		}
		return Decision{}, false
	}
}
