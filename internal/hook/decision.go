package hook

// DecisionKind discriminates the HookDecision tagged union.
type DecisionKind int

const (
	Allow DecisionKind = iota
	AllowWithContext
	AllowWithUpdatedInput
	Block
	Cancel
	ShouldContinue
)

// precedence orders decisions most-urgent-first for the registry's fold:
// Cancel > Block > ShouldContinue > AllowWithUpdatedInput >
// AllowWithContext > Allow.
var precedence = map[DecisionKind]int{
	Cancel:                0,
	Block:                 1,
	ShouldContinue:        2,
	AllowWithUpdatedInput: 3,
	AllowWithContext:      4,
	Allow:                 5,
}

// Decision is the typed verdict a handler returns.
type Decision struct {
	Kind         DecisionKind
	Reason       string
	Context      string
	UpdatedInput any
}

// AllowDecision is the zero-information pass-through verdict.
func AllowDecision() Decision { return Decision{Kind: Allow} }

// moreUrgent reports whether a is strictly more urgent than b.
func moreUrgent(a, b Decision) bool {
	return precedence[a.Kind] < precedence[b.Kind]
}

// fold combines decisions left-to-right, keeping the most urgent one seen so
// far. An empty slice folds to Allow.
func fold(decisions []Decision) Decision {
	result := AllowDecision()
	for _, d := range decisions {
		if moreUrgent(d, result) {
			result = d
		}
	}
	return result
}

// legalForEvent maps a raw "blocked" decision onto the decision that is
// semantically legal for the emitting event kind:
// only PreToolUse/UserPromptSubmit may Block; Stop's block means "keep
// going"; Post-events can only inject context.
func legalForEvent(kind Kind, reason string) Decision {
	switch kind {
	case KindPreToolUse, KindUserPromptSubmit:
		return Decision{Kind: Block, Reason: reason}
	case KindStop:
		return Decision{Kind: ShouldContinue, Reason: reason}
	case KindPostToolUse, KindPostToolUseFailure:
		return Decision{Kind: AllowWithContext, Context: reason}
	default: // SessionStart, Notification
		return AllowDecision()
	}
}
