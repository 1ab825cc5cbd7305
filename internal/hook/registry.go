package hook

import (
	"context"
	"sync"

	"github.com/agentcore/agentcore/internal/event"
)

// Registry holds the compiled set of registrations and fires matching
// handlers in registration order.
type Registry struct {
	mu            sync.RWMutex
	registrations []Registration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends r to the registry. Registrations fire in the order they
// were added.
func (r *Registry) Register(reg Registration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registrations = append(r.registrations, reg)
}

// Fire selects every registration whose event set and matcher accept
// evt, invokes their handlers in registration order, and folds the results
// by precedence.
func (r *Registry) Fire(ctx context.Context, evt Event) Decision {
	r.mu.RLock()
	regs := make([]Registration, len(r.registrations))
	copy(regs, r.registrations)
	r.mu.RUnlock()

	var decisions []Decision
	for _, reg := range regs {
		if !reg.matches(evt) {
			continue
		}
		decisions = append(decisions, reg.Handler.Handle(ctx, evt))
	}

	result := fold(decisions)

	event.Publish(event.Event{
		Type: event.HookFired,
		Data: event.HookFiredData{
			EventKind: string(evt.Kind),
			Matched:   len(decisions),
			Decision:  decisionLabel(result.Kind),
		},
	})

	return result
}

func decisionLabel(k DecisionKind) string {
	switch k {
	case Allow:
		return "allow"
	case AllowWithContext:
		return "allow_with_context"
	case AllowWithUpdatedInput:
		return "allow_with_updated_input"
	case Block:
		return "block"
	case Cancel:
		return "cancel"
	case ShouldContinue:
		return "should_continue"
	default:
		return "unknown"
	}
}
