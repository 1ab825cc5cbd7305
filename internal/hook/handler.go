package hook

import (
	"context"
	"time"
)

// Handler is the common interface shared by command, prompt, and agent
// handlers.
type Handler interface {
	Handle(ctx context.Context, event Event) Decision
}

// Registration is {events[], optional matcher, handler}.
type Registration struct {
	Events  map[Kind]bool
	Matcher string // compiled lazily; empty/"*" means "no matcher"
	Handler Handler
}

// matches reports whether r fires for event: event must be in r.Events, and
// an empty/"*" matcher always passes; otherwise the matcher is compiled as a
// regex and matched against event.PrimaryString().
func (r Registration) matches(event Event) bool {
	if !r.Events[event.Kind] {
		return false
	}
	if r.Matcher == "" || r.Matcher == "*" {
		return true
	}
	re, err := compiledMatcher(r.Matcher)
	if err != nil {
		return false
	}
	return re.MatchString(event.PrimaryString())
}

// Evaluator is the injected single-turn/multi-turn LLM collaborator prompt
// and agent handlers call into. isAgent selects multi-turn tool-using
// dialogue.
type Evaluator interface {
	Evaluate(ctx context.Context, prompt string, isAgent bool, deadline time.Duration) (string, error)
}
