// Package hookconfig loads the declarative hook configuration
// from JSON (with JSONC comments) or YAML into the same Go struct tree, so
// both forms parse to the same set of hook registrations.
package hookconfig

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/agnivade/levenshtein"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EventName is the PascalCase event name as it appears in configuration.
type EventName string

const (
	EventSessionStart       EventName = "SessionStart"
	EventUserPromptSubmit   EventName = "UserPromptSubmit"
	EventPreToolUse         EventName = "PreToolUse"
	EventPostToolUse        EventName = "PostToolUse"
	EventPostToolUseFailure EventName = "PostToolUseFailure"
	EventStop               EventName = "Stop"
	EventNotification       EventName = "Notification"
)

// coreEvents are the names the implementation actually fires.
var coreEvents = map[EventName]bool{
	EventSessionStart:       true,
	EventUserPromptSubmit:   true,
	EventPreToolUse:         true,
	EventPostToolUse:        true,
	EventPostToolUseFailure: true,
	EventStop:               true,
	EventNotification:       true,
}

// forwardCompatEvents are accepted but silently skipped.
var forwardCompatEvents = map[EventName]bool{
	"PermissionRequest": true,
	"SubagentStart":     true,
	"SubagentStop":      true,
	"PreCompact":        true,
	"Setup":             true,
	"SessionEnd":        true,
	"TeammateIdle":      true,
	"TaskCompleted":     true,
}

// Default handler deadlines.
const (
	DefaultCommandTimeoutSeconds = 600
	DefaultPromptTimeoutSeconds  = 30
	DefaultAgentTimeoutSeconds   = 60
)

// Config is the top-level hook configuration document.
type Config struct {
	Hooks map[EventName][]MatcherGroup `json:"hooks" yaml:"hooks"`
}

// MatcherGroup is one {matcher, hooks[]} entry under an event.
type MatcherGroup struct {
	Matcher *string       `json:"matcher" yaml:"matcher"`
	Hooks   []HandlerSpec `json:"hooks" yaml:"hooks"`
}

// HandlerSpec is one declared handler: command, prompt, or agent.
type HandlerSpec struct {
	Type    string `json:"type" yaml:"type"`
	Command string `json:"command,omitempty" yaml:"command,omitempty"`
	Prompt  string `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	Model   string `json:"model,omitempty" yaml:"model,omitempty"`
	Timeout int    `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// ParseError is the ConfigError kind for hook configuration.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string { return "hookconfig: " + e.Message }

// ParseJSON strips JSONC comments then unmarshals into Config, validating
// event names and non-empty hook lists.
func ParseJSON(data []byte) (*Config, error) {
	stripped := jsonc.ToJSON(data)
	var raw rawConfig
	if err := json.Unmarshal(stripped, &raw); err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	return raw.validate()
}

// ParseYAML unmarshals a YAML document into Config with the same validation
// as ParseJSON, so JSON and YAML parses of equivalent configurations yield
// the same registrations.
func ParseYAML(data []byte) (*Config, error) {
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("invalid YAML: %v", err)}
	}
	return raw.validate()
}

// rawConfig mirrors Config but keeps event keys as plain strings so unknown
// names can be validated (and suggested) before being cast to EventName.
type rawConfig struct {
	Hooks map[string][]MatcherGroup `json:"hooks" yaml:"hooks"`
}

func (r *rawConfig) validate() (*Config, error) {
	cfg := &Config{Hooks: make(map[EventName][]MatcherGroup)}

	for name, groups := range r.Hooks {
		evt := EventName(name)
		if !coreEvents[evt] {
			if forwardCompatEvents[evt] {
				continue // silently skipped, not an error
			}
			return nil, &ParseError{Message: unknownEventMessage(name)}
		}

		for _, g := range groups {
			if len(g.Hooks) == 0 {
				return nil, &ParseError{Message: fmt.Sprintf("event %q: empty hooks list", name)}
			}
			if g.Matcher != nil && (*g.Matcher == "" || *g.Matcher == "*") {
				g.Matcher = nil
			} else if g.Matcher != nil {
				if _, err := regexp.Compile(*g.Matcher); err != nil {
					return nil, &ParseError{Message: fmt.Sprintf("event %q: invalid matcher regex: %v", name, err)}
				}
			}
			for _, h := range g.Hooks {
				if err := validateHandler(h); err != nil {
					return nil, err
				}
			}
		}

		cfg.Hooks[evt] = groups
	}

	return cfg, nil
}

func validateHandler(h HandlerSpec) error {
	switch h.Type {
	case "command":
		if h.Command == "" {
			return &ParseError{Message: "command handler missing command"}
		}
	case "prompt", "agent":
		if h.Prompt == "" {
			return &ParseError{Message: fmt.Sprintf("%s handler missing prompt", h.Type)}
		}
	default:
		return &ParseError{Message: fmt.Sprintf("unknown handler type %q", h.Type)}
	}
	return nil
}

// unknownEventMessage appends a "did you mean" suggestion using Levenshtein
// distance over the combined core + forward-compat event name set.
func unknownEventMessage(name string) string {
	best := ""
	bestDist := -1
	for evt := range coreEvents {
		d := levenshtein.ComputeDistance(name, string(evt))
		if bestDist < 0 || d < bestDist {
			bestDist, best = d, string(evt)
		}
	}
	for evt := range forwardCompatEvents {
		d := levenshtein.ComputeDistance(name, string(evt))
		if bestDist < 0 || d < bestDist {
			bestDist, best = d, string(evt)
		}
	}
	if best != "" && bestDist <= 3 {
		return fmt.Sprintf("unknown event %q (did you mean %q?)", name, best)
	}
	return fmt.Sprintf("unknown event %q", name)
}
