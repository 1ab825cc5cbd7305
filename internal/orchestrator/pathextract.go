package orchestrator

import (
	"encoding/json"
	"strings"

	"github.com/agentcore/agentcore/internal/builtintool"
)

// isPathProperty reports whether a schema property name conventionally
// holds a filesystem path: "path"/"paths", or any name ending in that word.
func isPathProperty(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, "path") || strings.HasSuffix(lower, "paths")
}

// writeVerbs/readVerbs classify a tool's declared path fields as reads or
// writes from its name, mirroring the substring convention
// capabilitySubstrings already uses for capability gating.
var writeVerbs = []string{"write", "edit", "delete", "create"}
var readVerbs = []string{"read", "list", "grep", "glob", "search"}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// extractPathMetadata walks tool's JSON Schema for path-shaped top-level
// properties, pulls any matching values out of the call's parsed arguments,
// and assigns them to ReadPaths or WritePaths by the tool name's verb
// convention. If the schema declares no path-shaped property, or the
// arguments don't parse as a JSON object, the call is treated as
// side-effectful: the dependency analyzer's worst-case default for an
// argument shape it can't resolve into paths (spec.md §4.6).
func extractPathMetadata(tool builtintool.Tool, args json.RawMessage) (readPaths, writePaths []string, sideEffectful bool) {
	var schema struct {
		Properties map[string]struct {
			Type string `json:"type"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(tool.Schema(), &schema); err != nil {
		return nil, nil, true
	}

	var pathFields []string
	for name, prop := range schema.Properties {
		if !isPathProperty(name) {
			continue
		}
		if prop.Type != "string" && prop.Type != "array" {
			continue
		}
		pathFields = append(pathFields, name)
	}
	if len(pathFields) == 0 {
		return nil, nil, true
	}

	var rawArgs map[string]json.RawMessage
	if err := json.Unmarshal(args, &rawArgs); err != nil {
		return nil, nil, true
	}

	var values []string
	for _, field := range pathFields {
		raw, ok := rawArgs[field]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s != "" {
				values = append(values, s)
			}
			continue
		}
		var many []string
		if err := json.Unmarshal(raw, &many); err == nil {
			values = append(values, many...)
		}
	}

	lowerName := strings.ToLower(tool.Name())
	switch {
	case containsAny(lowerName, writeVerbs):
		writePaths = values
	case containsAny(lowerName, readVerbs):
		readPaths = values
	default:
		// Declares paths but the name gives no read/write signal: treat as
		// a write, since that's what forces serialization against both
		// reads and writes sharing the same path.
		writePaths = values
	}

	return readPaths, writePaths, false
}
