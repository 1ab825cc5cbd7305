package builtintool

import (
	"context"
	"encoding/json"
	"testing"
)

type fakeTool struct {
	name   string
	schema string
}

func (f fakeTool) Name() string            { return f.name }
func (f fakeTool) Description() string     { return "fake\nsecond line" }
func (f fakeTool) Schema() json.RawMessage { return json.RawMessage(f.schema) }
func (f fakeTool) Execute(ctx context.Context, args json.RawMessage, tc *Context) (*Result, error) {
	return &Result{Output: "ok"}, nil
}

func TestRegistry_ListIsSortedAndStable(t *testing.T) {
	r := NewRegistry()
	r.Register(fakeTool{name: "z_tool", schema: `{"type":"object","properties":{}}`})
	r.Register(fakeTool{name: "a_tool", schema: `{"type":"object","properties":{}}`})

	list := r.List()
	if len(list) != 2 || list[0].Name() != "a_tool" || list[1].Name() != "z_tool" {
		t.Fatalf("unexpected order: %v", list)
	}
}

func TestRegistry_ValidateStrictRejectsObjectProperty(t *testing.T) {
	r := NewRegistry()
	r.Register(fakeTool{name: "bad_tool", schema: `{"type":"object","properties":{"opts":{"type":"object"}}}`})

	err := r.ValidateStrict()
	if err == nil {
		t.Fatal("expected a validation error for an object-typed property")
	}
}

func TestRegistry_ValidateGracefulSkipsInvalidButKeepsValid(t *testing.T) {
	r := NewRegistry()
	r.Register(fakeTool{name: "good_tool", schema: `{"type":"object","properties":{"x":{"type":"string"}}}`})
	r.Register(fakeTool{name: "bad_tool", schema: `{"type":"object","properties":{"x":{"type":"object"}}}`})

	valid, warnings := r.ValidateGraceful()
	if len(valid) != 1 || valid[0].Name() != "good_tool" {
		t.Fatalf("expected only good_tool to survive, got %v", valid)
	}
	if len(warnings) != 1 || warnings[0].ToolName != "bad_tool" {
		t.Fatalf("expected one warning for bad_tool, got %v", warnings)
	}
}

func TestRegistry_Stats(t *testing.T) {
	r := NewRegistry()
	r.Register(fakeTool{name: "good_tool", schema: `{"type":"object","properties":{"x":{"type":"string"}}}`})
	r.Register(fakeTool{name: "bad_tool", schema: `{"type":"object","properties":{"x":{"type":"object"}}}`})

	stats := r.Stats()
	if stats.Total != 2 || stats.Valid != 1 || stats.Invalid != 1 || stats.ErrorCount != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestDeriveCLIMetadata_SplitsOnFirstUnderscore(t *testing.T) {
	meta := DeriveCLIMetadata(fakeTool{name: "files_read", schema: `{}`})
	if meta.Category != "files" || meta.SubName != "read" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
	if meta.Summary != "fake" {
		t.Fatalf("Summary = %q, want first non-blank line", meta.Summary)
	}
}
