package orchestrator

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/agentcore/agentcore/internal/builtintool"
	"github.com/agentcore/agentcore/internal/dependency"
)

func TestExtractPathMetadata_WriteToolDeclaresWritePath(t *testing.T) {
	tool := builtintool.NewWriteTool("/work")
	args, _ := json.Marshal(map[string]string{"path": "/work/a.txt", "content": "hi"})

	reads, writes, sideEffectful := extractPathMetadata(tool, args)
	if sideEffectful {
		t.Fatal("expected a declared-path write call to not be side-effectful")
	}
	if len(reads) != 0 || len(writes) != 1 || writes[0] != "/work/a.txt" {
		t.Errorf("reads=%v writes=%v, want writes=[/work/a.txt]", reads, writes)
	}
}

func TestExtractPathMetadata_ReadToolDeclaresReadPath(t *testing.T) {
	tool := builtintool.NewReadTool("/work")
	args, _ := json.Marshal(map[string]string{"path": "/work/a.txt"})

	reads, writes, sideEffectful := extractPathMetadata(tool, args)
	if sideEffectful {
		t.Fatal("expected a declared-path read call to not be side-effectful")
	}
	if len(writes) != 0 || len(reads) != 1 || reads[0] != "/work/a.txt" {
		t.Errorf("reads=%v writes=%v, want reads=[/work/a.txt]", reads, writes)
	}
}

func TestExtractPathMetadata_NoPathPropertyDefaultsSideEffectful(t *testing.T) {
	tool := builtintool.NewBashTool("/work")
	args, _ := json.Marshal(map[string]string{"command": "rm -rf /tmp/x"})

	reads, writes, sideEffectful := extractPathMetadata(tool, args)
	if !sideEffectful {
		t.Error("expected a tool with no path-shaped schema property to default to side-effectful")
	}
	if len(reads) != 0 || len(writes) != 0 {
		t.Errorf("expected no paths extracted, got reads=%v writes=%v", reads, writes)
	}
}

func TestDispatch_UnregisteredToolNamesRunSequentially(t *testing.T) {
	reg := builtintool.NewRegistry()
	reg.Register(builtintool.NewWriteTool("/work"))

	o := &Orchestrator{Tools: reg, Executor: echoExecutor{}}

	// Neither call resolves in the registry, so both default to worst-case
	// side-effectful and dependency.Classify must serialize them.
	calls := []ToolCall{
		{ID: "1", Name: "mystery_tool", Args: json.RawMessage(`{}`)},
		{ID: "2", Name: "mystery_tool_2", Args: json.RawMessage(`{}`)},
	}
	depCalls := []dependency.ToolCall{
		{ID: "1", Name: "mystery_tool", SideEffectful: true},
		{ID: "2", Name: "mystery_tool_2", SideEffectful: true},
	}
	if got := dependency.Classify(depCalls); got.Mode != dependency.Sequential {
		t.Fatalf("expected Sequential classification for two unresolved side-effectful calls, got %v", got.Mode)
	}

	results := o.dispatch(context.Background(), calls, nil)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}
