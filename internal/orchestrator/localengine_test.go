package orchestrator

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/agentcore/agentcore/internal/builtintool"
	"github.com/agentcore/agentcore/internal/session"
)

func TestNoopQueue_AlwaysReportsEndOfSequence(t *testing.T) {
	gen, err := NoopQueue{}.Submit(context.Background(), session.Session{})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if gen.FinishReason != FinishEndOfSequence {
		t.Errorf("FinishReason = %v, want FinishEndOfSequence", gen.FinishReason)
	}
}

func TestNoopTemplateEngine_ExtractsNoToolCalls(t *testing.T) {
	calls, err := NoopTemplateEngine{}.ExtractToolCalls("anything")
	if err != nil {
		t.Fatalf("ExtractToolCalls returned error: %v", err)
	}
	if calls != nil {
		t.Errorf("expected nil calls, got %v", calls)
	}
}

func TestBuiltinToolExecutor_RunsRegisteredTool(t *testing.T) {
	dir := t.TempDir()
	reg := builtintool.NewRegistry()
	reg.Register(builtintool.NewWriteTool(dir))
	exec := &BuiltinToolExecutor{Registry: reg, WorkDir: dir}

	args, _ := json.Marshal(map[string]string{"path": dir + "/out.txt", "content": "hello"})
	out, err := exec.Execute(context.Background(), ToolCall{ID: "1", Name: "files_write", Args: args})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if out == "" {
		t.Error("expected non-empty output from a successful write")
	}
}

func TestBuiltinToolExecutor_UnknownToolErrors(t *testing.T) {
	exec := &BuiltinToolExecutor{Registry: builtintool.NewRegistry()}
	if _, err := exec.Execute(context.Background(), ToolCall{ID: "1", Name: "nonexistent"}); err == nil {
		t.Fatal("expected an error for an unregistered tool name")
	}
}
