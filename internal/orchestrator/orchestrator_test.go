package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/agentcore/agentcore/internal/session"
)

type scriptedQueue struct {
	results []GenerateResult
	calls   int
}

func (q *scriptedQueue) Submit(ctx context.Context, sess session.Session) (GenerateResult, error) {
	r := q.results[q.calls]
	q.calls++
	return r, nil
}

type fixedTemplateEngine struct {
	calls [][]ToolCall
	index int
}

func (e *fixedTemplateEngine) ExtractToolCalls(text string) ([]ToolCall, error) {
	calls := e.calls[e.index]
	e.index++
	return calls, nil
}

type echoExecutor struct{}

func (echoExecutor) Execute(ctx context.Context, call ToolCall) (string, error) {
	return call.Name + ":done", nil
}

func TestOrchestrator_Run_StopsAtEndOfSequence(t *testing.T) {
	store := session.NewStore(nil)
	sess := store.CreateSession("/work", "")

	queue := &scriptedQueue{results: []GenerateResult{
		{GeneratedText: "final answer", FinishReason: FinishEndOfSequence, TokensGenerated: 5},
	}}

	o := &Orchestrator{
		Store:          store,
		Queue:          queue,
		TemplateEngine: &fixedTemplateEngine{},
		Executor:       echoExecutor{},
	}

	result, err := o.Run(context.Background(), sess.ID, "key")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.GeneratedText != "final answer" || result.TokensGenerated != 5 {
		t.Errorf("unexpected result: %+v", result)
	}
	if queue.calls != 1 {
		t.Errorf("expected a single queue submission, got %d", queue.calls)
	}
}

func TestOrchestrator_Run_DispatchesToolCallsAndContinues(t *testing.T) {
	store := session.NewStore(nil)
	sess := store.CreateSession("/work", "")

	queue := &scriptedQueue{results: []GenerateResult{
		{GeneratedText: "calling a tool", FinishReason: FinishToolCallDetected},
		{GeneratedText: "final answer", FinishReason: FinishEndOfSequence, TokensGenerated: 3},
	}}
	tmpl := &fixedTemplateEngine{calls: [][]ToolCall{
		{{ID: "call-1", Name: "memo_create", Args: json.RawMessage(`{}`)}},
	}}

	o := &Orchestrator{
		Store:          store,
		Queue:          queue,
		TemplateEngine: tmpl,
		Executor:       echoExecutor{},
	}

	result, err := o.Run(context.Background(), sess.ID, "key")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.GeneratedText != "calling a toolfinal answer" {
		t.Errorf("GeneratedText = %q", result.GeneratedText)
	}

	got, _ := store.Get(sess.ID)
	if len(got.Messages) != 2 {
		t.Fatalf("expected 2 messages appended (assistant + tool), got %d: %+v", len(got.Messages), got.Messages)
	}
	if got.Messages[0].Role != session.RoleAssistant {
		t.Errorf("first message role = %v, want assistant", got.Messages[0].Role)
	}
	if got.Messages[1].Role != session.RoleTool || got.Messages[1].ToolCallID != "call-1" {
		t.Errorf("unexpected tool message: %+v", got.Messages[1])
	}
	if got.Messages[1].Content != "memo_create:done" {
		t.Errorf("tool message content = %q", got.Messages[1].Content)
	}
}

func TestOrchestrator_Run_ParallelResultsPreserveOrder(t *testing.T) {
	store := session.NewStore(nil)
	sess := store.CreateSession("/work", "")

	queue := &scriptedQueue{results: []GenerateResult{
		{GeneratedText: "calling tools", FinishReason: FinishToolCallDetected},
		{GeneratedText: "done", FinishReason: FinishEndOfSequence},
	}}
	tmpl := &fixedTemplateEngine{calls: [][]ToolCall{
		{
			{ID: "a", Name: "search_grep"},
			{ID: "b", Name: "search_glob"},
			{ID: "c", Name: "files_list"},
		},
	}}

	o := &Orchestrator{
		Store:          store,
		Queue:          queue,
		TemplateEngine: tmpl,
		Executor:       echoExecutor{},
	}

	if _, err := o.Run(context.Background(), sess.ID, "key"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, _ := store.Get(sess.ID)
	toolMsgs := got.Messages[1:]
	wantIDs := []string{"a", "b", "c"}
	for i, id := range wantIDs {
		if toolMsgs[i].ToolCallID != id {
			t.Errorf("tool message %d has call id %q, want %q", i, toolMsgs[i].ToolCallID, id)
		}
	}
}

func TestOrchestrator_Run_CapabilityFailureBecomesErrorResult(t *testing.T) {
	store := session.NewStore(nil)
	sess := store.CreateSession("/work", "")
	sess.Capabilities = &session.ClientCapabilities{}
	if err := store.Update(sess); err != nil {
		t.Fatal(err)
	}

	queue := &scriptedQueue{results: []GenerateResult{
		{GeneratedText: "calling a tool", FinishReason: FinishToolCallDetected},
		{GeneratedText: "done", FinishReason: FinishEndOfSequence},
	}}
	tmpl := &fixedTemplateEngine{calls: [][]ToolCall{
		{{ID: "call-1", Name: "terminal_exec"}},
	}}

	o := &Orchestrator{Store: store, Queue: queue, TemplateEngine: tmpl, Executor: echoExecutor{}}

	if _, err := o.Run(context.Background(), sess.ID, "key"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, _ := store.Get(sess.ID)
	toolMsg := got.Messages[1]
	if toolMsg.Content == "" || toolMsg.Content[:6] != "Error:" {
		t.Errorf("expected capability failure to surface as an Error: tool message, got %q", toolMsg.Content)
	}
}

type alwaysFailExecutor struct{}

func (alwaysFailExecutor) Execute(ctx context.Context, call ToolCall) (string, error) {
	return "", errors.New("invalid arguments")
}

func TestOrchestrator_Run_NonRetriableToolErrorBecomesErrorResult(t *testing.T) {
	store := session.NewStore(nil)
	sess := store.CreateSession("/work", "")

	queue := &scriptedQueue{results: []GenerateResult{
		{GeneratedText: "calling a tool", FinishReason: FinishToolCallDetected},
		{GeneratedText: "done", FinishReason: FinishEndOfSequence},
	}}
	tmpl := &fixedTemplateEngine{calls: [][]ToolCall{
		{{ID: "call-1", Name: "memo_create"}},
	}}

	o := &Orchestrator{Store: store, Queue: queue, TemplateEngine: tmpl, Executor: alwaysFailExecutor{}}

	if _, err := o.Run(context.Background(), sess.ID, "key"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, _ := store.Get(sess.ID)
	if got.Messages[1].Content != "Error: invalid arguments" {
		t.Errorf("unexpected tool message content: %q", got.Messages[1].Content)
	}
}
