package orchestrator

import (
	"context"
	"errors"
	"testing"
)

func TestIsRetriable(t *testing.T) {
	cases := map[string]bool{
		"connection refused":      true,
		"dial tcp: timeout":       true,
		"dns lookup failed":       true,
		"upstream returned 503":   true,
		"429 too many requests":   false,
		"invalid argument: path":  false,
		"validation failed":       false,
		"malformed response body": false,
		"unexpected EOF":          false,
	}
	for errText, want := range cases {
		if got := isRetriable(errText); got != want {
			t.Errorf("isRetriable(%q) = %v, want %v", errText, got, want)
		}
	}
}

func TestIsRetriable_NonRetriableTakesPrecedence(t *testing.T) {
	if isRetriable("connection refused: invalid request") {
		t.Error("expected non-retriable pattern to win when both match")
	}
}

type countingExecutor struct {
	failures int
	calls    int
}

func (e *countingExecutor) Execute(ctx context.Context, call ToolCall) (string, error) {
	e.calls++
	if e.calls <= e.failures {
		return "", errors.New("connection reset by peer")
	}
	return "ok", nil
}

func TestExecuteWithRetry_RetriesTransientFailures(t *testing.T) {
	exec := &countingExecutor{failures: 2}
	o := &Orchestrator{Executor: exec, Retry: RetryPolicy{MaxRetries: 3}}

	out, err := o.executeWithRetry(context.Background(), ToolCall{Name: "terminal_exec"})
	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if out != "ok" {
		t.Errorf("output = %q, want ok", out)
	}
	if exec.calls != 3 {
		t.Errorf("calls = %d, want 3 (2 failures + 1 success)", exec.calls)
	}
}

func TestExecuteWithRetry_NonRetriableFailsImmediately(t *testing.T) {
	o := &Orchestrator{
		Executor: executorFunc(func(ctx context.Context, call ToolCall) (string, error) {
			return "", errors.New("invalid argument")
		}),
		Retry: RetryPolicy{MaxRetries: 3},
	}

	_, err := o.executeWithRetry(context.Background(), ToolCall{Name: "terminal_exec"})
	if err == nil {
		t.Fatal("expected non-retriable error to surface immediately")
	}
}

type executorFunc func(ctx context.Context, call ToolCall) (string, error)

func (f executorFunc) Execute(ctx context.Context, call ToolCall) (string, error) {
	return f(ctx, call)
}
