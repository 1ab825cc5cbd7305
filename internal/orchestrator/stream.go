package orchestrator

import (
	"context"

	"github.com/agentcore/agentcore/internal/session"
)

// StreamChunk is one piece of a streamed generation.
type StreamChunk struct {
	Text         string
	TokensSoFar  int
	FinishReason *FinishReason // nil until the final chunk
}

// StreamQueue is the lower-level contract a caller can use instead of Run
// when it wants to implement its own tool loop: it returns chunks as they
// arrive, with no tool-call handling.
type StreamQueue interface {
	SubmitStream(ctx context.Context, sess session.Session) (<-chan StreamChunk, error)
}

// GenerateStream proxies directly to the underlying queue's streaming
// submission, performing none of Run's validation or tool-dispatch steps.
func GenerateStream(ctx context.Context, q StreamQueue, sess session.Session) (<-chan StreamChunk, error) {
	return q.SubmitStream(ctx, sess)
}
