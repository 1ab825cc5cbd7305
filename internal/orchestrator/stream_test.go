package orchestrator

import (
	"context"
	"testing"

	"github.com/agentcore/agentcore/internal/session"
)

type scriptedStreamQueue struct {
	chunks []StreamChunk
}

func (q *scriptedStreamQueue) SubmitStream(ctx context.Context, sess session.Session) (<-chan StreamChunk, error) {
	ch := make(chan StreamChunk, len(q.chunks))
	for _, c := range q.chunks {
		ch <- c
	}
	close(ch)
	return ch, nil
}

func TestGenerateStream_ProxiesChunksWithoutToolDispatch(t *testing.T) {
	final := FinishEndOfSequence
	q := &scriptedStreamQueue{chunks: []StreamChunk{
		{Text: "Hel", TokensSoFar: 1},
		{Text: "lo", TokensSoFar: 2, FinishReason: &final},
	}}

	store := session.NewStore(nil)
	sess := store.CreateSession("/work", "")

	ch, err := GenerateStream(context.Background(), q, *sess)
	if err != nil {
		t.Fatalf("GenerateStream: %v", err)
	}

	var got []StreamChunk
	for c := range ch {
		got = append(got, c)
	}
	if len(got) != 2 {
		t.Fatalf("got %d chunks, want 2", len(got))
	}
	if got[0].Text != "Hel" || got[1].Text != "lo" {
		t.Errorf("unexpected chunk text: %+v", got)
	}
	if got[1].FinishReason == nil || *got[1].FinishReason != FinishEndOfSequence {
		t.Errorf("expected final chunk to carry FinishEndOfSequence")
	}
}
