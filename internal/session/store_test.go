package session

import (
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestStore_CreateGet(t *testing.T) {
	store := NewStore(nil)

	sess := store.CreateSession("/work", "")
	if sess.ID == "" {
		t.Fatal("expected a non-empty session id")
	}

	got, ok := store.Get(sess.ID)
	if !ok {
		t.Fatal("expected session to be found")
	}
	if got.Cwd != "/work" {
		t.Errorf("Cwd = %q, want /work", got.Cwd)
	}

	if _, ok := store.Get("does-not-exist"); ok {
		t.Fatal("expected lookup of unknown id to fail")
	}
}

func TestStore_UpdateRejectsUnknownID(t *testing.T) {
	store := NewStore(nil)

	err := store.Update(Session{ID: "nope"})
	if err == nil {
		t.Fatal("expected Update on an unknown id to fail")
	}
}

func TestStore_AddMessageAdvancesUpdatedAt(t *testing.T) {
	tick := time.Unix(1000, 0)
	store := NewStore(func() time.Time { return tick })

	sess := store.CreateSession("/work", "")
	before, _ := store.Get(sess.ID)

	tick = tick.Add(time.Second)
	if err := store.AddMessage(sess.ID, Message{Role: RoleUser, Content: "hello"}); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}

	after, _ := store.Get(sess.ID)
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Errorf("UpdatedAt did not advance: before=%v after=%v", before.UpdatedAt, after.UpdatedAt)
	}
	if len(after.Messages) != 1 || after.Messages[0].Content != "hello" {
		t.Errorf("unexpected messages: %+v", after.Messages)
	}
}

func TestStore_TokenEstimateNeverDecreases(t *testing.T) {
	store := NewStore(nil)
	sess := store.CreateSession("/work", "")

	var last int
	contents := []string{"a", "a longer message", "", "another one here"}
	for _, c := range contents {
		if err := store.AddMessage(sess.ID, Message{Role: RoleUser, Content: c}); err != nil {
			t.Fatalf("AddMessage: %v", err)
		}
		got, _ := store.Get(sess.ID)
		if got.tokenEstimate < last {
			t.Fatalf("token estimate decreased: %d -> %d", last, got.tokenEstimate)
		}
		last = got.tokenEstimate
	}
}

func TestStore_CompactSessionPreservesRecent(t *testing.T) {
	store := NewStore(nil)
	sess := store.CreateSession("/work", "")

	for i := 0; i < 5; i++ {
		if err := store.AddMessage(sess.ID, Message{Role: RoleUser, Content: "msg"}); err != nil {
			t.Fatalf("AddMessage: %v", err)
		}
	}

	cfg := CompactionConfig{PreserveRecent: 2}
	var replacedCount int
	genSummary := func(replaced []Message) (string, error) {
		replacedCount = len(replaced)
		return "summary of earlier turns", nil
	}

	if err := store.CompactSession(sess.ID, cfg, genSummary); err != nil {
		t.Fatalf("CompactSession: %v", err)
	}
	if replacedCount != 3 {
		t.Errorf("replaced %d messages, want 3", replacedCount)
	}

	got, _ := store.Get(sess.ID)
	if len(got.Messages) != 3 {
		t.Fatalf("got %d messages after compaction, want 3 (1 summary + 2 preserved)", len(got.Messages))
	}
	if got.Messages[0].Role != RoleSystem || got.Messages[0].Content != "summary of earlier turns" {
		t.Errorf("unexpected summary message: %+v", got.Messages[0])
	}
	if len(got.CompactionHistory) != 1 {
		t.Fatalf("expected one compaction history entry, got %d", len(got.CompactionHistory))
	}
}

func TestStore_CompactSessionTwiceIsNoOp(t *testing.T) {
	store := NewStore(nil)
	sess := store.CreateSession("/work", "")
	for i := 0; i < 4; i++ {
		store.AddMessage(sess.ID, Message{Role: RoleUser, Content: "msg"})
	}

	cfg := CompactionConfig{PreserveRecent: 1}
	genSummary := func(replaced []Message) (string, error) { return "summary", nil }

	if err := store.CompactSession(sess.ID, cfg, genSummary); err != nil {
		t.Fatalf("first CompactSession: %v", err)
	}
	first, _ := store.Get(sess.ID)

	if err := store.CompactSession(sess.ID, cfg, genSummary); err != nil {
		t.Fatalf("second CompactSession: %v", err)
	}
	second, _ := store.Get(sess.ID)

	if len(second.Messages) != len(first.Messages) {
		t.Errorf("second compaction changed message count: %d -> %d", len(first.Messages), len(second.Messages))
	}
	if len(second.CompactionHistory) != len(first.CompactionHistory) {
		t.Errorf("second compaction should not append history when nothing was replaced")
	}
}

func TestStore_AutoCompactAllRespectsThreshold(t *testing.T) {
	store := NewStore(nil)
	sess := store.CreateSession("/work", "")

	for i := 0; i < 20; i++ {
		store.AddMessage(sess.ID, Message{Role: RoleUser, Content: "a moderately long piece of content"})
	}

	cfg := CompactionConfig{PreserveRecent: 2, ContextSize: 1000000}
	genSummary := func(replaced []Message) (string, error) { return "summary", nil }

	store.AutoCompactAll(0.99, cfg, genSummary)
	untouched, _ := store.Get(sess.ID)
	if len(untouched.CompactionHistory) != 0 {
		t.Fatalf("expected no compaction below threshold, got %d entries", len(untouched.CompactionHistory))
	}

	store.AutoCompactAll(0.0, cfg, genSummary)
	touched, _ := store.Get(sess.ID)
	if len(touched.CompactionHistory) != 1 {
		t.Fatalf("expected compaction once threshold is trivially met, got %d entries", len(touched.CompactionHistory))
	}
}
