package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/agentcore/agentcore/internal/logging"
)

// NotFoundError reports a lookup or update against an id the store does not
// hold.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("session: %s: not found", e.ID)
}

// Store is the in-memory SessionId -> Session map. Get hands out copies and
// Update stores a copy back; AddMessage and CompactSession modify the stored
// record in place while holding the write lock (CompactSession releases it
// while the summary is generated).
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewStore returns an empty store. now defaults to time.Now; tests may
// inject a deterministic clock.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{sessions: make(map[string]*Session), now: now}
}

// CreateSession allocates a fresh session with a new id and stores it.
func (s *Store) CreateSession(cwd, transcriptPath string) *Session {
	sess := &Session{
		ID:             NewSessionID(),
		Cwd:            cwd,
		TranscriptPath: transcriptPath,
		UpdatedAt:      s.now(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

// Get returns a copy of the stored session, or false if id is unknown.
func (s *Store) Get(id string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// Update replaces the stored record for sess.ID. It rejects ids the store
// does not already hold, since Update is a replace, not an upsert.
func (s *Store) Update(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sess.ID]; !ok {
		return &NotFoundError{ID: sess.ID}
	}
	stored := sess
	s.sessions[sess.ID] = &stored
	return nil
}

// AddMessage appends msg to the session's message list and advances
// updated_at. Append-only: existing messages are never rewritten here.
func (s *Store) AddMessage(id string, msg Message) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return &NotFoundError{ID: id}
	}

	sess.Messages = append(sess.Messages, msg)
	sess.tokenEstimate += estimateTokens(msg.Content)
	sess.UpdatedAt = s.now()
	return nil
}

// CompactionConfig controls compact_session and auto_compact_all.
type CompactionConfig struct {
	// PreserveRecent is the number of trailing messages left untouched.
	PreserveRecent int
	// ContextSize is the denominator auto_compact_all divides the estimated
	// token count by to decide whether a session is over threshold.
	ContextSize int
}

// GenerateSummaryFunc synthesizes a summary message body from the messages
// being replaced. Injected so the store never depends on an inference
// engine directly.
type GenerateSummaryFunc func(replaced []Message) (string, error)

// CompactSession replaces the prefix of id's messages (keeping the last
// cfg.PreserveRecent) with a single synthesized system message, and appends
// a CompactionEntry to history. Running it again immediately afterward with
// the same config is a no-op: there is no longer a prefix longer than
// PreserveRecent to replace.
func (s *Store) CompactSession(id string, cfg CompactionConfig, genSummary GenerateSummaryFunc) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return &NotFoundError{ID: id}
	}
	// Copy out; the summary generator may block and must not hold the lock.
	snapshot := *sess
	s.mu.Unlock()

	keep := cfg.PreserveRecent
	if keep < 0 {
		keep = 0
	}
	if len(snapshot.Messages) <= keep {
		return nil
	}

	cut := len(snapshot.Messages) - keep
	if cut <= 1 {
		// Nothing left to replace except a single already-synthesized
		// summary message: running compaction again changes nothing.
		return nil
	}
	replaced := snapshot.Messages[:cut]

	summary, err := genSummary(replaced)
	if err != nil {
		return fmt.Errorf("session: compact %s: %w", id, err)
	}

	now := s.now()
	summaryMsg := Message{Role: RoleSystem, Content: summary, Timestamp: now}
	newMessages := make([]Message, 0, keep+1)
	newMessages = append(newMessages, summaryMsg)
	newMessages = append(newMessages, snapshot.Messages[cut:]...)

	entry := CompactionEntry{At: now, MessagesReplaced: len(replaced), Summary: summary}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-fetch: the session may have been updated (or deleted) while
	// genSummary ran.
	sess, ok = s.sessions[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	sess.Messages = newMessages
	sess.CompactionHistory = append(sess.CompactionHistory, entry)
	sess.tokenEstimate = estimateTokens(summary)
	for _, m := range newMessages[1:] {
		sess.tokenEstimate += estimateTokens(m.Content)
	}
	sess.UpdatedAt = now
	return nil
}

// AutoCompactAll walks every session and compacts those whose estimated
// token count divided by cfg.ContextSize is at or above threshold.
// cfg.ContextSize <= 0 disables the walk (there is no ratio to compute).
func (s *Store) AutoCompactAll(threshold float64, cfg CompactionConfig, genSummary GenerateSummaryFunc) {
	if cfg.ContextSize <= 0 {
		return
	}

	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id, sess := range s.sessions {
		ratio := float64(sess.tokenEstimate) / float64(cfg.ContextSize)
		if ratio >= threshold {
			ids = append(ids, id)
		}
	}
	s.mu.RUnlock()

	for _, id := range ids {
		if err := s.CompactSession(id, cfg, genSummary); err != nil {
			logging.Warn().Err(err).Str("session", id).Msg("session: auto-compact failed")
		}
	}
}
