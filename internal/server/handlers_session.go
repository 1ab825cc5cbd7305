package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agentcore/agentcore/internal/event"
	"github.com/agentcore/agentcore/internal/session"
	"github.com/agentcore/agentcore/pkg/acp"
)

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req acp.CreateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	cwd := req.Cwd
	if cwd == "" {
		cwd = s.config.Directory
	}
	sess := s.Store.CreateSession(cwd, req.TranscriptPath)
	writeJSON(w, http.StatusCreated, acp.FromSession(*sess))
}

func (s *Server) sessionOr404(w http.ResponseWriter, r *http.Request) (session.Session, bool) {
	id := chi.URLParam(r, "sessionID")
	sess, ok := s.Store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "session "+id+" not found")
		return session.Session{}, false
	}
	return sess, true
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionOr404(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, acp.FromSession(sess))
}

// setSessionMode updates a session's current mode, mirroring the
// set_session_mode operation an ACP front-end uses to switch between
// presets (e.g. "default", "plan") without starting a new session.
func (s *Server) setSessionMode(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionOr404(w, r)
	if !ok {
		return
	}
	var req acp.SetSessionModeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	sess.Mode = req.Mode
	sess.UpdatedAt = time.Now()
	if err := s.Store.Update(sess); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	event.Publish(event.Event{
		Type: event.SessionUpdated,
		Data: event.SessionUpdatedData{SessionID: sess.ID, UpdatedAt: sess.UpdatedAt.Unix()},
	})
	updated, _ := s.Store.Get(sess.ID)
	writeJSON(w, http.StatusOK, acp.FromSession(updated))
}

func (s *Server) addMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionOr404(w, r)
	if !ok {
		return
	}
	var req acp.AddMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := s.Store.AddMessage(sess.ID, acp.ToMessage(req.Role, req.Content)); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	event.Publish(event.Event{
		Type: event.MessageAppended,
		Data: event.MessageAppendedData{SessionID: sess.ID, Role: req.Role},
	})
	updated, _ := s.Store.Get(sess.ID)
	writeJSON(w, http.StatusOK, acp.FromSession(updated))
}

// summarizeByConcat is the fallback summary generator used when no LLM
// summarizer is wired: it joins the replaced messages' content, truncated,
// so compaction remains exercisable without a model in the loop.
func summarizeByConcat(replaced []session.Message) (string, error) {
	parts := make([]string, 0, len(replaced))
	for _, m := range replaced {
		parts = append(parts, string(m.Role)+": "+m.Content)
	}
	joined := strings.Join(parts, "\n")
	const maxLen = 2000
	if len(joined) > maxLen {
		joined = joined[:maxLen] + "…"
	}
	return "Summary of " + strconv.Itoa(len(replaced)) + " messages:\n" + joined, nil
}

func (s *Server) compactSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionOr404(w, r)
	if !ok {
		return
	}
	var req acp.CompactSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	cfg := session.CompactionConfig{PreserveRecent: req.PreserveRecent, ContextSize: req.ContextSize}
	if err := s.Store.CompactSession(sess.ID, cfg, summarizeByConcat); err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	updated, _ := s.Store.Get(sess.ID)
	replaced := 0
	if n := len(updated.CompactionHistory); n > len(sess.CompactionHistory) {
		replaced = updated.CompactionHistory[n-1].MessagesReplaced
	}
	event.Publish(event.Event{
		Type: event.SessionCompacted,
		Data: event.SessionCompactedData{SessionID: sess.ID, MessagesReplaced: replaced},
	})
	writeJSON(w, http.StatusOK, acp.FromSession(updated))
}

func (s *Server) runTurn(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionOr404(w, r)
	if !ok {
		return
	}
	if s.Orch == nil {
		writeError(w, http.StatusServiceUnavailable, "NOT_CONFIGURED", "no orchestrator wired")
		return
	}
	var req acp.RunTurnRequest
	_ = decodeJSON(r, &req) // empty body is valid, templateKey optional

	result, err := s.Orch.Run(r.Context(), sess.ID, req.TemplateKey)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, acp.RunTurnResponse{
		GeneratedText:   result.GeneratedText,
		TokensGenerated: result.TokensGenerated,
		FinishReason:    finishReasonLabel(result.FinishReason),
	})
}
