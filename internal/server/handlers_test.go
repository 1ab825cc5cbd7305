package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agentcore/agentcore/internal/builtintool"
	"github.com/agentcore/agentcore/internal/session"
	"github.com/agentcore/agentcore/pkg/acp"
)

func setupTestServer(t *testing.T) *Server {
	t.Helper()
	store := session.NewStore(nil)
	tools := builtintool.DefaultRegistry(t.TempDir())
	return New(DefaultConfig(), store, tools, nil, nil, nil)
}

func TestCreateSession(t *testing.T) {
	srv := setupTestServer(t)

	body, _ := json.Marshal(acp.CreateSessionRequest{Cwd: "/work"})
	req := httptest.NewRequest(http.MethodPost, "/session", bytes.NewReader(body))
	w := httptest.NewRecorder()

	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var got acp.Session
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.ID == "" || got.Cwd != "/work" {
		t.Errorf("unexpected session: %+v", got)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	srv := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/session/does-not-exist", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestAddMessage_AppendsAndReturnsSession(t *testing.T) {
	srv := setupTestServer(t)
	sess := srv.Store.CreateSession("/work", "")

	body, _ := json.Marshal(acp.AddMessageRequest{Role: "user", Content: "hello"})
	req := httptest.NewRequest(http.MethodPost, "/session/"+sess.ID+"/message", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var got acp.Session
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got.Messages) != 1 || got.Messages[0].Content != "hello" {
		t.Errorf("unexpected messages: %+v", got.Messages)
	}
}

func TestSetSessionMode_UpdatesMode(t *testing.T) {
	srv := setupTestServer(t)
	sess := srv.Store.CreateSession("/work", "")

	body, _ := json.Marshal(acp.SetSessionModeRequest{Mode: "plan"})
	req := httptest.NewRequest(http.MethodPost, "/session/"+sess.ID+"/mode", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var got acp.Session
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Mode != "plan" {
		t.Errorf("mode = %q, want %q", got.Mode, "plan")
	}

	stored, _ := srv.Store.Get(sess.ID)
	if stored.Mode != "plan" {
		t.Errorf("stored mode = %q, want %q", stored.Mode, "plan")
	}
}

func TestCompactSession_ReducesMessageCount(t *testing.T) {
	srv := setupTestServer(t)
	sess := srv.Store.CreateSession("/work", "")
	for i := 0; i < 5; i++ {
		_ = srv.Store.AddMessage(sess.ID, session.Message{Role: session.RoleUser, Content: "msg"})
	}

	body, _ := json.Marshal(acp.CompactSessionRequest{PreserveRecent: 1, ContextSize: 1000})
	req := httptest.NewRequest(http.MethodPost, "/session/"+sess.ID+"/compact", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var got acp.Session
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got.Messages) != 2 { // 1 summary + 1 preserved
		t.Errorf("expected 2 messages after compaction, got %d", len(got.Messages))
	}
}

func TestListTools_ReturnsCatalog(t *testing.T) {
	srv := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/tool", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got []acp.ToolCatalogEntry
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) == 0 {
		t.Error("expected at least one built-in tool in the catalog")
	}
}
