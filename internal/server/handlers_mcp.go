package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agentcore/agentcore/internal/mcpclient"
	"github.com/agentcore/agentcore/pkg/acp"
)

func (s *Server) listMCPServers(w http.ResponseWriter, r *http.Request) {
	if s.MCP == nil {
		writeJSON(w, http.StatusOK, []acp.MCPServerStatus{})
		return
	}
	statuses := s.MCP.Status()
	out := make([]acp.MCPServerStatus, 0, len(statuses))
	for name, st := range statuses {
		out = append(out, acp.MCPServerStatus{Name: name, Status: string(st)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) addMCPServer(w http.ResponseWriter, r *http.Request) {
	if s.MCP == nil {
		writeError(w, http.StatusServiceUnavailable, "NOT_CONFIGURED", "no MCP manager wired")
		return
	}
	var req acp.AddMCPServerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	cfg := mcpclient.ServerConfig{
		Name:    req.Name,
		Type:    mcpclient.TransportKind(req.Type),
		Command: req.Command,
		URL:     req.URL,
	}
	for k, v := range req.Env {
		cfg.Env = append(cfg.Env, mcpclient.EnvVar{Name: k, Value: v})
	}
	for k, v := range req.Headers {
		cfg.Headers = append(cfg.Headers, mcpclient.Header{Name: k, Value: v})
	}

	if err := s.MCP.AddServer(r.Context(), cfg); err != nil {
		writeError(w, http.StatusBadGateway, "MCP_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, acp.MCPServerStatus{Name: req.Name, Status: "connected"})
}

func (s *Server) removeMCPServer(w http.ResponseWriter, r *http.Request) {
	if s.MCP == nil {
		writeError(w, http.StatusServiceUnavailable, "NOT_CONFIGURED", "no MCP manager wired")
		return
	}
	name := chi.URLParam(r, "name")
	if err := s.MCP.RemoveServer(name); err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
