package server

import (
	"net/http"

	"github.com/agentcore/agentcore/internal/builtintool"
	"github.com/agentcore/agentcore/internal/orchestrator"
	"github.com/agentcore/agentcore/pkg/acp"
)

func finishReasonLabel(fr orchestrator.FinishReason) string {
	if fr == orchestrator.FinishToolCallDetected {
		return "tool_call_detected"
	}
	return "end_of_sequence"
}

func (s *Server) listTools(w http.ResponseWriter, r *http.Request) {
	if s.Tools == nil {
		writeJSON(w, http.StatusOK, []acp.ToolCatalogEntry{})
		return
	}
	valid, _ := s.Tools.ValidateGraceful() // warnings surfaced via registry statistics, not failed requests
	out := make([]acp.ToolCatalogEntry, 0, len(valid))
	for _, t := range valid {
		meta := builtintool.DeriveCLIMetadata(t)
		if meta.Hidden {
			continue
		}
		out = append(out, acp.ToolCatalogEntry{
			Name:        t.Name(),
			Category:    meta.Category,
			SubName:     meta.SubName,
			Summary:     meta.Summary,
			Description: t.Description(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
