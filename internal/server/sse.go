package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/agentcore/agentcore/internal/event"
)

// sseHeartbeatInterval keeps idle connections (and any proxies between
// them) from timing out.
const sseHeartbeatInterval = 30 * time.Second

func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events := make(chan event.Event, 64)
	unsubscribe := event.SubscribeAll(func(e event.Event) {
		select {
		case events <- e:
		default:
			// drop on a full buffer rather than block the publisher
		}
	})
	defer unsubscribe()

	ticker := time.NewTicker(sseHeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case e := <-events:
			payload, err := json.Marshal(e.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Type, payload)
			flusher.Flush()
		}
	}
}
