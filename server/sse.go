package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	pal "github.com/agenticpal/pal"
	"github.com/agenticpal/pal/event"
	"github.com/agenticpal/pal/thread"
)

// streamPayload is the wire form of a loop event. Err is flattened to a
// string since errors don't marshal.
type streamPayload struct {
	Type       string           `json:"type"`
	ThreadID   string           `json:"thread_id"`
	Node       string           `json:"node,omitempty"`
	Token      string           `json:"token,omitempty"`
	Invocation *pal.Invocation  `json:"invocation,omitempty"`
	Result     *pal.ToolResult  `json:"result,omitempty"`
	Pending    []pal.Invocation `json:"pending,omitempty"`
	Summary    string           `json:"summary,omitempty"`
	Response   string           `json:"response,omitempty"`
	Error      string           `json:"error,omitempty"`
	Timestamp  time.Time        `json:"timestamp"`
}

func newStreamPayload(e event.Event) streamPayload {
	p := streamPayload{
		Type:       string(e.Type),
		ThreadID:   e.ThreadID,
		Node:       e.Node,
		Token:      e.Token,
		Invocation: e.Invocation,
		Result:     e.Result,
		Pending:    e.Pending,
		Summary:    e.Summary,
		Response:   e.Response,
		Timestamp:  e.Timestamp,
	}
	if e.Err != nil {
		p.Error = e.Err.Error()
	}
	return p
}

// handleStream is step two of the streaming protocol: it opens the SSE
// stream that consumes the thread's pending input. The thread and input
// must have been submitted via POST /chat/message first.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	threadID := r.URL.Query().Get("thread_id")
	if threadID == "" {
		writeError(w, http.StatusBadRequest, "thread_id is required")
		return
	}

	th, ok := s.threads.Get(threadID)
	if !ok {
		writeError(w, http.StatusNotFound, (&thread.ErrThreadNotFound{ThreadID: threadID}).Error())
		return
	}

	log := s.log.With("thread_id", threadID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("streaming not supported")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	start := time.Now()
	var eventCount int
	for ev := range s.loop.RunStream(r.Context(), th) {
		eventCount++
		if err := writeSSE(w, flusher, string(ev.Type), newStreamPayload(ev)); err != nil {
			log.Error("failed to write SSE event", "error", err, "event_type", ev.Type)
			return
		}
	}

	log.Info("stream completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"events_sent", eventCount,
	)
}

// writeSSE writes one event in SSE format: event: TYPE\ndata: {json}\n\n
func writeSSE(w http.ResponseWriter, flusher http.Flusher, name string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, payload); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	flusher.Flush()
	return nil
}
