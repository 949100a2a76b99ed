package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	aguievents "github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/agenticpal/pal/agui"
	"github.com/agenticpal/pal/thread"
)

// handleAGUI runs the agent for an AG-UI protocol request and streams
// AG-UI events via SSE.
func (s *Server) handleAGUI(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var input agui.RunAgentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	prepared, err := input.Prepare()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	th := s.threads.GetOrCreate(prepared.ThreadID)
	th.SetPendingInput(thread.InputMessage, prepared.Text)

	log := s.log.With("thread_id", th.ID(), "run_id", prepared.RunID)
	log.Info("agui request started")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("streaming not supported")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	mapper := agui.NewMapper(th.ID(), prepared.RunID)

	var eventCount int
	for ev := range s.loop.RunStream(r.Context(), th) {
		for _, aguiEvent := range mapper.MapEvent(ev) {
			eventCount++
			if err := writeAGUI(w, flusher, aguiEvent); err != nil {
				log.Error("failed to write SSE event", "error", err, "event_type", aguiEvent.Type())
				return
			}
		}
	}

	log.Info("agui request completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"events_sent", eventCount,
	)
}

// writeAGUI writes an AG-UI event in SSE format.
func writeAGUI(w http.ResponseWriter, flusher http.Flusher, ev aguievents.Event) error {
	data, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type(), data); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	flusher.Flush()
	return nil
}
