package server

import (
	"encoding/json"
	"errors"
	"net/http"

	pal "github.com/agenticpal/pal"
	"github.com/agenticpal/pal/agent"
	"github.com/agenticpal/pal/thread"
)

type messageRequest struct {
	Message  string `json:"message"`
	ThreadID string `json:"thread_id,omitempty"`
}

type acceptedResponse struct {
	ThreadID string `json:"thread_id"`
	Status   string `json:"status"`
}

type threadRequest struct {
	ThreadID string `json:"thread_id"`
}

type chatResponse struct {
	ThreadID             string           `json:"thread_id"`
	Response             string           `json:"response"`
	RequiresConfirmation bool             `json:"requires_confirmation"`
	PendingActions       []pal.Invocation `json:"pending_actions,omitempty"`
	ConfirmationPrompt   string           `json:"confirmation_prompt,omitempty"`
}

type cancelResponse struct {
	ThreadID  string           `json:"thread_id"`
	Status    string           `json:"status"`
	Cancelled []pal.Invocation `json:"cancelled,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleMessage is step one of the streaming protocol: it stores the
// message on its thread and returns the thread ID. GET /chat/stream
// runs and streams it.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	th := s.threads.GetOrCreate(req.ThreadID)
	th.SetPendingInput(thread.InputMessage, req.Message)

	s.log.Info("message accepted", "thread_id", th.ID())
	writeJSON(w, http.StatusOK, acceptedResponse{ThreadID: th.ID(), Status: "accepted"})
}

// handleChat is the synchronous endpoint: run one full cycle and return
// the collected outcome as JSON.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	th := s.threads.GetOrCreate(req.ThreadID)
	result, err := s.loop.Send(r.Context(), th, req.Message)
	if err != nil {
		s.log.Error("chat failed", "thread_id", th.ID(), "error", err)
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toChatResponse(result))
}

// handleConfirm approves the thread's pending destructive actions,
// executes them, and returns the model's closing reply.
func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req threadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	th, ok := s.threads.Get(req.ThreadID)
	if !ok {
		writeError(w, http.StatusNotFound, (&thread.ErrThreadNotFound{ThreadID: req.ThreadID}).Error())
		return
	}

	result, err := s.loop.Confirm(r.Context(), th)
	if err != nil {
		s.log.Error("confirm failed", "thread_id", th.ID(), "error", err)
		writeError(w, statusForError(err), err.Error())
		return
	}

	s.log.Info("actions confirmed", "thread_id", th.ID())
	writeJSON(w, http.StatusOK, toChatResponse(result))
}

// handleCancel discards the thread's pending destructive actions.
// Cancelling when nothing is pending is a reported no-op.
func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req threadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	th, ok := s.threads.Get(req.ThreadID)
	if !ok {
		writeError(w, http.StatusNotFound, (&thread.ErrThreadNotFound{ThreadID: req.ThreadID}).Error())
		return
	}

	cancelled, ok := s.loop.Cancel(th)
	status := "cancelled"
	if !ok {
		status = "nothing_pending"
	}

	s.log.Info("cancel requested", "thread_id", th.ID(), "status", status)
	writeJSON(w, http.StatusOK, cancelResponse{
		ThreadID:  th.ID(),
		Status:    status,
		Cancelled: cancelled,
	})
}

func toChatResponse(result *agent.Result) chatResponse {
	resp := chatResponse{
		ThreadID:             result.ThreadID,
		Response:             result.Text,
		RequiresConfirmation: result.RequiresConfirmation(),
	}
	if resp.RequiresConfirmation {
		resp.PendingActions = result.Pending
		resp.ConfirmationPrompt = result.Summary
	}
	return resp
}

// statusForError maps run failures to HTTP status codes.
func statusForError(err error) int {
	var noPending *thread.ErrNoPendingConfirmation
	var inProgress *thread.ErrRunInProgress
	switch {
	case errors.As(err, &noPending):
		return http.StatusConflict
	case errors.As(err, &inProgress):
		return http.StatusConflict
	case pal.IsUserInput(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
