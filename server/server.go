// Package server is the HTTP transport for the agent loop: a two-step
// submit-then-stream protocol plus synchronous chat, confirmation, and
// cancellation endpoints.
//
// Streaming follows a two-step handshake. POST /chat/message stores the
// input on its thread and returns the thread ID; GET /chat/stream opens
// the SSE stream that consumes it. The split keeps the submit payload a
// plain JSON POST while the stream stays a plain GET, which is what
// EventSource clients can speak.
package server

import (
	"log/slog"
	"net/http"

	"github.com/agenticpal/pal/agent"
	"github.com/agenticpal/pal/thread"
)

// Server wires the agent loop and thread manager into HTTP handlers.
type Server struct {
	loop    *agent.Loop
	threads *thread.Manager
	log     *slog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) ServerOption {
	return func(s *Server) {
		s.log = log
	}
}

// New creates a server over a loop and thread manager.
func New(loop *agent.Loop, threads *thread.Manager, opts ...ServerOption) *Server {
	s := &Server{
		loop:    loop,
		threads: threads,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat/message", s.handleMessage)
	mux.HandleFunc("/chat/stream", s.handleStream)
	mux.HandleFunc("/chat/confirm", s.handleConfirm)
	mux.HandleFunc("/chat/cancel", s.handleCancel)
	mux.HandleFunc("/chat", s.handleChat)
	mux.HandleFunc("/agui", s.handleAGUI)
	mux.HandleFunc("/health", healthHandler)
	return corsMiddleware(mux)
}

// corsMiddleware adds CORS headers for cross-origin frontend requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// healthHandler returns a simple health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
