package agui

import (
	"errors"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
)

// RunAgentInput is the AG-UI protocol request body for running an agent.
// Transport-agnostic; the HTTP layer decodes into it.
type RunAgentInput struct {
	ThreadID       string           `json:"thread_id"`
	RunID          string           `json:"run_id"`
	Messages       []events.Message `json:"messages"`
	State          any              `json:"state,omitempty"`
	ForwardedProps any              `json:"forwarded_props,omitempty"`
}

// PreparedInput is a validated RunAgentInput ready for a loop run.
type PreparedInput struct {
	ThreadID string
	RunID    string
	// Text is the newest user message. Server-side thread history is
	// authoritative, so earlier messages in the request are ignored.
	Text string
}

// ErrNoMessages is returned when the input contains no user message.
var ErrNoMessages = errors.New("no user message provided")

// Prepare validates the input and extracts the message to run.
func (r *RunAgentInput) Prepare() (*PreparedInput, error) {
	text := ""
	for i := len(r.Messages) - 1; i >= 0; i-- {
		msg := r.Messages[i]
		if msg.Role == "user" && msg.Content != nil && *msg.Content != "" {
			text = *msg.Content
			break
		}
	}
	if text == "" {
		return nil, ErrNoMessages
	}

	return &PreparedInput{
		ThreadID: r.ThreadID,
		RunID:    r.RunID,
		Text:     text,
	}, nil
}
