// Package agui bridges the loop's event stream to the AG-UI protocol.
package agui

import (
	"encoding/json"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/agenticpal/pal/event"
)

// RoleAssistant is the AG-UI role for model-authored messages.
const RoleAssistant = "assistant"

// Mapper converts loop events to AG-UI events. One loop event can map
// to several AG-UI events: text messages need explicit start/end
// framing that the Token stream doesn't carry.
//
// Create a new Mapper for each run. The Mapper is not safe for
// concurrent use; each run's consumer should own its own Mapper.
type Mapper struct {
	threadID string
	runID    string

	msgID   string
	msgOpen bool
}

// NewMapper creates a Mapper for a single run. Empty IDs are generated.
func NewMapper(threadID, runID string) *Mapper {
	if threadID == "" {
		threadID = events.GenerateThreadID()
	}
	if runID == "" {
		runID = events.GenerateRunID()
	}
	return &Mapper{
		threadID: threadID,
		runID:    runID,
	}
}

// ThreadID returns the thread ID for this mapper.
func (m *Mapper) ThreadID() string {
	return m.threadID
}

// RunID returns the run ID for this mapper.
func (m *Mapper) RunID() string {
	return m.runID
}

// MapEvent converts one loop event to its AG-UI equivalents.
// Returns nil for events with no AG-UI representation.
func (m *Mapper) MapEvent(e event.Event) []events.Event {
	switch e.Type {
	case event.Connected:
		return []events.Event{events.NewRunStartedEvent(m.threadID, m.runID)}

	case event.Token:
		out := m.openMessage()
		return append(out, events.NewTextMessageContentEvent(m.msgID, e.Token))

	case event.NodeStart:
		return []events.Event{events.NewStepStartedEvent(e.Node)}

	case event.NodeEnd:
		return append(m.closeMessage(), events.NewStepFinishedEvent(e.Node))

	case event.ActionStart:
		if e.Invocation == nil {
			return nil
		}
		args, _ := json.Marshal(e.Invocation.Args)
		return []events.Event{
			events.NewToolCallStartEvent(e.Invocation.ID, e.Invocation.Tool),
			events.NewToolCallArgsEvent(e.Invocation.ID, string(args)),
		}

	case event.ActionEnd:
		if e.Invocation == nil {
			return nil
		}
		out := []events.Event{events.NewToolCallEndEvent(e.Invocation.ID)}
		if e.Result != nil {
			out = append(out, events.NewToolCallResultEvent(
				events.GenerateMessageID(), e.Invocation.ID, e.Result.Content))
		}
		return out

	case event.ConfirmationRequired:
		// The confirmation prompt arrives as a complete assistant
		// message rather than a token stream.
		out := m.closeMessage()
		msgID := events.GenerateMessageID()
		return append(out,
			events.NewTextMessageStartEvent(msgID, events.WithRole(RoleAssistant)),
			events.NewTextMessageContentEvent(msgID, e.Summary),
			events.NewTextMessageEndEvent(msgID),
		)

	case event.Complete:
		return append(m.closeMessage(), events.NewRunFinishedEvent(m.threadID, m.runID))

	case event.Error:
		msg := "unknown error"
		if e.Err != nil {
			msg = e.Err.Error()
		}
		return append(m.closeMessage(), events.NewRunErrorEvent(msg))

	default:
		return nil
	}
}

// openMessage starts a text message frame if one is not open.
func (m *Mapper) openMessage() []events.Event {
	if m.msgOpen {
		return nil
	}
	m.msgID = events.GenerateMessageID()
	m.msgOpen = true
	return []events.Event{events.NewTextMessageStartEvent(m.msgID, events.WithRole(RoleAssistant))}
}

// closeMessage ends the open text message frame, if any.
func (m *Mapper) closeMessage() []events.Event {
	if !m.msgOpen {
		return nil
	}
	m.msgOpen = false
	return []events.Event{events.NewTextMessageEndEvent(m.msgID)}
}
