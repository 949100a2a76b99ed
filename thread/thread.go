// Package thread tracks per-conversation state: message history, the
// confirmation gate for destructive actions, and the single-run lock.
//
// A thread is a small state machine. It idles between runs, moves to
// awaiting confirmation when a destructive action is proposed, and is
// executing while confirmed actions run. Destructive work never starts
// from any other path: the only way out of awaiting confirmation is an
// explicit confirm or cancel.
package thread

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	pal "github.com/agenticpal/pal"
	"github.com/agenticpal/pal/internal/store"
)

// State is the confirmation-gate state of a thread.
type State string

const (
	// StateIdle means no destructive action is outstanding.
	StateIdle State = "idle"
	// StateAwaitingConfirmation means a destructive action is parked
	// and the thread accepts only confirm or cancel.
	StateAwaitingConfirmation State = "awaiting_confirmation"
	// StateExecuting means confirmed actions are running.
	StateExecuting State = "executing"
)

// InputKind distinguishes what a submitted input means to the loop.
type InputKind string

const (
	// InputMessage is a regular user message.
	InputMessage InputKind = "message"
	// InputConfirm is the user's approval of pending actions.
	InputConfirm InputKind = "confirm"
)

// PendingInput is one submitted input waiting for a stream to consume
// it. The transport stores it on submit; the run takes it on stream
// open.
type PendingInput struct {
	Kind InputKind
	Text string
}

// GenerateThreadID returns a unique thread identifier.
func GenerateThreadID() string {
	return "thread-" + uuid.New().String()
}

// Thread is one conversation's state. Safe for concurrent use.
type Thread struct {
	id         string
	history    *store.MessageStore
	window     int
	persistent bool

	mu         sync.Mutex
	state      State
	pending    []pal.Invocation
	input      *PendingInput
	running    bool
	lastActive time.Time
}

func newThread(id string, window int, adapter store.Adapter) *Thread {
	return &Thread{
		id:         id,
		history:    store.NewMessageStore(adapter),
		window:     window,
		persistent: adapter != nil,
		state:      StateIdle,
		lastActive: time.Now(),
	}
}

// ID returns the thread identifier.
func (t *Thread) ID() string { return t.id }

// State returns the current gate state.
func (t *Thread) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// History returns the thread's message store.
func (t *Thread) History() *store.MessageStore { return t.history }

// Window returns the bounded slice of history handed to the model.
func (t *Thread) Window() []pal.Message {
	return t.history.Window(t.window)
}

// Touch updates the last-activity timestamp.
func (t *Thread) Touch() {
	t.mu.Lock()
	t.lastActive = time.Now()
	t.mu.Unlock()
}

// LastActive returns the last-activity timestamp.
func (t *Thread) LastActive() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastActive
}

// BeginRun acquires the thread's single-run lock.
func (t *Thread) BeginRun() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return &ErrRunInProgress{ThreadID: t.id}
	}
	t.running = true
	t.lastActive = time.Now()
	return nil
}

// EndRun releases the single-run lock and snapshots the history. The
// snapshot is best-effort: the live history stays authoritative, and a
// failed write only costs durability of this cycle's messages.
func (t *Thread) EndRun() {
	t.mu.Lock()
	t.running = false
	t.lastActive = time.Now()
	t.mu.Unlock()

	_ = t.Snapshot(context.Background())
}

// Snapshot persists the history under the thread ID. A no-op on
// threads without a configured adapter.
func (t *Thread) Snapshot(ctx context.Context) error {
	if !t.persistent {
		return nil
	}
	return t.history.Sync(ctx, t.id)
}

// restore loads a previously snapshotted history. Missing snapshots
// are not an error; a fresh thread simply starts empty.
func (t *Thread) restore(ctx context.Context) error {
	if !t.persistent {
		return nil
	}
	if err := t.history.Reload(ctx, t.id); err != nil && !errors.Is(err, store.ErrKeyNotFound) {
		return err
	}
	return nil
}

// SetPendingInput stores a submitted input for the next stream to
// consume, replacing any input not yet consumed.
func (t *Thread) SetPendingInput(kind InputKind, text string) {
	t.mu.Lock()
	t.input = &PendingInput{Kind: kind, Text: text}
	t.lastActive = time.Now()
	t.mu.Unlock()
}

// TakePendingInput removes and returns the stored input, if any.
func (t *Thread) TakePendingInput() (PendingInput, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.input == nil {
		return PendingInput{}, false
	}
	in := *t.input
	t.input = nil
	return in, true
}

// Propose parks a destructive invocation behind the confirmation gate,
// moving the thread from idle to awaiting confirmation. It fails with a
// confirmation conflict when the thread is not idle, so a second
// destructive proposal cannot pile up behind the first.
func (t *Thread) Propose(inv pal.Invocation) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateIdle {
		return &pal.ConfirmationConflictError{ThreadID: t.id, Tool: inv.Tool}
	}
	inv.Status = pal.InvocationProposed
	t.pending = []pal.Invocation{inv}
	t.state = StateAwaitingConfirmation
	t.lastActive = time.Now()
	return nil
}

// PendingActions returns a copy of the parked invocations. Non-empty
// exactly when the thread is awaiting confirmation.
func (t *Thread) PendingActions() []pal.Invocation {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]pal.Invocation, len(t.pending))
	copy(out, t.pending)
	return out
}

// TakeConfirmed moves the thread from awaiting confirmation to
// executing and returns the parked invocations, now confirmed. The
// pending set is cleared in the same step so it is never non-empty
// outside the awaiting state.
func (t *Thread) TakeConfirmed() ([]pal.Invocation, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateAwaitingConfirmation {
		return nil, &ErrNoPendingConfirmation{ThreadID: t.id}
	}
	confirmed := t.pending
	for i := range confirmed {
		confirmed[i].Status = pal.InvocationConfirmed
	}
	t.pending = nil
	t.state = StateExecuting
	t.lastActive = time.Now()
	return confirmed, nil
}

// FinishExecuting returns the thread to idle after confirmed actions
// have run.
func (t *Thread) FinishExecuting() {
	t.mu.Lock()
	if t.state == StateExecuting {
		t.state = StateIdle
	}
	t.lastActive = time.Now()
	t.mu.Unlock()
}

// Cancel discards the parked invocations and returns the thread to
// idle. When nothing is awaiting confirmation it reports ok=false and
// changes nothing; cancelling from idle is a no-op, not an error.
func (t *Thread) Cancel() (cancelled []pal.Invocation, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateAwaitingConfirmation {
		return nil, false
	}
	cancelled = t.pending
	for i := range cancelled {
		cancelled[i].Status = pal.InvocationCancelled
	}
	t.pending = nil
	t.state = StateIdle
	t.lastActive = time.Now()
	return cancelled, true
}

// ConfirmationSummary renders the user-facing description of the
// parked actions.
func (t *Thread) ConfirmationSummary() string {
	t.mu.Lock()
	pending := make([]pal.Invocation, len(t.pending))
	copy(pending, t.pending)
	t.mu.Unlock()

	if len(pending) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("**Confirmation Required**\n\n")
	b.WriteString("The following actions will modify or delete data:\n")
	for _, inv := range pending {
		b.WriteString("- ")
		b.WriteString(describeInvocation(inv))
		b.WriteString("\n")
	}
	b.WriteString("\nReply **yes** to confirm or **no** to cancel.")
	return b.String()
}

func describeInvocation(inv pal.Invocation) string {
	switch inv.Tool {
	case "delete_calendar_event":
		return fmt.Sprintf("Delete calendar event (ID: %v)", inv.Args["event_id"])
	case "delete_task":
		return fmt.Sprintf("Delete task (ID: %v)", inv.Args["task_id"])
	default:
		return fmt.Sprintf("Run %s", inv.Tool)
	}
}
