package thread

import "fmt"

// ErrThreadNotFound indicates the requested thread does not exist.
type ErrThreadNotFound struct {
	ThreadID string
}

func (e *ErrThreadNotFound) Error() string {
	return fmt.Sprintf("thread %q not found", e.ThreadID)
}

// ErrRunInProgress indicates a run is already active on the thread.
// Threads process one run at a time.
type ErrRunInProgress struct {
	ThreadID string
}

func (e *ErrRunInProgress) Error() string {
	return fmt.Sprintf("thread %q already has a run in progress", e.ThreadID)
}

// ErrNoPendingConfirmation indicates a confirm or cancel arrived while
// the thread had nothing awaiting confirmation.
type ErrNoPendingConfirmation struct {
	ThreadID string
}

func (e *ErrNoPendingConfirmation) Error() string {
	return fmt.Sprintf("thread %q has no action awaiting confirmation", e.ThreadID)
}

// ErrNoPendingInput indicates a stream was opened for a thread with no
// submitted input to consume.
type ErrNoPendingInput struct {
	ThreadID string
}

func (e *ErrNoPendingInput) Error() string {
	return fmt.Sprintf("thread %q has no pending input; submit a message first", e.ThreadID)
}
