package store

import (
	"context"
	"encoding/json"
	"sync"

	pal "github.com/agenticpal/pal"
)

// MessageStore manages one thread's conversation history.
type MessageStore struct {
	mu       sync.RWMutex
	messages []pal.Message
	adapter  Adapter
}

// NewMessageStore creates a MessageStore with the given adapter.
// If adapter is nil, a default in-memory adapter is used.
func NewMessageStore(adapter Adapter) *MessageStore {
	if adapter == nil {
		adapter = NewMemoryAdapter()
	}
	return &MessageStore{
		messages: make([]pal.Message, 0),
		adapter:  adapter,
	}
}

// Messages returns a copy of all messages.
func (m *MessageStore) Messages() []pal.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]pal.Message, len(m.messages))
	copy(result, m.messages)
	return result
}

// Append adds messages to the store.
func (m *MessageStore) Append(msgs ...pal.Message) {
	if len(msgs) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msgs...)
}

// Len returns the number of messages.
func (m *MessageStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages)
}

// Clear removes all messages.
func (m *MessageStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = make([]pal.Message, 0)
}

// Window returns the last n messages, or all of them when n <= 0 or
// n exceeds the stored count. This is the slice handed to the model.
func (m *MessageStore) Window(n int) []pal.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	start := 0
	if n > 0 && len(m.messages) > n {
		start = len(m.messages) - n
	}
	result := make([]pal.Message, len(m.messages)-start)
	copy(result, m.messages[start:])
	return result
}

// Sync persists the messages to the adapter under the given key.
func (m *MessageStore) Sync(ctx context.Context, key string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw, err := json.Marshal(m.messages)
	if err != nil {
		return &SerializationError{Key: key, Err: err}
	}
	return m.adapter.Set(ctx, key, raw)
}

// Reload loads messages from the adapter using the given key.
func (m *MessageStore) Reload(ctx context.Context, key string) error {
	raw, ok, err := m.adapter.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrKeyNotFound
	}

	var messages []pal.Message
	if err := json.Unmarshal(raw, &messages); err != nil {
		return &SerializationError{Key: key, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = messages
	return nil
}

// Adapter returns the underlying adapter.
func (m *MessageStore) Adapter() Adapter {
	return m.adapter
}
