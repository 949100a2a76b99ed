package thread

import (
	"context"
	"sync"
	"time"

	"github.com/agenticpal/pal/internal/store"
)

const (
	// DefaultTTL is how long an idle thread survives between sweeps.
	DefaultTTL = 30 * time.Minute

	// DefaultHistoryWindow is the number of trailing messages handed to
	// the model per step.
	DefaultHistoryWindow = 50
)

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithTTL sets the idle lifetime for threads. Zero disables sweeping.
func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) { m.ttl = ttl }
}

// WithHistoryWindow sets the per-thread context window size.
func WithHistoryWindow(n int) ManagerOption {
	return func(m *Manager) { m.window = n }
}

// WithAdapter sets the persistence backend for new threads' history.
func WithAdapter(a store.Adapter) ManagerOption {
	return func(m *Manager) { m.adapter = a }
}

// Manager owns the live threads, keyed by ID. Safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	threads map[string]*Thread
	ttl     time.Duration
	window  int
	adapter store.Adapter
}

// NewManager creates a thread manager with the given options.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		threads: make(map[string]*Thread),
		ttl:     DefaultTTL,
		window:  DefaultHistoryWindow,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetOrCreate returns the thread with the given ID, creating it if
// needed. An empty ID creates a thread under a fresh generated ID.
func (m *Manager) GetOrCreate(id string) *Thread {
	if id == "" {
		id = GenerateThreadID()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.threads[id]; ok {
		return t
	}
	t := newThread(id, m.window, m.adapter)
	// An unreadable snapshot starts the thread empty rather than
	// refusing the conversation.
	_ = t.restore(context.Background())
	m.threads[id] = t
	return t
}

// Get returns the thread with the given ID.
func (m *Manager) Get(id string) (*Thread, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.threads[id]
	return t, ok
}

// Remove drops a thread from the manager.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.threads, id)
	m.mu.Unlock()
}

// Len returns the number of live threads.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.threads)
}

// Sweep removes threads idle past the TTL and returns how many were
// dropped. Threads mid-run or awaiting confirmation are kept; the
// confirmation gate must expire by user action, not by timer.
func (m *Manager) Sweep(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	dropped := 0
	for id, t := range m.threads {
		t.mu.Lock()
		expired := !t.running &&
			t.state == StateIdle &&
			now.Sub(t.lastActive) > m.ttl
		t.mu.Unlock()
		if expired {
			delete(m.threads, id)
			dropped++
		}
	}
	return dropped
}
