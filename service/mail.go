package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MailMessage is one message in the in-memory mailbox.
type MailMessage struct {
	ID       string    `json:"id"`
	From     string    `json:"from"`
	Subject  string    `json:"subject"`
	Snippet  string    `json:"snippet,omitempty"`
	Body     string    `json:"body,omitempty"`
	Unread   bool      `json:"unread"`
	Received time.Time `json:"received"`
}

// header is the listing projection of a message: everything but the body.
func (m MailMessage) header() map[string]any {
	return map[string]any{
		"id":       m.ID,
		"from":     m.From,
		"subject":  m.Subject,
		"snippet":  m.Snippet,
		"unread":   m.Unread,
		"received": m.Received,
	}
}

// Mail is an in-memory, read-only mailbox connector.
// Safe for concurrent use.
type Mail struct {
	mu       sync.RWMutex
	messages map[string]MailMessage
	order    []string
}

// NewMail creates an empty in-memory mailbox.
func NewMail() *Mail {
	return &Mail{messages: make(map[string]MailMessage)}
}

// Seed inserts messages directly, generating IDs where missing.
func (m *Mail) Seed(messages ...MailMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range messages {
		if msg.ID == "" {
			msg.ID = "mail-" + uuid.New().String()
		}
		if _, exists := m.messages[msg.ID]; !exists {
			m.order = append(m.order, msg.ID)
		}
		m.messages[msg.ID] = msg
	}
}

// matches applies a minimal subset of mail search syntax: "from:",
// "subject:", "is:unread" terms, and free text against the subject and
// snippet. Empty queries match everything.
func (m MailMessage) matches(query string) bool {
	for _, term := range strings.Fields(strings.ToLower(query)) {
		switch {
		case strings.HasPrefix(term, "from:"):
			if !strings.Contains(strings.ToLower(m.From), strings.TrimPrefix(term, "from:")) {
				return false
			}
		case strings.HasPrefix(term, "subject:"):
			if !strings.Contains(strings.ToLower(m.Subject), strings.TrimPrefix(term, "subject:")) {
				return false
			}
		case term == "is:unread":
			if !m.Unread {
				return false
			}
		default:
			text := strings.ToLower(m.Subject + " " + m.Snippet)
			if !strings.Contains(text, term) {
				return false
			}
		}
	}
	return true
}

func (m *Mail) list(query string, max int, unreadOnly bool) []map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []map[string]any
	for _, id := range m.order {
		msg := m.messages[id]
		if unreadOnly && !msg.Unread {
			continue
		}
		if !msg.matches(query) {
			continue
		}
		out = append(out, msg.header())
		if len(out) >= max {
			break
		}
	}
	return out
}

// ReadEmails lists recent messages matching an optional query.
func (m *Mail) ReadEmails(_ context.Context, args map[string]any) (any, error) {
	query := stringArg(args, "query")
	max := intArg(args, "max_results", 10)
	headers := m.list(query, max, false)
	return map[string]any{"messages": headers, "count": len(headers)}, nil
}

// GetEmailDetails returns the full message including the body and marks
// it read.
func (m *Mail) GetEmailDetails(_ context.Context, args map[string]any) (any, error) {
	id := stringArg(args, "message_id")

	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[id]
	if !ok {
		return nil, NotFound("mail.get", "message "+id)
	}
	msg.Unread = false
	m.messages[id] = msg
	return msg, nil
}

// SearchEmails searches messages with mail search syntax.
func (m *Mail) SearchEmails(_ context.Context, args map[string]any) (any, error) {
	query := stringArg(args, "query")
	max := intArg(args, "max_results", 10)
	headers := m.list(query, max, false)
	return map[string]any{"messages": headers, "count": len(headers)}, nil
}

// ListUnreadEmails lists unread messages.
func (m *Mail) ListUnreadEmails(_ context.Context, args map[string]any) (any, error) {
	max := intArg(args, "max_results", 10)
	headers := m.list("", max, true)
	return map[string]any{"messages": headers, "count": len(headers)}, nil
}

// SummarizeWeeklyEmails aggregates recent messages: total volume, top
// senders, and sample subjects.
func (m *Mail) SummarizeWeeklyEmails(_ context.Context, args map[string]any) (any, error) {
	days := intArg(args, "days", 7)
	max := intArg(args, "max_results", 20)
	cutoff := time.Now().AddDate(0, 0, -days)

	m.mu.RLock()
	defer m.mu.RUnlock()

	senders := make(map[string]int)
	var subjects []string
	total := 0
	for _, id := range m.order {
		msg := m.messages[id]
		if msg.Received.Before(cutoff) {
			continue
		}
		total++
		senders[msg.From]++
		if len(subjects) < max {
			subjects = append(subjects, msg.Subject)
		}
	}

	type senderCount struct {
		Sender string `json:"sender"`
		Count  int    `json:"count"`
	}
	top := make([]senderCount, 0, len(senders))
	for s, n := range senders {
		top = append(top, senderCount{Sender: s, Count: n})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Sender < top[j].Sender
	})
	if len(top) > 5 {
		top = top[:5]
	}

	return map[string]any{
		"period":          fmt.Sprintf("last %d days", days),
		"total_messages":  total,
		"top_senders":     top,
		"sample_subjects": subjects,
	}, nil
}

// Len returns the number of stored messages.
func (m *Mail) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages)
}
