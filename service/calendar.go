package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// CalendarEvent is one scheduled entry in the in-memory calendar.
type CalendarEvent struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Start       string   `json:"start"`
	End         string   `json:"end,omitempty"`
	Description string   `json:"description,omitempty"`
	Attendees   []string `json:"attendees,omitempty"`
	Timezone    string   `json:"timezone,omitempty"`
}

// Calendar is an in-memory calendar connector.
// Safe for concurrent use.
type Calendar struct {
	mu     sync.RWMutex
	events map[string]CalendarEvent
	order  []string
}

// NewCalendar creates an empty in-memory calendar.
func NewCalendar() *Calendar {
	return &Calendar{events: make(map[string]CalendarEvent)}
}

// Seed inserts events directly, generating IDs where missing.
// Intended for tests and demo setups.
func (c *Calendar) Seed(events ...CalendarEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ev := range events {
		if ev.ID == "" {
			ev.ID = "evt-" + uuid.New().String()
		}
		if _, exists := c.events[ev.ID]; !exists {
			c.order = append(c.order, ev.ID)
		}
		c.events[ev.ID] = ev
	}
}

// AddEvent creates a new event from validated tool arguments.
func (c *Calendar) AddEvent(_ context.Context, args map[string]any) (any, error) {
	ev := CalendarEvent{
		ID:          "evt-" + uuid.New().String(),
		Title:       stringArg(args, "title"),
		Start:       stringArg(args, "start_time"),
		End:         stringArg(args, "end_time"),
		Description: stringArg(args, "description"),
		Attendees:   stringsArg(args, "attendees"),
		Timezone:    stringArg(args, "timezone"),
	}
	if ev.Timezone == "" {
		ev.Timezone = "UTC"
	}

	c.mu.Lock()
	c.events[ev.ID] = ev
	c.order = append(c.order, ev.ID)
	c.mu.Unlock()

	return ev, nil
}

// DeleteEvent removes an event by ID.
func (c *Calendar) DeleteEvent(_ context.Context, args map[string]any) (any, error) {
	id := stringArg(args, "event_id")

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.events[id]; !ok {
		return nil, NotFound("calendar.delete", "event "+id)
	}
	delete(c.events, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return map[string]any{"deleted": true, "event_id": id}, nil
}

// SearchEvents finds events whose title contains the query.
func (c *Calendar) SearchEvents(_ context.Context, args map[string]any) (any, error) {
	query := strings.ToLower(stringArg(args, "query"))
	max := intArg(args, "max_results", 5)

	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []CalendarEvent
	for _, id := range c.order {
		ev := c.events[id]
		if strings.Contains(strings.ToLower(ev.Title), query) {
			out = append(out, ev)
			if len(out) >= max {
				break
			}
		}
	}
	return map[string]any{"events": out, "count": len(out)}, nil
}

// ListEvents returns events in insertion order, optionally bounded by a
// lexical time range over the stored start strings.
func (c *Calendar) ListEvents(_ context.Context, args map[string]any) (any, error) {
	max := intArg(args, "max_results", 20)
	timeMin := stringArg(args, "time_min")
	timeMax := stringArg(args, "time_max")

	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []CalendarEvent
	for _, id := range c.order {
		ev := c.events[id]
		if timeMin != "" && ev.Start < timeMin {
			continue
		}
		if timeMax != "" && ev.Start > timeMax {
			continue
		}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	if len(out) > max {
		out = out[:max]
	}
	return map[string]any{"events": out, "count": len(out)}, nil
}

// UpdateEvent modifies the provided fields of an existing event.
func (c *Calendar) UpdateEvent(_ context.Context, args map[string]any) (any, error) {
	id := stringArg(args, "event_id")

	c.mu.Lock()
	defer c.mu.Unlock()
	ev, ok := c.events[id]
	if !ok {
		return nil, NotFound("calendar.update", "event "+id)
	}
	if v, ok := args["title"]; ok {
		ev.Title = v.(string)
	}
	if v, ok := args["start_time"]; ok {
		ev.Start = v.(string)
	}
	if v, ok := args["end_time"]; ok {
		ev.End = v.(string)
	}
	if v, ok := args["description"]; ok {
		ev.Description = v.(string)
	}
	c.events[id] = ev
	return ev, nil
}

// Len returns the number of stored events.
func (c *Calendar) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.events)
}
