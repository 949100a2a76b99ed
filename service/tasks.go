package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// DefaultTaskList is the list used when a call omits the tasklist argument.
const DefaultTaskList = "@default"

// Task is one todo item in the in-memory task service.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Notes     string `json:"notes,omitempty"`
	Due       string `json:"due,omitempty"`
	Completed bool   `json:"completed"`
}

// Tasks is an in-memory task-list connector.
// Safe for concurrent use.
type Tasks struct {
	mu    sync.RWMutex
	lists map[string]string // list id -> title
	tasks map[string][]Task // list id -> tasks in creation order
}

// NewTasks creates a task connector with the default list.
func NewTasks() *Tasks {
	return &Tasks{
		lists: map[string]string{DefaultTaskList: "My Tasks"},
		tasks: map[string][]Task{DefaultTaskList: nil},
	}
}

// AddList creates an additional task list and returns its ID.
func (t *Tasks) AddList(title string) string {
	id := "list-" + uuid.New().String()
	t.mu.Lock()
	t.lists[id] = title
	t.tasks[id] = nil
	t.mu.Unlock()
	return id
}

func (t *Tasks) listID(args map[string]any) string {
	if id := stringArg(args, "tasklist"); id != "" {
		return id
	}
	return DefaultTaskList
}

// CreateTask adds a task to a list.
func (t *Tasks) CreateTask(_ context.Context, args map[string]any) (any, error) {
	list := t.listID(args)
	task := Task{
		ID:    "task-" + uuid.New().String(),
		Title: stringArg(args, "title"),
		Notes: stringArg(args, "notes"),
		Due:   stringArg(args, "due"),
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.lists[list]; !ok {
		return nil, NotFound("tasks.create", "task list "+list)
	}
	t.tasks[list] = append(t.tasks[list], task)
	return task, nil
}

// ListTasks returns tasks from a list, excluding completed ones unless
// show_completed is set.
func (t *Tasks) ListTasks(_ context.Context, args map[string]any) (any, error) {
	list := t.listID(args)
	showCompleted := boolArg(args, "show_completed", false)
	max := intArg(args, "max_results", 20)

	t.mu.RLock()
	defer t.mu.RUnlock()
	if _, ok := t.lists[list]; !ok {
		return nil, NotFound("tasks.list", "task list "+list)
	}
	var out []Task
	for _, task := range t.tasks[list] {
		if task.Completed && !showCompleted {
			continue
		}
		out = append(out, task)
		if len(out) >= max {
			break
		}
	}
	return map[string]any{"tasks": out, "count": len(out)}, nil
}

// setCompleted flips a task's completion state.
func (t *Tasks) setCompleted(op string, args map[string]any, completed bool) (any, error) {
	list := t.listID(args)
	id := stringArg(args, "task_id")

	t.mu.Lock()
	defer t.mu.Unlock()
	tasks, ok := t.tasks[list]
	if !ok {
		return nil, NotFound(op, "task list "+list)
	}
	for i, task := range tasks {
		if task.ID == id {
			tasks[i].Completed = completed
			return tasks[i], nil
		}
	}
	return nil, NotFound(op, "task "+id)
}

// MarkTaskComplete marks a task done.
func (t *Tasks) MarkTaskComplete(_ context.Context, args map[string]any) (any, error) {
	return t.setCompleted("tasks.complete", args, true)
}

// MarkTaskIncomplete reopens a completed task.
func (t *Tasks) MarkTaskIncomplete(_ context.Context, args map[string]any) (any, error) {
	return t.setCompleted("tasks.incomplete", args, false)
}

// DeleteTask removes a task from a list.
func (t *Tasks) DeleteTask(_ context.Context, args map[string]any) (any, error) {
	list := t.listID(args)
	id := stringArg(args, "task_id")

	t.mu.Lock()
	defer t.mu.Unlock()
	tasks, ok := t.tasks[list]
	if !ok {
		return nil, NotFound("tasks.delete", "task list "+list)
	}
	for i, task := range tasks {
		if task.ID == id {
			t.tasks[list] = append(tasks[:i], tasks[i+1:]...)
			return map[string]any{"deleted": true, "task_id": id}, nil
		}
	}
	return nil, NotFound("tasks.delete", "task "+id)
}

// UpdateTask modifies the provided fields of a task.
func (t *Tasks) UpdateTask(_ context.Context, args map[string]any) (any, error) {
	list := t.listID(args)
	id := stringArg(args, "task_id")

	t.mu.Lock()
	defer t.mu.Unlock()
	tasks, ok := t.tasks[list]
	if !ok {
		return nil, NotFound("tasks.update", "task list "+list)
	}
	for i, task := range tasks {
		if task.ID != id {
			continue
		}
		if v, ok := args["title"]; ok {
			tasks[i].Title = v.(string)
		}
		if v, ok := args["due"]; ok {
			tasks[i].Due = v.(string)
		}
		if v, ok := args["notes"]; ok {
			tasks[i].Notes = v.(string)
		}
		return tasks[i], nil
	}
	return nil, NotFound("tasks.update", "task "+id)
}

// GetTaskLists returns all available task lists.
func (t *Tasks) GetTaskLists(_ context.Context, _ map[string]any) (any, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	type listInfo struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	out := make([]listInfo, 0, len(t.lists))
	// Default list first, then the rest.
	out = append(out, listInfo{ID: DefaultTaskList, Title: t.lists[DefaultTaskList]})
	for id, title := range t.lists {
		if id != DefaultTaskList {
			out = append(out, listInfo{ID: id, Title: title})
		}
	}
	return map[string]any{"task_lists": out, "count": len(out)}, nil
}
