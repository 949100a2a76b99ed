package catalog

import "github.com/agenticpal/pal/schema"

// Default returns the fixed productivity-assistant registration table:
// seventeen tools across the calendar, mail, and tasks categories. The
// table is checked for duplicate names at build time; destructive flags
// mark the tools whose effects are not trivially reversible.
func Default() *Catalog {
	return MustNew(
		// ── calendar ──────────────────────────────────────────────
		Definition{
			Name:        "add_calendar_event",
			Category:    CategoryCalendar,
			Actions:     []Action{ActionCreate},
			Summary:     "Create a new calendar event with title, time, and optional attendees",
			Description: "Add a new event to the user's calendar. Use this when the user wants to schedule a meeting, appointment, or any calendar event.",
			Parameters: schema.Object().
				Field("title", schema.String().Desc("The title/summary of the event").Required()).
				Field("start_time", schema.String().Desc("Start date/time (e.g., 'tomorrow at 2pm', '2026-01-21T14:00:00')").Required()).
				Field("end_time", schema.String().Desc("End date/time. If not provided, defaults to 1 hour after start")).
				Field("duration", schema.String().Desc("Duration of the event (e.g., '1 hour', '30 minutes'). Used if end_time not provided")).
				Field("description", schema.String().Desc("Event description or notes")).
				Field("attendees", schema.Array(schema.String()).Desc("List of attendee email addresses")).
				Field("timezone", schema.String().Desc("Timezone for the event (e.g., 'America/New_York', 'UTC')").Default("UTC")).
				MustBuild(),
		},
		Definition{
			Name:        "delete_calendar_event",
			Category:    CategoryCalendar,
			Actions:     []Action{ActionDelete},
			Destructive: true,
			Summary:     "Delete a calendar event by its ID",
			Description: "Delete an event from the user's calendar by its event ID. Always confirm with the user before deleting.",
			Parameters: schema.Object().
				Field("event_id", schema.String().Desc("The unique ID of the event to delete").Required()).
				MustBuild(),
		},
		Definition{
			Name:        "search_calendar_events",
			Category:    CategoryCalendar,
			Actions:     []Action{ActionSearch, ActionRead},
			Summary:     "Search for events by title keyword",
			Description: "Search for calendar events by title/keyword. Use this to find specific events before updating or deleting them.",
			Parameters: schema.Object().
				Field("query", schema.String().Desc("Search term to find in event titles").Required()).
				Field("max_results", schema.Integer().Desc("Maximum number of events to return").Default(5)).
				MustBuild(),
		},
		Definition{
			Name:        "list_calendar_events",
			Category:    CategoryCalendar,
			Actions:     []Action{ActionList, ActionRead},
			Summary:     "List upcoming calendar events in a time range",
			Description: "List upcoming calendar events within a time range. Use this to show the user their schedule.",
			Parameters: schema.Object().
				Field("max_results", schema.Integer().Desc("Maximum number of events to return").Default(20)).
				Field("time_min", schema.String().Desc("Start of time range (e.g., 'today', '2026-01-21')")).
				Field("time_max", schema.String().Desc("End of time range (e.g., 'next week', '2026-01-28')")).
				MustBuild(),
		},
		Definition{
			Name:        "update_calendar_event",
			Category:    CategoryCalendar,
			Actions:     []Action{ActionUpdate},
			Summary:     "Update an existing calendar event's details",
			Description: "Update an existing calendar event. Can modify title, times, or description.",
			Parameters: schema.Object().
				Field("event_id", schema.String().Desc("The unique ID of the event to update").Required()).
				Field("title", schema.String().Desc("New event title")).
				Field("start_time", schema.String().Desc("New start date/time")).
				Field("end_time", schema.String().Desc("New end date/time")).
				Field("description", schema.String().Desc("New event description")).
				MustBuild(),
		},

		// ── tasks ─────────────────────────────────────────────────
		Definition{
			Name:        "create_task",
			Category:    CategoryTasks,
			Actions:     []Action{ActionCreate},
			Summary:     "Create a new task/todo item with optional due date",
			Description: "Create a new task in the user's task list. Use this when the user wants to add a todo item or reminder.",
			Parameters: schema.Object().
				Field("title", schema.String().Desc("The title of the task").Required()).
				Field("due", schema.String().Desc("Due date (e.g., 'tomorrow', '2026-01-25', 'next Friday')")).
				Field("notes", schema.String().Desc("Additional notes for the task")).
				Field("tasklist", schema.String().Desc("Task list ID. If not provided, uses default list")).
				MustBuild(),
		},
		Definition{
			Name:        "list_tasks",
			Category:    CategoryTasks,
			Actions:     []Action{ActionList, ActionRead},
			Summary:     "List tasks from a task list",
			Description: "List tasks from the user's task lists. Shows incomplete tasks by default.",
			Parameters: schema.Object().
				Field("tasklist", schema.String().Desc("Task list ID. If not provided, uses default list")).
				Field("show_completed", schema.Bool().Desc("Include completed tasks in results")).
				Field("max_results", schema.Integer().Desc("Maximum number of tasks to return").Default(20)).
				MustBuild(),
		},
		Definition{
			Name:        "mark_task_complete",
			Category:    CategoryTasks,
			Actions:     []Action{ActionUpdate},
			Summary:     "Mark a task as completed/done",
			Description: "Mark a task as completed. Use this when the user says they finished a task.",
			Parameters: schema.Object().
				Field("task_id", schema.String().Desc("The unique ID of the task to mark complete").Required()).
				Field("tasklist", schema.String().Desc("Task list ID. If not provided, uses default list")).
				MustBuild(),
		},
		Definition{
			Name:        "mark_task_incomplete",
			Category:    CategoryTasks,
			Actions:     []Action{ActionUpdate},
			Summary:     "Mark a task as incomplete/not done",
			Description: "Mark a task as incomplete/not done. Use this to reopen a completed task.",
			Parameters: schema.Object().
				Field("task_id", schema.String().Desc("The unique ID of the task to mark incomplete").Required()).
				Field("tasklist", schema.String().Desc("Task list ID. If not provided, uses default list")).
				MustBuild(),
		},
		Definition{
			Name:        "delete_task",
			Category:    CategoryTasks,
			Actions:     []Action{ActionDelete},
			Destructive: true,
			Summary:     "Delete a task by its ID",
			Description: "Delete a task from the user's task list. Always confirm with the user before deleting.",
			Parameters: schema.Object().
				Field("task_id", schema.String().Desc("The unique ID of the task to delete").Required()).
				Field("tasklist", schema.String().Desc("Task list ID. If not provided, uses default list")).
				MustBuild(),
		},
		Definition{
			Name:        "update_task",
			Category:    CategoryTasks,
			Actions:     []Action{ActionUpdate},
			Summary:     "Update a task's title, due date, or notes",
			Description: "Update an existing task. Can modify title, due date, or notes.",
			Parameters: schema.Object().
				Field("task_id", schema.String().Desc("The unique ID of the task to update").Required()).
				Field("tasklist", schema.String().Desc("Task list ID. If not provided, uses default list")).
				Field("title", schema.String().Desc("New task title")).
				Field("due", schema.String().Desc("New due date")).
				Field("notes", schema.String().Desc("New notes")).
				MustBuild(),
		},
		Definition{
			Name:        "get_task_lists",
			Category:    CategoryTasks,
			Actions:     []Action{ActionList, ActionRead},
			Summary:     "Get all available task lists",
			Description: "Get all available task lists. Use this to find task list IDs.",
			Parameters:  schema.Object().MustBuild(),
		},

		// ── mail ──────────────────────────────────────────────────
		Definition{
			Name:        "read_emails",
			Category:    CategoryMail,
			Actions:     []Action{ActionList, ActionRead},
			Summary:     "Read/list recent emails with optional filters",
			Description: "Read/list recent emails. Can filter by sender, label, or search query.",
			Parameters: schema.Object().
				Field("query", schema.String().Desc("Mail search query (e.g., 'from:sender@example.com', 'is:unread', 'subject:meeting')")).
				Field("max_results", schema.Integer().Desc("Maximum number of emails to return").Default(10)).
				MustBuild(),
		},
		Definition{
			Name:        "get_email_details",
			Category:    CategoryMail,
			Actions:     []Action{ActionRead},
			Summary:     "Get full details of a specific email including body",
			Description: "Get full details of a specific email including the body content.",
			Parameters: schema.Object().
				Field("message_id", schema.String().Desc("The unique ID of the email message").Required()).
				MustBuild(),
		},
		Definition{
			Name:        "summarize_weekly_emails",
			Category:    CategoryMail,
			Actions:     []Action{ActionRead},
			Summary:     "Get a summary of emails from the past week",
			Description: "Get a summary of emails from the past week (or specified days). Shows top senders and sample subjects.",
			Parameters: schema.Object().
				Field("days", schema.Integer().Desc("Number of days to look back").Default(7)).
				Field("max_results", schema.Integer().Desc("Maximum number of emails to include in summary").Default(20)).
				MustBuild(),
		},
		Definition{
			Name:        "search_emails",
			Category:    CategoryMail,
			Actions:     []Action{ActionSearch, ActionRead},
			Summary:     "Search emails using mail search syntax",
			Description: "Search emails using mail search syntax (e.g., 'subject:meeting', 'from:boss@company.com').",
			Parameters: schema.Object().
				Field("query", schema.String().Desc("Mail search query (e.g., 'subject:project', 'from:boss@company.com')").Required()).
				Field("max_results", schema.Integer().Desc("Maximum number of emails to return").Default(10)).
				MustBuild(),
		},
		Definition{
			Name:        "list_unread_emails",
			Category:    CategoryMail,
			Actions:     []Action{ActionList, ActionRead},
			Summary:     "List unread emails from inbox",
			Description: "List unread emails from the inbox.",
			Parameters: schema.Object().
				Field("max_results", schema.Integer().Desc("Maximum number of unread emails to return").Default(10)).
				MustBuild(),
		},
	)
}
