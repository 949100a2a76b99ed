package service

import "github.com/agenticpal/pal/catalog"

// BindAll attaches the in-memory connectors to every tool in the
// default catalog table. Returns the first binding error, which for the
// fixed table means a name mismatch between table and connector set.
func BindAll(reg *catalog.Registry, cal *Calendar, mail *Mail, tasks *Tasks) error {
	bindings := map[string]catalog.Handler{
		// calendar
		"add_calendar_event":     cal.AddEvent,
		"delete_calendar_event":  cal.DeleteEvent,
		"search_calendar_events": cal.SearchEvents,
		"list_calendar_events":   cal.ListEvents,
		"update_calendar_event":  cal.UpdateEvent,

		// tasks
		"create_task":          tasks.CreateTask,
		"list_tasks":           tasks.ListTasks,
		"mark_task_complete":   tasks.MarkTaskComplete,
		"mark_task_incomplete": tasks.MarkTaskIncomplete,
		"delete_task":          tasks.DeleteTask,
		"update_task":          tasks.UpdateTask,
		"get_task_lists":       tasks.GetTaskLists,

		// mail
		"read_emails":             mail.ReadEmails,
		"get_email_details":       mail.GetEmailDetails,
		"summarize_weekly_emails": mail.SummarizeWeeklyEmails,
		"search_emails":           mail.SearchEmails,
		"list_unread_emails":      mail.ListUnreadEmails,
	}

	for name, h := range bindings {
		if err := reg.Bind(name, h); err != nil {
			return err
		}
	}
	return nil
}

// MustBindAll is like BindAll but panics on error. Intended for startup
// wiring of the fixed table.
func MustBindAll(reg *catalog.Registry, cal *Calendar, mail *Mail, tasks *Tasks) {
	if err := BindAll(reg, cal, mail, tasks); err != nil {
		panic(err)
	}
}
