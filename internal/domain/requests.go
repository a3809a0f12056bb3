package domain

import "time"

// ScheduleDailyReminderRequest asks the engine to (re)create the recurring
// daily reminder. TargetCount is the number of open leads surfaced in the
// reminder body; zero or negative means there is nothing to remind about and
// any existing daily reminder is cancelled.
type ScheduleDailyReminderRequest struct {
	TargetCount int `json:"target_count"`
}

// ScheduleLeadReminderRequest asks for a one-off reminder an hour before a
// lead's follow-up is due.
type ScheduleLeadReminderRequest struct {
	LeadID   string    `json:"lead_id" binding:"required"`
	LeadName string    `json:"lead_name" binding:"required"`
	DueAt    time.Time `json:"due_at" binding:"required"`
}

// SendImmediateRequest fires a notification right away, bypassing the
// quiet-hours shift applied to passive reminders.
type SendImmediateRequest struct {
	Title string            `json:"title" binding:"required"`
	Body  string            `json:"body" binding:"required"`
	Data  map[string]string `json:"data,omitempty"`
}
