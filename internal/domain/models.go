package domain

import "time"

// Category groups related notifications so they can be cancelled selectively.
type Category string

const (
	CategoryDailyReminder Category = "daily_reminder"
	CategoryLeadReminder  Category = "lead_reminder"
	CategoryImmediate     Category = "immediate"
)

// TriggerKind describes when a scheduled notification fires.
type TriggerKind string

const (
	TriggerRecurringDaily TriggerKind = "recurring_daily"
	TriggerAbsolute       TriggerKind = "absolute"
	TriggerImmediate      TriggerKind = "immediate"
)

// NotificationPayload is the opaque content handed to the external
// notification store. Data always carries the category tag and the owning
// user; lead reminders additionally carry the lead ID and target screen.
type NotificationPayload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// Payload data keys understood by the engine.
const (
	PayloadKeyCategory = "category"
	PayloadKeyUserID   = "user_id"
	PayloadKeyScreen   = "screen"
	PayloadKeyLeadID   = "lead_id"
)

// Category returns the category tag embedded in the payload, if any.
func (p NotificationPayload) Category() Category {
	return Category(p.Data[PayloadKeyCategory])
}

// UserID returns the owning user embedded in the payload, if any.
func (p NotificationPayload) UserID() string {
	return p.Data[PayloadKeyUserID]
}

// ScheduledNotificationRequest is the transient request handed to the
// external notification store. Only the resulting store ID is persisted.
type ScheduledNotificationRequest struct {
	Category Category            `json:"category"`
	Trigger  TriggerKind         `json:"trigger"`
	Hour     int                 `json:"hour,omitempty"`   // recurring_daily
	Minute   int                 `json:"minute,omitempty"` // recurring_daily
	FireAt   time.Time           `json:"fire_at,omitempty"`
	Payload  NotificationPayload `json:"payload"`
}

// PendingNotification is a notification currently held by the external store.
type PendingNotification struct {
	ID      string              `json:"id"`
	Payload NotificationPayload `json:"payload"`
}
