package domain

import "fmt"

// NotificationPreferences is the singleton per-user notification settings
// blob. Quiet hours are active only when both bounds are set; the window may
// wrap past midnight (e.g. 22:00-07:00).
type NotificationPreferences struct {
	Enabled           bool       `json:"enabled"`
	DailyReminder     bool       `json:"daily_reminder"`
	DailyReminderTime TimeOfDay  `json:"daily_reminder_time"`
	LeadReminders     bool       `json:"lead_reminders"`
	QuietHoursStart   *TimeOfDay `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd     *TimeOfDay `json:"quiet_hours_end,omitempty"`
}

// DefaultPreferences returns the hard-coded defaults used on first load and
// whenever persisted data is missing or unreadable.
func DefaultPreferences() NotificationPreferences {
	return NotificationPreferences{
		Enabled:           true,
		DailyReminder:     true,
		DailyReminderTime: TimeOfDay{Hour: 9, Minute: 0},
		LeadReminders:     true,
	}
}

// PreferencesPatch is a partial update; nil fields are left unchanged.
// Quiet-hours bounds travel together: setting one without the other is
// rejected, as is an equal-bound window (its meaning is ambiguous, so it is
// refused rather than guessed at).
type PreferencesPatch struct {
	Enabled           *bool      `json:"enabled,omitempty"`
	DailyReminder     *bool      `json:"daily_reminder,omitempty"`
	DailyReminderTime *TimeOfDay `json:"daily_reminder_time,omitempty"`
	LeadReminders     *bool      `json:"lead_reminders,omitempty"`
	QuietHoursStart   *TimeOfDay `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd     *TimeOfDay `json:"quiet_hours_end,omitempty"`
	ClearQuietHours   bool       `json:"clear_quiet_hours,omitempty"`
}

// Validate checks the patch's internal consistency.
func (p PreferencesPatch) Validate() error {
	if p.ClearQuietHours && (p.QuietHoursStart != nil || p.QuietHoursEnd != nil) {
		return fmt.Errorf("clear_quiet_hours cannot be combined with quiet-hours bounds")
	}
	if (p.QuietHoursStart == nil) != (p.QuietHoursEnd == nil) {
		return fmt.Errorf("quiet_hours_start and quiet_hours_end must be set together")
	}
	if p.QuietHoursStart != nil && p.QuietHoursStart.Compare(*p.QuietHoursEnd) == 0 {
		return fmt.Errorf("quiet hours window must not have equal bounds")
	}
	return nil
}

// Apply merges the patch into prefs and returns the result.
func (p PreferencesPatch) Apply(prefs NotificationPreferences) NotificationPreferences {
	if p.Enabled != nil {
		prefs.Enabled = *p.Enabled
	}
	if p.DailyReminder != nil {
		prefs.DailyReminder = *p.DailyReminder
	}
	if p.DailyReminderTime != nil {
		prefs.DailyReminderTime = *p.DailyReminderTime
	}
	if p.LeadReminders != nil {
		prefs.LeadReminders = *p.LeadReminders
	}
	if p.ClearQuietHours {
		prefs.QuietHoursStart = nil
		prefs.QuietHoursEnd = nil
	}
	if p.QuietHoursStart != nil && p.QuietHoursEnd != nil {
		start, end := *p.QuietHoursStart, *p.QuietHoursEnd
		prefs.QuietHoursStart = &start
		prefs.QuietHoursEnd = &end
	}
	return prefs
}
