// Package scheduler orchestrates category-scoped reminder scheduling and
// cancellation on top of the external notification store. Store failures are
// logged and swallowed: reminders are a best-effort enhancement, never a
// fatal path.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vhvplatform/go-reminder-engine/internal/domain"
	"github.com/vhvplatform/go-reminder-engine/internal/metrics"
	"github.com/vhvplatform/go-reminder-engine/internal/notify"
	"github.com/vhvplatform/go-reminder-engine/internal/prefs"
	"github.com/vhvplatform/go-reminder-engine/internal/quiethours"
	"github.com/vhvplatform/go-reminder-engine/internal/registry"
	"github.com/vhvplatform/go-reminder-engine/internal/shared/logger"
)

// leadReminderLeadTime is how long before a lead's due time its reminder
// fires.
const leadReminderLeadTime = time.Hour

// Scheduler owns scheduling policy for one user.
type Scheduler struct {
	userID   string
	prefs    *prefs.Store
	registry *registry.Registry
	store    notify.Store
	log      *logger.Logger

	// Now is the clock; overridable in tests.
	Now func() time.Time

	mu    sync.Mutex
	catMu map[domain.Category]*sync.Mutex
}

// NewScheduler creates a scheduler for userID.
func NewScheduler(userID string, prefStore *prefs.Store, reg *registry.Registry, store notify.Store, log *logger.Logger) *Scheduler {
	return &Scheduler{
		userID:   userID,
		prefs:    prefStore,
		registry: reg,
		store:    store,
		log:      log,
		Now:      time.Now,
		catMu:    make(map[domain.Category]*sync.Mutex),
	}
}

// categoryLock serializes cancel-then-create sequences per category, so two
// concurrent calls for the same category cannot interleave into zero or two
// active entries.
func (s *Scheduler) categoryLock(category domain.Category) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.catMu[category]
	if !ok {
		lock = &sync.Mutex{}
		s.catMu[category] = lock
	}
	return lock
}

// ScheduleDailyReminder (re)creates the recurring daily reminder. Any
// existing daily entries are cancelled first, so repeated calls never
// accumulate duplicates. targetCount is the number of open leads surfaced in
// the body; zero or negative leaves nothing scheduled.
//
// The recurring trigger is not shifted for quiet hours: a fixed clock-time
// trigger has no single instant to move, so suppression for the daily
// reminder happens at delivery time in the gate instead.
func (s *Scheduler) ScheduleDailyReminder(ctx context.Context, targetCount int) error {
	lock := s.categoryLock(domain.CategoryDailyReminder)
	lock.Lock()
	defer lock.Unlock()

	p := s.prefs.Get()
	if !p.Enabled || !p.DailyReminder {
		s.cancelCategoryLocked(ctx, domain.CategoryDailyReminder)
		return nil
	}

	s.cancelCategoryLocked(ctx, domain.CategoryDailyReminder)

	if targetCount <= 0 {
		return nil
	}

	payload := domain.NotificationPayload{
		Title: "Time to follow up",
		Body:  fmt.Sprintf("You have %d leads waiting for a follow-up today.", targetCount),
		Data: map[string]string{
			domain.PayloadKeyCategory: string(domain.CategoryDailyReminder),
			domain.PayloadKeyUserID:   s.userID,
			domain.PayloadKeyScreen:   "leads",
		},
	}

	id, err := s.store.ScheduleRecurringDaily(ctx, p.DailyReminderTime.Hour, p.DailyReminderTime.Minute, payload)
	if err != nil {
		s.log.Error("Failed to schedule daily reminder", "error", err, "user_id", s.userID)
		metrics.StoreErrors.WithLabelValues("schedule_recurring").Inc()
		return nil
	}

	s.registry.Add(ctx, id)
	s.updateOwnedGauge()
	metrics.RemindersScheduled.WithLabelValues(string(domain.CategoryDailyReminder)).Inc()
	s.log.Info("Scheduled daily reminder", "id", id, "time", p.DailyReminderTime.String(), "user_id", s.userID)
	return nil
}

// ScheduleLeadReminder schedules a one-off reminder an hour before dueAt.
// Past-due reminders are dropped. A fire time whose clock portion lands
// inside the quiet-hours window is moved to the window's end on the same
// calendar day; the check uses only the time of day, an accepted
// approximation for due dates more than a day out.
func (s *Scheduler) ScheduleLeadReminder(ctx context.Context, leadName, leadID string, dueAt time.Time) error {
	p := s.prefs.Get()
	if !p.Enabled || !p.LeadReminders {
		return nil
	}

	fireAt := dueAt.Add(-leadReminderLeadTime)
	if fireAt.Before(s.Now()) {
		s.log.Info("Dropping past-due lead reminder", "lead_id", leadID, "due_at", dueAt, "user_id", s.userID)
		metrics.RemindersDropped.WithLabelValues(string(domain.CategoryLeadReminder), "past_due").Inc()
		return nil
	}

	if quiethours.InWindowPrefs(p, domain.TimeOfDayFromClock(fireAt)) {
		end := *p.QuietHoursEnd
		fireAt = time.Date(fireAt.Year(), fireAt.Month(), fireAt.Day(), end.Hour, end.Minute, 0, 0, fireAt.Location())
		metrics.QuietHoursShifts.Inc()
		s.log.Info("Shifted lead reminder out of quiet hours", "lead_id", leadID, "fire_at", fireAt, "user_id", s.userID)
	}

	payload := domain.NotificationPayload{
		Title: "Lead follow-up due soon",
		Body:  fmt.Sprintf("Your follow-up with %s is due in an hour.", leadName),
		Data: map[string]string{
			domain.PayloadKeyCategory: string(domain.CategoryLeadReminder),
			domain.PayloadKeyUserID:   s.userID,
			domain.PayloadKeyScreen:   "lead_detail",
			domain.PayloadKeyLeadID:   leadID,
		},
	}

	lock := s.categoryLock(domain.CategoryLeadReminder)
	lock.Lock()
	defer lock.Unlock()

	id, err := s.store.ScheduleAt(ctx, fireAt, payload)
	if err != nil {
		s.log.Error("Failed to schedule lead reminder", "error", err, "lead_id", leadID, "user_id", s.userID)
		metrics.StoreErrors.WithLabelValues("schedule_at").Inc()
		return nil
	}

	s.registry.Add(ctx, id)
	s.updateOwnedGauge()
	metrics.RemindersScheduled.WithLabelValues(string(domain.CategoryLeadReminder)).Inc()
	s.log.Info("Scheduled lead reminder", "id", id, "lead_id", leadID, "fire_at", fireAt, "user_id", s.userID)
	return nil
}

// SendImmediate fires a notification right away. Explicit sends bypass the
// quiet-hours shift; the delivery gate still has the final word on
// presentation.
func (s *Scheduler) SendImmediate(ctx context.Context, title, body string, data map[string]string) error {
	payload := domain.NotificationPayload{
		Title: title,
		Body:  body,
		Data: map[string]string{
			domain.PayloadKeyCategory: string(domain.CategoryImmediate),
			domain.PayloadKeyUserID:   s.userID,
		},
	}
	for k, v := range data {
		payload.Data[k] = v
	}

	id, err := s.store.ScheduleNow(ctx, payload)
	if err != nil {
		s.log.Error("Failed to send immediate notification", "error", err, "user_id", s.userID)
		metrics.StoreErrors.WithLabelValues("schedule_now").Inc()
		return nil
	}

	s.registry.Add(ctx, id)
	s.updateOwnedGauge()
	metrics.RemindersScheduled.WithLabelValues(string(domain.CategoryImmediate)).Inc()
	return nil
}

// CancelByCategory cancels every pending app-owned notification whose
// payload carries category. IDs the engine does not own are never touched,
// even when their category matches.
func (s *Scheduler) CancelByCategory(ctx context.Context, category domain.Category) error {
	lock := s.categoryLock(category)
	lock.Lock()
	defer lock.Unlock()

	s.cancelCategoryLocked(ctx, category)
	return nil
}

func (s *Scheduler) cancelCategoryLocked(ctx context.Context, category domain.Category) {
	pending, err := s.store.ListPending(ctx)
	if err != nil {
		s.log.Error("Failed to list pending notifications", "error", err, "user_id", s.userID)
		metrics.StoreErrors.WithLabelValues("list_pending").Inc()
		return
	}

	for _, p := range pending {
		if p.Payload.Category() != category || !s.registry.Contains(p.ID) {
			continue
		}
		if err := s.store.Cancel(ctx, p.ID); err != nil {
			s.log.Warn("Failed to cancel notification", "error", err, "id", p.ID, "user_id", s.userID)
			metrics.StoreErrors.WithLabelValues("cancel").Inc()
		}
		// an expired or already-consumed ID must not linger in the registry
		s.registry.Remove(ctx, p.ID)
		metrics.RemindersCancelled.WithLabelValues(string(category)).Inc()
	}
	s.updateOwnedGauge()
}

// CancelAll cancels everything the registry owns, tolerating individual
// failures, then clears the registry unconditionally so failed cancels
// against consumed IDs cannot pollute it forever.
func (s *Scheduler) CancelAll(ctx context.Context) error {
	for _, id := range s.registry.All() {
		if err := s.store.Cancel(ctx, id); err != nil {
			s.log.Warn("Failed to cancel notification", "error", err, "id", id, "user_id", s.userID)
			metrics.StoreErrors.WithLabelValues("cancel").Inc()
			continue
		}
		metrics.RemindersCancelled.WithLabelValues("all").Inc()
	}

	s.registry.Clear(ctx)
	s.updateOwnedGauge()
	return nil
}

func (s *Scheduler) updateOwnedGauge() {
	metrics.OwnedNotifications.WithLabelValues(s.userID).Set(float64(len(s.registry.All())))
}
