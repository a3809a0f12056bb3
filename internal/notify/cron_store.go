package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/vhvplatform/go-reminder-engine/internal/domain"
	"github.com/vhvplatform/go-reminder-engine/internal/shared/logger"
)

// DeliverFunc is invoked when a scheduled notification fires.
type DeliverFunc func(domain.PendingNotification)

// CronStore is a process-local notification store: recurring daily entries
// are cron jobs, absolute and immediate entries are one-shot timers. It
// stands in for an OS-level alarm service.
type CronStore struct {
	cron    *cron.Cron
	deliver DeliverFunc
	log     *logger.Logger

	mu      sync.Mutex
	pending map[string]domain.PendingNotification
	crons   map[string]cron.EntryID
	timers  map[string]*time.Timer
	badge   int
}

// NewCronStore creates a cron-backed store delivering through deliver.
func NewCronStore(deliver DeliverFunc, log *logger.Logger) *CronStore {
	return &CronStore{
		cron:    cron.New(),
		deliver: deliver,
		log:     log,
		pending: make(map[string]domain.PendingNotification),
		crons:   make(map[string]cron.EntryID),
		timers:  make(map[string]*time.Timer),
	}
}

// Start begins firing scheduled notifications.
func (s *CronStore) Start() {
	s.cron.Start()
}

// Stop halts the cron runner; pending one-shot timers are dropped.
func (s *CronStore) Stop() {
	s.cron.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
		delete(s.pending, id)
	}
}

// ScheduleRecurringDaily registers a daily cron entry at hour:minute.
func (s *CronStore) ScheduleRecurringDaily(_ context.Context, hour, minute int, payload domain.NotificationPayload) (string, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid recurring time %02d:%02d", hour, minute)
	}

	id := uuid.New().String()
	spec := fmt.Sprintf("%d %d * * *", minute, hour)

	entryID, err := s.cron.AddFunc(spec, func() {
		// recurring entries stay pending after each fire
		s.fire(id, false)
	})
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.pending[id] = domain.PendingNotification{ID: id, Payload: payload}
	s.crons[id] = entryID
	s.mu.Unlock()

	s.log.Debug("Registered recurring notification", "id", id, "spec", spec)
	return id, nil
}

// ScheduleAt registers a one-shot timer for an absolute instant.
func (s *CronStore) ScheduleAt(_ context.Context, at time.Time, payload domain.NotificationPayload) (string, error) {
	delay := time.Until(at)
	if delay < 0 {
		return "", fmt.Errorf("fire time %s is in the past", at.Format(time.RFC3339))
	}

	id := uuid.New().String()

	s.mu.Lock()
	s.pending[id] = domain.PendingNotification{ID: id, Payload: payload}
	s.timers[id] = time.AfterFunc(delay, func() {
		s.fire(id, true)
	})
	s.mu.Unlock()

	s.log.Debug("Registered one-off notification", "id", id, "at", at)
	return id, nil
}

// ScheduleNow delivers the payload immediately.
func (s *CronStore) ScheduleNow(_ context.Context, payload domain.NotificationPayload) (string, error) {
	id := uuid.New().String()
	go s.deliver(domain.PendingNotification{ID: id, Payload: payload})
	return id, nil
}

// Cancel removes a pending entry. Cancelling an unknown or already-fired ID
// is an error so callers can tell the difference.
func (s *CronStore) Cancel(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending[id]; !ok {
		return fmt.Errorf("notification %s not pending", id)
	}
	if entryID, ok := s.crons[id]; ok {
		s.cron.Remove(entryID)
		delete(s.crons, id)
	}
	if timer, ok := s.timers[id]; ok {
		timer.Stop()
		delete(s.timers, id)
	}
	delete(s.pending, id)
	return nil
}

// ListPending returns every pending notification.
func (s *CronStore) ListPending(_ context.Context) ([]domain.PendingNotification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.PendingNotification, 0, len(s.pending))
	for _, p := range s.pending {
		out = append(out, p)
	}
	return out, nil
}

// SetBadgeCount records the application badge value.
func (s *CronStore) SetBadgeCount(_ context.Context, count int) error {
	s.mu.Lock()
	s.badge = count
	s.mu.Unlock()
	return nil
}

// BadgeCount returns the last badge value set.
func (s *CronStore) BadgeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.badge
}

func (s *CronStore) fire(id string, oneShot bool) {
	s.mu.Lock()
	p, ok := s.pending[id]
	if ok && oneShot {
		delete(s.pending, id)
		delete(s.timers, id)
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	s.deliver(p)
}
