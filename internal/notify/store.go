// Package notify defines the external notification store boundary. The
// engine never owns a timer or alarm itself; it only schedules, cancels and
// lists through this interface, so tests can substitute an in-memory fake
// and production can plug in whatever alarm framework the host provides.
package notify

import (
	"context"
	"time"

	"github.com/vhvplatform/go-reminder-engine/internal/domain"
)

// Store is the external notification store contract.
type Store interface {
	// ScheduleRecurringDaily registers a notification that fires every day
	// at hour:minute and returns the store's ID for it.
	ScheduleRecurringDaily(ctx context.Context, hour, minute int, payload domain.NotificationPayload) (string, error)

	// ScheduleAt registers a one-off notification at an absolute instant.
	ScheduleAt(ctx context.Context, at time.Time, payload domain.NotificationPayload) (string, error)

	// ScheduleNow registers a notification with no delay.
	ScheduleNow(ctx context.Context, payload domain.NotificationPayload) (string, error)

	// Cancel removes a pending notification by ID.
	Cancel(ctx context.Context, id string) error

	// ListPending returns every notification the store currently holds,
	// including entries this engine did not create.
	ListPending(ctx context.Context) ([]domain.PendingNotification, error)

	// SetBadgeCount sets the application badge.
	SetBadgeCount(ctx context.Context, count int) error
}
