package delivery

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vhvplatform/go-reminder-engine/internal/domain"
	"github.com/vhvplatform/go-reminder-engine/internal/kv"
	"github.com/vhvplatform/go-reminder-engine/internal/prefs"
	"github.com/vhvplatform/go-reminder-engine/internal/shared/logger"
)

// badgeStore implements notify.Store; the gate only calls SetBadgeCount.
type badgeStore struct {
	mu    sync.Mutex
	badge int
}

func (b *badgeStore) ScheduleRecurringDaily(context.Context, int, int, domain.NotificationPayload) (string, error) {
	return "", nil
}

func (b *badgeStore) ScheduleAt(context.Context, time.Time, domain.NotificationPayload) (string, error) {
	return "", nil
}

func (b *badgeStore) ScheduleNow(context.Context, domain.NotificationPayload) (string, error) {
	return "", nil
}

func (b *badgeStore) Cancel(context.Context, string) error { return nil }

func (b *badgeStore) ListPending(context.Context) ([]domain.PendingNotification, error) {
	return nil, nil
}

func (b *badgeStore) SetBadgeCount(_ context.Context, count int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.badge = count
	return nil
}

func (b *badgeStore) current() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.badge
}

type recordingSink struct {
	mu     sync.Mutex
	sent   []domain.Category
	opened []domain.Category
}

func (r *recordingSink) Sent(_ context.Context, _ string, category domain.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, category)
}

func (r *recordingSink) Opened(_ context.Context, _ string, category domain.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opened = append(r.opened, category)
}

func newTestGate(t *testing.T) (*Gate, *prefs.Store, *badgeStore, *recordingSink) {
	t.Helper()
	log := logger.NewLogger("gate-test")
	prefStore := prefs.NewStore(kv.NewMemoryStore(), "user-1", log)
	prefStore.Initialize(context.Background())
	store := &badgeStore{}
	sink := &recordingSink{}
	return NewGate("user-1", prefStore, store, sink, log), prefStore, store, sink
}

func at(h, m int) func() time.Time {
	return func() time.Time {
		return time.Date(2026, time.March, 10, h, m, 0, 0, time.UTC)
	}
}

func tod(h, m int) domain.TimeOfDay {
	return domain.TimeOfDay{Hour: h, Minute: m}
}

func payload(cat domain.Category) domain.PendingNotification {
	return domain.PendingNotification{
		ID:      "n-1",
		Payload: domain.NotificationPayload{Data: map[string]string{domain.PayloadKeyCategory: string(cat)}},
	}
}

func TestDecide_DisabledSuppressesEverything(t *testing.T) {
	gate, prefStore, _, _ := newTestGate(t)

	off := false
	_, err := prefStore.Update(context.Background(), domain.PreferencesPatch{Enabled: &off})
	require.NoError(t, err)

	assert.Equal(t, Decision{}, gate.Decide())
}

func TestDecide_QuietHoursAllowsBadgeOnly(t *testing.T) {
	gate, prefStore, _, _ := newTestGate(t)

	_, err := prefStore.SetQuietHours(context.Background(), tod(22, 0), tod(7, 0))
	require.NoError(t, err)
	gate.Now = at(23, 30)

	assert.Equal(t, Decision{UpdateBadge: true}, gate.Decide())
}

func TestDecide_OutsideQuietHoursPresentsFully(t *testing.T) {
	gate, prefStore, _, _ := newTestGate(t)

	_, err := prefStore.SetQuietHours(context.Background(), tod(22, 0), tod(7, 0))
	require.NoError(t, err)
	gate.Now = at(12, 0)

	assert.Equal(t, Decision{ShowAlert: true, PlaySound: true, UpdateBadge: true}, gate.Decide())
}

func TestOnWillPresent_IncrementsBadgeAndReportsSent(t *testing.T) {
	ctx := context.Background()
	gate, _, store, sink := newTestGate(t)
	gate.Now = at(12, 0)

	gate.OnWillPresent(ctx, payload(domain.CategoryDailyReminder))
	gate.OnWillPresent(ctx, payload(domain.CategoryLeadReminder))

	assert.Equal(t, 2, store.current())
	assert.Equal(t, 2, gate.Unread())
	assert.Equal(t, []domain.Category{domain.CategoryDailyReminder, domain.CategoryLeadReminder}, sink.sent)
}

func TestOnWillPresent_QuietHoursStillCountsBadge(t *testing.T) {
	ctx := context.Background()
	gate, prefStore, store, sink := newTestGate(t)

	_, err := prefStore.SetQuietHours(ctx, tod(22, 0), tod(7, 0))
	require.NoError(t, err)
	gate.Now = at(23, 0)

	decision := gate.OnWillPresent(ctx, payload(domain.CategoryDailyReminder))

	assert.False(t, decision.ShowAlert)
	assert.False(t, decision.PlaySound)
	assert.Equal(t, 1, store.current())
	assert.Len(t, sink.sent, 1)
}

func TestOnWillPresent_DisabledReportsNothing(t *testing.T) {
	ctx := context.Background()
	gate, prefStore, store, sink := newTestGate(t)

	off := false
	_, err := prefStore.Update(ctx, domain.PreferencesPatch{Enabled: &off})
	require.NoError(t, err)

	decision := gate.OnWillPresent(ctx, payload(domain.CategoryDailyReminder))

	assert.Equal(t, Decision{}, decision)
	assert.Zero(t, store.current())
	assert.Empty(t, sink.sent)
}

func TestOnOpened_ClearsBadgeAndReportsOpen(t *testing.T) {
	ctx := context.Background()
	gate, _, store, sink := newTestGate(t)
	gate.Now = at(12, 0)

	gate.OnWillPresent(ctx, payload(domain.CategoryLeadReminder))
	require.Equal(t, 1, gate.Unread())

	gate.OnOpened(ctx, payload(domain.CategoryLeadReminder))

	assert.Zero(t, gate.Unread())
	assert.Zero(t, store.current())
	assert.Equal(t, []domain.Category{domain.CategoryLeadReminder}, sink.opened)
}
