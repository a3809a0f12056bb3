package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vhvplatform/go-reminder-engine/internal/analytics"
	"github.com/vhvplatform/go-reminder-engine/internal/domain"
	"github.com/vhvplatform/go-reminder-engine/internal/kv"
	"github.com/vhvplatform/go-reminder-engine/internal/shared/logger"
)

type stubStore struct {
	mu    sync.Mutex
	badge int
}

func (s *stubStore) ScheduleRecurringDaily(context.Context, int, int, domain.NotificationPayload) (string, error) {
	return "n-1", nil
}

func (s *stubStore) ScheduleAt(context.Context, time.Time, domain.NotificationPayload) (string, error) {
	return "n-2", nil
}

func (s *stubStore) ScheduleNow(context.Context, domain.NotificationPayload) (string, error) {
	return "n-3", nil
}

func (s *stubStore) Cancel(context.Context, string) error { return nil }

func (s *stubStore) ListPending(context.Context) ([]domain.PendingNotification, error) {
	return nil, nil
}

func (s *stubStore) SetBadgeCount(_ context.Context, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.badge = count
	return nil
}

func TestManager_CachesEnginePerUser(t *testing.T) {
	ctx := context.Background()
	m := NewManager(kv.NewMemoryStore(), &stubStore{}, analytics.NopSink{}, logger.NewLogger("engine-test"))

	a := m.Engine(ctx, "user-1")
	b := m.Engine(ctx, "user-1")
	c := m.Engine(ctx, "user-2")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}

func TestManager_EnginesAreIsolated(t *testing.T) {
	ctx := context.Background()
	m := NewManager(kv.NewMemoryStore(), &stubStore{}, analytics.NopSink{}, logger.NewLogger("engine-test"))

	off := false
	_, err := m.Engine(ctx, "user-1").Prefs.Update(ctx, domain.PreferencesPatch{Enabled: &off})
	require.NoError(t, err)

	assert.False(t, m.Engine(ctx, "user-1").Prefs.Get().Enabled)
	assert.True(t, m.Engine(ctx, "user-2").Prefs.Get().Enabled)
}

func TestManager_DeliverRoutesToOwningGate(t *testing.T) {
	ctx := context.Background()
	store := &stubStore{}
	m := NewManager(kv.NewMemoryStore(), store, analytics.NopSink{}, logger.NewLogger("engine-test"))

	m.Deliver(domain.PendingNotification{
		ID: "n-9",
		Payload: domain.NotificationPayload{
			Data: map[string]string{
				domain.PayloadKeyCategory: string(domain.CategoryLeadReminder),
				domain.PayloadKeyUserID:   "user-1",
			},
		},
	})

	assert.Equal(t, 1, m.Engine(ctx, "user-1").Gate.Unread())
	assert.Zero(t, m.Engine(ctx, "user-2").Gate.Unread())
}

func TestManager_DeliverDropsUnownedNotification(t *testing.T) {
	m := NewManager(kv.NewMemoryStore(), &stubStore{}, analytics.NopSink{}, logger.NewLogger("engine-test"))

	// no user_id in the payload data
	m.Deliver(domain.PendingNotification{ID: "n-9"})

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Empty(t, m.engines)
}
