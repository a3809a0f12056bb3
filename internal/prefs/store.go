// Package prefs holds the per-user notification preferences on top of the
// key/value persistence boundary. Load and save failures are logged, never
// surfaced: the engine must keep working on in-memory state even when
// durability is lost.
package prefs

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/vhvplatform/go-reminder-engine/internal/domain"
	"github.com/vhvplatform/go-reminder-engine/internal/kv"
	"github.com/vhvplatform/go-reminder-engine/internal/quiethours"
	"github.com/vhvplatform/go-reminder-engine/internal/shared/logger"
)

const keyPrefix = "notification_preferences:"

// Store manages one user's notification preferences.
type Store struct {
	kv     kv.Store
	userID string
	log    *logger.Logger

	mu      sync.RWMutex
	current domain.NotificationPreferences
}

// NewStore creates a preferences store for userID. Call Initialize before
// first use.
func NewStore(store kv.Store, userID string, log *logger.Logger) *Store {
	return &Store{
		kv:      store,
		userID:  userID,
		log:     log,
		current: domain.DefaultPreferences(),
	}
}

func (s *Store) key() string {
	return keyPrefix + s.userID
}

// Initialize loads persisted preferences, merging them over the defaults.
// Missing or unreadable data falls back to defaults.
func (s *Store) Initialize(ctx context.Context) {
	raw, ok, err := s.kv.Get(ctx, s.key())
	if err != nil {
		s.log.Warn("Failed to load preferences, using defaults", "error", err, "user_id", s.userID)
		return
	}
	if !ok {
		return
	}

	loaded := domain.DefaultPreferences()
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		s.log.Warn("Malformed persisted preferences, using defaults", "error", err, "user_id", s.userID)
		return
	}

	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()
}

// Get returns a copy of the current preferences. Mutating the copy has no
// effect on the store.
func (s *Store) Get() domain.NotificationPreferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.current)
}

// Update merges patch into the current preferences and persists the result.
// The in-memory value is updated even when persistence fails, so the running
// session stays consistent.
func (s *Store) Update(ctx context.Context, patch domain.PreferencesPatch) (domain.NotificationPreferences, error) {
	if err := patch.Validate(); err != nil {
		return s.Get(), err
	}

	s.mu.Lock()
	s.current = patch.Apply(s.current)
	merged := clone(s.current)
	s.mu.Unlock()

	s.persist(ctx, merged)
	return merged, nil
}

// SetDailyReminderTime updates the daily reminder clock time.
func (s *Store) SetDailyReminderTime(ctx context.Context, t domain.TimeOfDay) (domain.NotificationPreferences, error) {
	return s.Update(ctx, domain.PreferencesPatch{DailyReminderTime: &t})
}

// ToggleDailyReminder flips the daily reminder switch.
func (s *Store) ToggleDailyReminder(ctx context.Context) (domain.NotificationPreferences, error) {
	enabled := !s.Get().DailyReminder
	return s.Update(ctx, domain.PreferencesPatch{DailyReminder: &enabled})
}

// SetQuietHours sets both quiet-hours bounds.
func (s *Store) SetQuietHours(ctx context.Context, start, end domain.TimeOfDay) (domain.NotificationPreferences, error) {
	return s.Update(ctx, domain.PreferencesPatch{QuietHoursStart: &start, QuietHoursEnd: &end})
}

// ClearQuietHours removes the quiet-hours window.
func (s *Store) ClearQuietHours(ctx context.Context) (domain.NotificationPreferences, error) {
	return s.Update(ctx, domain.PreferencesPatch{ClearQuietHours: true})
}

// Reset restores hard-coded defaults and persists them.
func (s *Store) Reset(ctx context.Context) domain.NotificationPreferences {
	defaults := domain.DefaultPreferences()

	s.mu.Lock()
	s.current = defaults
	s.mu.Unlock()

	s.persist(ctx, defaults)
	return defaults
}

// IsInQuietHours evaluates the stored window against now.
func (s *Store) IsInQuietHours(now domain.TimeOfDay) bool {
	return quiethours.InWindowPrefs(s.Get(), now)
}

func (s *Store) persist(ctx context.Context, prefs domain.NotificationPreferences) {
	raw, err := json.Marshal(prefs)
	if err != nil {
		s.log.Error("Failed to encode preferences", "error", err, "user_id", s.userID)
		return
	}
	if err := s.kv.Set(ctx, s.key(), string(raw)); err != nil {
		s.log.Error("Failed to persist preferences", "error", err, "user_id", s.userID)
	}
}

func clone(p domain.NotificationPreferences) domain.NotificationPreferences {
	out := p
	if p.QuietHoursStart != nil {
		start := *p.QuietHoursStart
		out.QuietHoursStart = &start
	}
	if p.QuietHoursEnd != nil {
		end := *p.QuietHoursEnd
		out.QuietHoursEnd = &end
	}
	return out
}
