// Package delivery decides, at presentation time, whether an
// already-scheduled notification actually alerts the user. It is the final
// authority: whatever fire-time adjustment happened at scheduling time, the
// gate re-evaluates preferences and quiet hours against the live clock.
package delivery

import (
	"context"
	"sync"
	"time"

	"github.com/vhvplatform/go-reminder-engine/internal/analytics"
	"github.com/vhvplatform/go-reminder-engine/internal/domain"
	"github.com/vhvplatform/go-reminder-engine/internal/metrics"
	"github.com/vhvplatform/go-reminder-engine/internal/notify"
	"github.com/vhvplatform/go-reminder-engine/internal/prefs"
	"github.com/vhvplatform/go-reminder-engine/internal/shared/logger"
)

// Decision is the presentation verdict for one notification.
type Decision struct {
	ShowAlert   bool `json:"show_alert"`
	PlaySound   bool `json:"play_sound"`
	UpdateBadge bool `json:"update_badge"`
}

// Gate gates notification presentation for one user.
type Gate struct {
	userID string
	prefs  *prefs.Store
	store  notify.Store
	sink   analytics.Sink
	log    *logger.Logger

	// Now is the clock; overridable in tests.
	Now func() time.Time

	mu     sync.Mutex
	unread int
}

// NewGate creates a delivery gate for userID.
func NewGate(userID string, prefStore *prefs.Store, store notify.Store, sink analytics.Sink, log *logger.Logger) *Gate {
	return &Gate{
		userID: userID,
		prefs:  prefStore,
		store:  store,
		sink:   sink,
		log:    log,
		Now:    time.Now,
	}
}

// Decide evaluates the presentation policy against the live clock. With
// notifications disabled everything is suppressed; inside quiet hours the
// badge still updates so the user sees an unread count without being
// interrupted.
func (g *Gate) Decide() Decision {
	p := g.prefs.Get()
	if !p.Enabled {
		return Decision{}
	}
	if g.prefs.IsInQuietHours(domain.TimeOfDayFromClock(g.Now())) {
		return Decision{UpdateBadge: true}
	}
	return Decision{ShowAlert: true, PlaySound: true, UpdateBadge: true}
}

// OnWillPresent is the inbound callback fired when the store is about to
// show a notification. It applies the decision's badge side effect and
// reports a "sent" event for anything that reaches the user in some form.
func (g *Gate) OnWillPresent(ctx context.Context, p domain.PendingNotification) Decision {
	decision := g.Decide()

	switch {
	case decision.ShowAlert:
		metrics.GateDecisions.WithLabelValues("presented").Inc()
	case decision.UpdateBadge:
		metrics.GateDecisions.WithLabelValues("badge_only").Inc()
	default:
		metrics.GateDecisions.WithLabelValues("suppressed").Inc()
	}

	if decision.UpdateBadge {
		g.mu.Lock()
		g.unread++
		count := g.unread
		g.mu.Unlock()

		if err := g.store.SetBadgeCount(ctx, count); err != nil {
			g.log.Warn("Failed to set badge count", "error", err, "user_id", g.userID)
		}
		g.sink.Sent(ctx, g.userID, p.Payload.Category())
	}

	g.log.Debug("Delivery decision", "id", p.ID, "category", p.Payload.Category(),
		"alert", decision.ShowAlert, "sound", decision.PlaySound, "badge", decision.UpdateBadge)
	return decision
}

// OnOpened is the inbound callback fired when the user taps a notification.
// Deep-link routing is the caller's job; the gate only resets the unread
// badge and reports the open.
func (g *Gate) OnOpened(ctx context.Context, p domain.PendingNotification) {
	g.mu.Lock()
	g.unread = 0
	g.mu.Unlock()

	if err := g.store.SetBadgeCount(ctx, 0); err != nil {
		g.log.Warn("Failed to clear badge count", "error", err, "user_id", g.userID)
	}
	g.sink.Opened(ctx, g.userID, p.Payload.Category())
}

// Unread returns the current unread counter.
func (g *Gate) Unread() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.unread
}
