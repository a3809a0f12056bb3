// Package engine assembles the per-user policy components. Nothing here is
// global state: every Engine is an explicit instance built around one
// key/value store and one notification store, so isolated instances can run
// side by side.
package engine

import (
	"context"
	"sync"

	"github.com/vhvplatform/go-reminder-engine/internal/analytics"
	"github.com/vhvplatform/go-reminder-engine/internal/delivery"
	"github.com/vhvplatform/go-reminder-engine/internal/domain"
	"github.com/vhvplatform/go-reminder-engine/internal/kv"
	"github.com/vhvplatform/go-reminder-engine/internal/notify"
	"github.com/vhvplatform/go-reminder-engine/internal/prefs"
	"github.com/vhvplatform/go-reminder-engine/internal/registry"
	"github.com/vhvplatform/go-reminder-engine/internal/scheduler"
	"github.com/vhvplatform/go-reminder-engine/internal/shared/logger"
)

// Engine bundles one user's preference store, registry, scheduler and
// delivery gate.
type Engine struct {
	UserID    string
	Prefs     *prefs.Store
	Registry  *registry.Registry
	Scheduler *scheduler.Scheduler
	Gate      *delivery.Gate
}

// Manager lazily builds and caches engines by user ID and routes store
// deliveries to the owning user's gate.
type Manager struct {
	kv    kv.Store
	store notify.Store
	sink  analytics.Sink
	log   *logger.Logger

	mu      sync.Mutex
	engines map[string]*Engine
}

// NewManager creates an engine manager over the shared stores.
func NewManager(kvStore kv.Store, store notify.Store, sink analytics.Sink, log *logger.Logger) *Manager {
	return &Manager{
		kv:      kvStore,
		store:   store,
		sink:    sink,
		log:     log,
		engines: make(map[string]*Engine),
	}
}

// Engine returns the engine for userID, building and initializing it on
// first use.
func (m *Manager) Engine(ctx context.Context, userID string) *Engine {
	m.mu.Lock()
	defer m.mu.Unlock()

	if eng, ok := m.engines[userID]; ok {
		return eng
	}

	prefStore := prefs.NewStore(m.kv, userID, m.log)
	prefStore.Initialize(ctx)

	reg := registry.NewRegistry(m.kv, userID, m.log)
	reg.Initialize(ctx)

	eng := &Engine{
		UserID:    userID,
		Prefs:     prefStore,
		Registry:  reg,
		Scheduler: scheduler.NewScheduler(userID, prefStore, reg, m.store, m.log),
		Gate:      delivery.NewGate(userID, prefStore, m.store, m.sink, m.log),
	}
	m.engines[userID] = eng
	return eng
}

// Deliver is the notification store's delivery callback. The payload's
// embedded user ID selects the gate; notifications without one are dropped.
func (m *Manager) Deliver(p domain.PendingNotification) {
	userID := p.Payload.UserID()
	if userID == "" {
		m.log.Warn("Dropping notification without owner", "id", p.ID)
		return
	}

	ctx := context.Background()
	eng := m.Engine(ctx, userID)
	decision := eng.Gate.OnWillPresent(ctx, p)

	if decision.ShowAlert {
		m.log.Info("Presenting notification", "id", p.ID, "title", p.Payload.Title,
			"category", p.Payload.Category(), "user_id", userID, "sound", decision.PlaySound)
	}
}
