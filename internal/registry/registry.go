// Package registry tracks the notification-store IDs this engine created.
// The external store may hold entries the engine does not own (system
// notifications, other apps); bulk cancellation must only ever touch IDs
// recorded here.
package registry

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/vhvplatform/go-reminder-engine/internal/kv"
	"github.com/vhvplatform/go-reminder-engine/internal/shared/logger"
)

const keyPrefix = "owned_notification_ids:"

// Registry is the persisted, insertion-ordered set of app-owned IDs for one
// user.
type Registry struct {
	kv     kv.Store
	userID string
	log    *logger.Logger

	mu  sync.RWMutex
	ids []string
}

// NewRegistry creates a registry for userID. Call Initialize before first
// use.
func NewRegistry(store kv.Store, userID string, log *logger.Logger) *Registry {
	return &Registry{kv: store, userID: userID, log: log}
}

func (r *Registry) key() string {
	return keyPrefix + r.userID
}

// Initialize loads the persisted ID sequence. Missing or unreadable data
// leaves the registry empty.
func (r *Registry) Initialize(ctx context.Context) {
	raw, ok, err := r.kv.Get(ctx, r.key())
	if err != nil {
		r.log.Warn("Failed to load owned IDs, starting empty", "error", err, "user_id", r.userID)
		return
	}
	if !ok {
		return
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		r.log.Warn("Malformed owned-ID data, starting empty", "error", err, "user_id", r.userID)
		return
	}

	r.mu.Lock()
	r.ids = ids
	r.mu.Unlock()
}

// Add appends id to the sequence and persists.
func (r *Registry) Add(ctx context.Context, id string) {
	r.mu.Lock()
	r.ids = append(r.ids, id)
	snapshot := append([]string(nil), r.ids...)
	r.mu.Unlock()

	r.persist(ctx, snapshot)
}

// Remove filters id out of the sequence and persists.
func (r *Registry) Remove(ctx context.Context, id string) {
	r.mu.Lock()
	filtered := r.ids[:0]
	for _, existing := range r.ids {
		if existing != id {
			filtered = append(filtered, existing)
		}
	}
	r.ids = filtered
	snapshot := append([]string(nil), r.ids...)
	r.mu.Unlock()

	r.persist(ctx, snapshot)
}

// Clear empties the sequence and persists.
func (r *Registry) Clear(ctx context.Context) {
	r.mu.Lock()
	r.ids = nil
	r.mu.Unlock()

	r.persist(ctx, []string{})
}

// All returns a copy of the current ID sequence in insertion order.
func (r *Registry) All() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.ids...)
}

// Contains reports whether id is app-owned.
func (r *Registry) Contains(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, existing := range r.ids {
		if existing == id {
			return true
		}
	}
	return false
}

func (r *Registry) persist(ctx context.Context, ids []string) {
	raw, err := json.Marshal(ids)
	if err != nil {
		r.log.Error("Failed to encode owned IDs", "error", err, "user_id", r.userID)
		return
	}
	if err := r.kv.Set(ctx, r.key(), string(raw)); err != nil {
		r.log.Error("Failed to persist owned IDs", "error", err, "user_id", r.userID)
	}
}
