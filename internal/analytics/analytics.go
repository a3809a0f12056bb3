// Package analytics forwards "sent" and "opened" reminder events to an
// external collaborator. The engine only emits; aggregation happens
// elsewhere.
package analytics

import (
	"context"

	"github.com/vhvplatform/go-reminder-engine/internal/domain"
)

// Event is one reminder lifecycle event, keyed by category.
type Event struct {
	UserID   string          `json:"user_id"`
	Category domain.Category `json:"category"`
	Action   string          `json:"action"` // sent, opened
}

// Sink receives reminder lifecycle events.
type Sink interface {
	Sent(ctx context.Context, userID string, category domain.Category)
	Opened(ctx context.Context, userID string, category domain.Category)
}

// NopSink discards all events.
type NopSink struct{}

// Sent discards the event.
func (NopSink) Sent(context.Context, string, domain.Category) {}

// Opened discards the event.
func (NopSink) Opened(context.Context, string, domain.Category) {}
