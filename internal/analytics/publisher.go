package analytics

import (
	"context"
	"encoding/json"

	"github.com/vhvplatform/go-reminder-engine/internal/domain"
	"github.com/vhvplatform/go-reminder-engine/internal/shared/logger"
	"github.com/vhvplatform/go-reminder-engine/internal/shared/rabbitmq"
)

// Publisher publishes reminder events to a RabbitMQ topic exchange. Publish
// failures are logged and dropped: analytics is best-effort and must never
// affect scheduling or delivery.
type Publisher struct {
	client   *rabbitmq.RabbitMQClient
	exchange string
	log      *logger.Logger
}

// NewPublisher declares the exchange and returns a publisher bound to it.
func NewPublisher(client *rabbitmq.RabbitMQClient, exchange string, log *logger.Logger) (*Publisher, error) {
	if err := client.DeclareExchange(exchange); err != nil {
		return nil, err
	}
	return &Publisher{client: client, exchange: exchange, log: log}, nil
}

// Sent publishes a reminder.sent event.
func (p *Publisher) Sent(ctx context.Context, userID string, category domain.Category) {
	p.publish(ctx, Event{UserID: userID, Category: category, Action: "sent"}, "reminder.sent")
}

// Opened publishes a reminder.opened event.
func (p *Publisher) Opened(ctx context.Context, userID string, category domain.Category) {
	p.publish(ctx, Event{UserID: userID, Category: category, Action: "opened"}, "reminder.opened")
}

func (p *Publisher) publish(_ context.Context, event Event, routingKey string) {
	body, err := json.Marshal(event)
	if err != nil {
		p.log.Error("Failed to encode analytics event", "error", err)
		return
	}
	if err := p.client.Publish(p.exchange, routingKey, body); err != nil {
		p.log.Warn("Failed to publish analytics event", "error", err, "routing_key", routingKey)
	}
}
