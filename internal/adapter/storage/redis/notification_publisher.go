package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"provider-settlement/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// notificationChannel is the pub/sub channel dashboards and push bridges
// subscribe to.
const notificationChannel = "notifications"

// NotificationPublisher implements ports.NotificationPublisher over Redis
// pub/sub. Delivery is fire-and-forget; subscribers that are offline miss
// the event and fall back to the persisted inbox.
type NotificationPublisher struct {
	client *goredis.Client
}

// NewNotificationPublisher creates a new Redis-backed notification publisher.
func NewNotificationPublisher(client *goredis.Client) *NotificationPublisher {
	return &NotificationPublisher{client: client}
}

// Publish pushes a notification event onto the shared channel.
func (p *NotificationPublisher) Publish(ctx context.Context, n *domain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := p.client.Publish(ctx, notificationChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}
