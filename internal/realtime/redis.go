package realtime

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher publishes tenant events over Redis pub/sub so every
// connected API instance can fan them out to its own clients.
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher wraps an established client.
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// Publish sends the event to the tenant's channel.
func (p *RedisPublisher) Publish(ctx context.Context, tenantID string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, ChannelFor(tenantID), payload).Err()
}

// Subscribe opens a subscription on the tenant's channel for a realtime
// transport to consume.
func (p *RedisPublisher) Subscribe(ctx context.Context, tenantID string) *redis.PubSub {
	return p.client.Subscribe(ctx, ChannelFor(tenantID))
}
