package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/adhcode/estate-backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

// VisitChannel is the pub/sub channel carrying visit row changes.
const VisitChannel = "guest-changes"

// RedisPublisher pushes visit changes onto a Redis pub/sub channel for
// open dashboards. Delivery is best-effort: a publish failure is logged
// and never fails the mutation that triggered it.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher creates a publisher on the given channel.
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = VisitChannel
	}
	return &RedisPublisher{client: client, channel: channel}
}

// PublishVisitChange emits a change event to subscribed dashboards.
func (p *RedisPublisher) PublishVisitChange(ctx context.Context, change domain.VisitChange) {
	data, err := json.Marshal(change)
	if err != nil {
		log.Printf("Failed to marshal visit change: %v", err)
		return
	}

	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		log.Printf("Failed to publish visit change: %v", err)
	}
}
