package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"StockScan/internal/domain/repository"
)

// RedisNotifier implements Notifier over Redis pub/sub. Publish reports the
// number of subscribers that received the message.
type RedisNotifier struct {
	client *redis.Client
}

// NewRedisNotifier creates a pub/sub notifier on an existing Redis client.
func NewRedisNotifier(client *redis.Client) repository.Notifier {
	return &RedisNotifier{client: client}
}

func (n *RedisNotifier) Publish(ctx context.Context, channel string, payload interface{}) (int64, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshal event: %w", err)
	}

	subs, err := n.client.Publish(ctx, channel, data).Result()
	if err != nil {
		return 0, fmt.Errorf("publish %s: %w", channel, err)
	}
	return subs, nil
}

func (n *RedisNotifier) Close() error {
	return nil // client is shared with the cache layer
}
