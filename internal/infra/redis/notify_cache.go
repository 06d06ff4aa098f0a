package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"shop-payment-engine/internal/domain/ports/repository"
)

var _ repository.ProcessedNotificationCache = (*NotifyCache)(nil)

// NotifyCache remembers gateway transaction ids that reached a terminal
// outcome so re-delivered notifications can short-circuit. Best-effort only:
// a cache miss just falls through to the conditional write, which stays the
// authoritative guard.
type NotifyCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewNotifyCache(client RedisClient, ttl time.Duration) *NotifyCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &NotifyCache{client: client, ttl: ttl}
}

func key(gatewayTxnID string) string { return "notify:processed:" + gatewayTxnID }

func (c *NotifyCache) MarkProcessed(ctx context.Context, gatewayTxnID, outcome string) error {
	return c.client.Set(ctx, key(gatewayTxnID), outcome, c.ttl)
}

func (c *NotifyCache) ProcessedOutcome(ctx context.Context, gatewayTxnID string) (string, bool, error) {
	v, err := c.client.Get(ctx, key(gatewayTxnID))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}
