package redisdedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Keys live long enough to swallow the gateway's own retry window.
const seenExpiry = 24 * time.Hour

// NotificationDedup remembers payload hashes of already-processed webhook
// notifications. SETNX makes the check-and-mark atomic, so two concurrent
// deliveries of the same payload cannot both pass.
type NotificationDedup struct {
	client *redis.Client
}

func NewNotificationDedup(addr, password string, db int) *NotificationDedup {
	return &NotificationDedup{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// MarkSeen returns true when the hash was already recorded. The row-level lock
// in the repository is the real safety net; this only spares duplicate work.
func (d *NotificationDedup) MarkSeen(ctx context.Context, payloadHash string) (bool, error) {
	key := fmt.Sprintf("negdi:notif:%s", payloadHash)
	set, err := d.client.SetNX(ctx, key, "1", seenExpiry).Result()
	if err != nil {
		return false, fmt.Errorf("redis SETNX error: %w", err)
	}
	return !set, nil
}

func (d *NotificationDedup) Close() error {
	return d.client.Close()
}
