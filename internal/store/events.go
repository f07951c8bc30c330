package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const webhookEventTTL = 72 * time.Hour

// RedisEventDeduper retient les événements webhook déjà traités avec succès.
type RedisEventDeduper struct {
	rdb *redis.Client
}

func NewRedisEventDeduper(rdb *redis.Client) *RedisEventDeduper {
	return &RedisEventDeduper{rdb: rdb}
}

func eventKey(id string) string {
	return "stripe_event:" + id
}

func (d *RedisEventDeduper) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := d.rdb.Exists(ctx, eventKey(eventID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (d *RedisEventDeduper) Mark(ctx context.Context, eventID string) error {
	return d.rdb.Set(ctx, eventKey(eventID), "done", webhookEventTTL).Err()
}
