package invalidation

import (
	"context"

	"github.com/redis/go-redis/v9"

	"worksphere/internal/events"
)

// DeleteKeys returns a Handler that drops the given Redis cache keys.
func DeleteKeys(rdb redis.Cmdable, keys ...string) Handler {
	return func(ctx context.Context, _ events.CacheInvalidatedEvent) error {
		if len(keys) == 0 {
			return nil
		}
		return rdb.Del(ctx, keys...).Err()
	}
}
