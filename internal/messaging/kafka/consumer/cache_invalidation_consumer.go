package consumer

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"worksphere/internal/events"
	"worksphere/internal/invalidation"
)

// ConsumeCacheInvalidation replays invalidations raised on other instances
// into the local bus. Undecodable messages are committed and dropped.
func ConsumeCacheInvalidation(
	ctx context.Context,
	reader MessageReader,
	bus invalidation.Publisher,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.cache_invalidation")
	log.Info("cache invalidation consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("cache invalidation consumer stopped")
				return
			}
			log.Error("fetch cache invalidation message failed", zap.Error(err))
			continue
		}

		var event events.CacheInvalidatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode cache invalidation event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		bus.Publish(ctx, event)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit cache invalidation message failed", zap.Error(err))
			continue
		}

		log.Debug("cache invalidation applied",
			zap.String("reason", event.Reason),
			zap.Any("entities", event.Entities),
		)
	}
}
