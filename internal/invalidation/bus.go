// Package invalidation tells cached views that the data behind them changed.
//
// A mutation builds one CacheInvalidatedEvent naming every affected entity.
// The event is staged in the outbox inside the mutation's transaction and,
// once committed, published to the in-process Bus. The Kafka consumer feeds
// the same Bus on every other instance.
package invalidation

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"worksphere/internal/events"
	"worksphere/internal/shared/contextutil"
)

type Handler func(ctx context.Context, event events.CacheInvalidatedEvent) error

type Publisher interface {
	Publish(ctx context.Context, event events.CacheInvalidatedEvent)
}

type subscription struct {
	name    string
	handler Handler
}

// Bus dispatches events synchronously. Entities are visited in event order
// and subscribers in subscription order; a subscriber registered for several
// entities of one event runs once.
type Bus struct {
	mu     sync.RWMutex
	subs   map[events.Entity][]subscription
	logger *zap.Logger
}

func NewBus(logger ...*zap.Logger) *Bus {
	l := zap.L().Named("invalidation.bus")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("invalidation.bus")
	}
	return &Bus{
		subs:   make(map[events.Entity][]subscription),
		logger: l,
	}
}

func (b *Bus) Subscribe(entity events.Entity, name string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[entity] = append(b.subs[entity], subscription{name: name, handler: handler})
}

func (b *Bus) Publish(ctx context.Context, event events.CacheInvalidatedEvent) {
	b.mu.RLock()
	var queue []subscription
	seen := make(map[string]struct{})
	for _, entity := range event.Entities {
		for _, sub := range b.subs[entity] {
			if _, dup := seen[sub.name]; dup {
				continue
			}
			seen[sub.name] = struct{}{}
			queue = append(queue, sub)
		}
	}
	b.mu.RUnlock()

	logger := contextutil.GetLogger(ctx, b.logger)
	for _, sub := range queue {
		if err := sub.handler(ctx, event); err != nil {
			logger.Warn("invalidation subscriber failed",
				zap.String("subscriber", sub.name),
				zap.String("reason", event.Reason),
				zap.Error(err),
			)
		}
	}
}

// Recorder is a Publisher that keeps every event it receives.
type Recorder struct {
	mu     sync.Mutex
	Events []events.CacheInvalidatedEvent
}

func (r *Recorder) Publish(_ context.Context, event events.CacheInvalidatedEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, event)
}

// Entities returns the entities of every recorded event in order.
func (r *Recorder) Entities() []events.Entity {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Entity
	for _, ev := range r.Events {
		out = append(out, ev.Entities...)
	}
	return out
}
