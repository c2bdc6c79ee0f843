package invalidation

import (
	"context"
	"database/sql"
	"time"

	"worksphere/internal/events"
	"worksphere/internal/messaging/kafka"
	"worksphere/internal/shared/contextutil"
)

const aggregateTypeCache = "cache"

// NewEvent builds the invalidation for a mutation. The dashboard entity is
// always appended because every stat derives from the mutated data.
func NewEvent(ctx context.Context, reason, aggregateID string, entities ...events.Entity) events.CacheInvalidatedEvent {
	all := make([]events.Entity, 0, len(entities)+1)
	hasDashboard := false
	for _, e := range entities {
		if e == events.EntityDashboardStats {
			hasDashboard = true
		}
		all = append(all, e)
	}
	if !hasDashboard {
		all = append(all, events.EntityDashboardStats)
	}

	return events.CacheInvalidatedEvent{
		EventType:   events.EventTypeCacheInvalidated,
		Entities:    all,
		Reason:      reason,
		AggregateID: aggregateID,
		RequestID:   contextutil.GetRequestID(ctx),
		OccurredAt:  time.Now().UTC(),
	}
}

// Notifier stages invalidations in the outbox and publishes them locally.
// A nil Notifier, or one without an outbox, skips the corresponding step.
type Notifier struct {
	outbox kafka.OutboxRepository
	bus    Publisher
}

func NewNotifier(outbox kafka.OutboxRepository, bus Publisher) *Notifier {
	return &Notifier{outbox: outbox, bus: bus}
}

// Stage writes the event to the outbox within tx.
func (n *Notifier) Stage(ctx context.Context, tx *sql.Tx, event events.CacheInvalidatedEvent) error {
	if n == nil || n.outbox == nil {
		return nil
	}

	aggregateID := event.AggregateID
	if aggregateID == "" {
		aggregateID = event.Reason
	}

	row, err := kafka.NewOutboxEvent(
		event.RequestID,
		aggregateTypeCache,
		aggregateID,
		event.EventType,
		events.CacheInvalidationTopic,
		event,
	)
	if err != nil {
		return err
	}

	repo := n.outbox
	if tx != nil {
		repo = repo.WithTx(tx)
	}
	return repo.Create(ctx, row)
}

// Publish notifies in-process subscribers. Call it after commit.
func (n *Notifier) Publish(ctx context.Context, event events.CacheInvalidatedEvent) {
	if n == nil || n.bus == nil {
		return
	}
	n.bus.Publish(ctx, event)
}
