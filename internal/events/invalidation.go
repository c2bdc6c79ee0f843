package events

import "time"

const CacheInvalidationTopic = "worksphere.cache.invalidation.v1"

const EventTypeCacheInvalidated = "cache.invalidated"

// Entity names a family of cached views.
type Entity string

const (
	EntityUsers           Entity = "users"
	EntityWorksheets      Entity = "worksheets"
	EntityPayments        Entity = "payments"
	EntityPaymentRequests Entity = "payment-requests"
	EntityDashboardStats  Entity = "dashboard-stats"
)

// CacheInvalidatedEvent tells every instance that views over Entities are
// stale. Mutations always include EntityDashboardStats because the
// dashboard aggregates every other entity.
type CacheInvalidatedEvent struct {
	EventType   string    `json:"event_type"`
	Entities    []Entity  `json:"entities"`
	Reason      string    `json:"reason"`
	AggregateID string    `json:"aggregate_id,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
