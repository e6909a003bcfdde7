package events

import (
	"time"

	"github.com/groupcart/order-collector/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOrderSubmitted       EventType = "order_submitted"
	EventOrderCancelled       EventType = "order_cancelled"
	EventCollectionOpened     EventType = "collection_opened"
	EventCollectionClosed     EventType = "collection_closed"
	EventCollectionRolledOver EventType = "collection_rolled_over"
	EventUserBlacklisted      EventType = "user_blacklisted"
	EventUserRemoved          EventType = "user_removed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   int64       `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// OrderSubmittedPayload payload.
type OrderSubmittedPayload struct {
	UserID    int64 `json:"user_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	Merged    bool  `json:"merged"`
}

// OrderCancelledPayload payload.
type OrderCancelledPayload struct {
	UserID    int64            `json:"user_id"`
	ProductID int64            `json:"product_id"`
	Partition domain.Partition `json:"partition"`
}

// CollectionOpenedPayload payload. Fresh marks a "new collection" (rollover
// performed) as opposed to reopening the existing window.
type CollectionOpenedPayload struct {
	Fresh bool `json:"fresh"`
}

// UserBlacklistedPayload payload.
type UserBlacklistedPayload struct {
	UserID   int64 `json:"user_id"`
	Attempts int   `json:"attempts"`
}

// UserRemovedPayload payload.
type UserRemovedPayload struct {
	UserID int64 `json:"user_id"`
}
