package contracts

import (
	"context"
	"time"

	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
)

// OutboxEvent represents an enriched domain event ready for persistence.
type OutboxEvent struct {
	EventID     string
	EventType   string
	AggregateID string
	Payload     string // JSON
	Status      string
	CreatedAt   time.Time
}

// OutboxRepository defines the interface for outbox event persistence.
type OutboxRepository interface {
	// EnrichEvent converts a domain event to an outbox event with metadata.
	EnrichEvent(event domain.DomainEvent) (*OutboxEvent, error)

	// Insert stores an enriched event.
	Insert(ctx context.Context, event *OutboxEvent) error

	// DeleteOlderThan removes events created before cutoff and returns how
	// many there were. With dryRun nothing is deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time, dryRun bool) (int, error)
}
