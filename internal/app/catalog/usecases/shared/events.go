package shared

import (
	"context"

	"go.uber.org/zap"

	"github.com/light-bringer/procat-admin/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
)

// EventRecorder appends domain events to the outbox after the change they
// describe has been written. Failures are logged and never returned.
type EventRecorder struct {
	outbox contracts.OutboxRepository
	logger *zap.Logger
}

// NewEventRecorder creates a new EventRecorder.
func NewEventRecorder(outbox contracts.OutboxRepository, logger *zap.Logger) *EventRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventRecorder{outbox: outbox, logger: logger}
}

// Record stores every event, continuing past failures.
func (r *EventRecorder) Record(ctx context.Context, events ...domain.DomainEvent) {
	for _, event := range events {
		outboxEvent, err := r.outbox.EnrichEvent(event)
		if err == nil {
			err = r.outbox.Insert(ctx, outboxEvent)
		}
		if err != nil {
			r.logger.Error("failed to record outbox event",
				zap.String("event_type", event.EventType()),
				zap.String("aggregate_id", event.AggregateID()),
				zap.Error(err),
			)
			continue
		}
		r.logger.Debug("outbox event recorded",
			zap.String("event_id", outboxEvent.EventID),
			zap.String("event_type", outboxEvent.EventType),
		)
	}
}
