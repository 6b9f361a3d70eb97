package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/light-bringer/procat-admin/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
	"github.com/light-bringer/procat-admin/internal/models/m_outbox"
	"github.com/light-bringer/procat-admin/internal/pkg/clock"
	"github.com/light-bringer/procat-admin/internal/pkg/query"
	"github.com/light-bringer/procat-admin/internal/platform/recordstore"
)

// OutboxRepo implements OutboxRepository over a record store.
type OutboxRepo struct {
	store recordstore.Store
	clock clock.Clock
}

// NewOutboxRepo creates a new OutboxRepo.
func NewOutboxRepo(store recordstore.Store, clk clock.Clock) contracts.OutboxRepository {
	return &OutboxRepo{store: store, clock: clk}
}

// EnrichEvent converts a domain event to an outbox event with metadata.
func (r *OutboxRepo) EnrichEvent(event domain.DomainEvent) (*contracts.OutboxEvent, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s event: %w", event.EventType(), err)
	}
	return &contracts.OutboxEvent{
		EventID:     uuid.New().String(),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		Payload:     string(payload),
		Status:      m_outbox.StatusPending,
		CreatedAt:   r.clock.Now(),
	}, nil
}

func (r *OutboxRepo) Insert(ctx context.Context, event *contracts.OutboxEvent) error {
	data := &m_outbox.Data{
		EventID:     event.EventID,
		EventType:   event.EventType,
		AggregateID: event.AggregateID,
		Payload:     event.Payload,
		Status:      event.Status,
		CreatedAt:   event.CreatedAt,
	}
	_, err := r.store.Insert(ctx, m_outbox.TableName, data.ToRow())
	return err
}

func (r *OutboxRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time, dryRun bool) (int, error) {
	older := query.Lt(m_outbox.CreatedAt, cutoff)
	rows, err := r.store.Select(ctx, m_outbox.TableName, older)
	if err != nil {
		return 0, err
	}
	if dryRun || len(rows) == 0 {
		return len(rows), nil
	}
	if err := r.store.Delete(ctx, m_outbox.TableName, older); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func outboxFromRow(row recordstore.Row) *contracts.OutboxEvent {
	d := m_outbox.FromRow(row)
	return &contracts.OutboxEvent{
		EventID:     d.EventID,
		EventType:   d.EventType,
		AggregateID: d.AggregateID,
		Payload:     d.Payload,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
	}
}
