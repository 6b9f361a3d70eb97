package repo

import (
	"context"
	"sort"

	"github.com/light-bringer/procat-admin/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-admin/internal/models/m_outbox"
	"github.com/light-bringer/procat-admin/internal/pkg/query"
	"github.com/light-bringer/procat-admin/internal/platform/recordstore"
)

// EventsReadModel implements the EventsReadModel interface.
type EventsReadModel struct {
	store recordstore.Store
}

// NewEventsReadModel creates a new EventsReadModel.
func NewEventsReadModel(store recordstore.Store) *EventsReadModel {
	return &EventsReadModel{store: store}
}

// ListEvents retrieves events from the outbox_events table with filtering.
func (r *EventsReadModel) ListEvents(ctx context.Context, filter *contracts.EventFilter) ([]*contracts.OutboxEvent, error) {
	conds := make([]query.Condition, 0, 2)
	if filter.EventType != "" {
		conds = append(conds, query.Eq(m_outbox.EventType, filter.EventType))
	}
	if filter.AggregateID != "" {
		conds = append(conds, query.Eq(m_outbox.AggregateID, filter.AggregateID))
	}

	var rows []recordstore.Row
	var err error
	if q, ok := r.store.(recordstore.Querier); ok {
		stmt := query.From(m_outbox.TableName).
			Dialect(q.Dialect()).
			Where(conds...).
			OrderBy(m_outbox.CreatedAt, query.Desc).
			Limit(filter.Limit).
			Build()
		rows, err = q.Query(ctx, m_outbox.TableName, stmt)
	} else {
		rows, err = r.store.Select(ctx, m_outbox.TableName, conds...)
		if err == nil {
			// Newest first; insertion order breaks ties.
			for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
				rows[i], rows[j] = rows[j], rows[i]
			}
			sort.SliceStable(rows, func(i, j int) bool {
				return rows[i].Time(m_outbox.CreatedAt).After(rows[j].Time(m_outbox.CreatedAt))
			})
			rows = window(rows, filter.Limit, 0)
		}
	}
	if err != nil {
		return nil, err
	}

	events := make([]*contracts.OutboxEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, outboxFromRow(row))
	}
	return events, nil
}
