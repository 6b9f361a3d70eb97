package list_events

import (
	"context"

	"github.com/light-bringer/procat-admin/internal/app/catalog/contracts"
)

// Request contains filtering parameters for listing events.
type Request struct {
	EventType   string // e.g. "attribute.deleted"
	AggregateID string // e.g. "color:4"
	Limit       int64  // default 100
}

// Query handles the list events query use case.
type Query struct {
	readModel contracts.EventsReadModel
}

// NewQuery creates a new list events query.
func NewQuery(readModel contracts.EventsReadModel) *Query {
	return &Query{
		readModel: readModel,
	}
}

// Execute retrieves recorded events, newest first.
func (q *Query) Execute(ctx context.Context, req *Request) ([]*contracts.OutboxEvent, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 100 // Default limit
	}
	if limit > 1000 {
		limit = 1000 // Max limit
	}

	return q.readModel.ListEvents(ctx, &contracts.EventFilter{
		EventType:   req.EventType,
		AggregateID: req.AggregateID,
		Limit:       limit,
	})
}
