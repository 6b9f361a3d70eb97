package m_outbox

import (
	"time"

	"github.com/light-bringer/procat-admin/internal/platform/recordstore"
)

// Data represents the database model for the outbox_events table.
type Data struct {
	EventID     string
	EventType   string
	AggregateID string
	Payload     string // JSON
	Status      string
	CreatedAt   time.Time
}

func (d *Data) ToRow() recordstore.Row {
	return recordstore.Row{
		EventID:     d.EventID,
		EventType:   d.EventType,
		AggregateID: d.AggregateID,
		Payload:     d.Payload,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
	}
}

func FromRow(row recordstore.Row) *Data {
	return &Data{
		EventID:     row.String(EventID),
		EventType:   row.String(EventType),
		AggregateID: row.String(AggregateID),
		Payload:     row.String(Payload),
		Status:      row.String(Status),
		CreatedAt:   row.Time(CreatedAt),
	}
}
