package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/light-bringer/procat-admin/internal/app/catalog/queries/list_events"
)

// EventsHandler handles HTTP requests for recorded catalog events.
type EventsHandler struct {
	query *list_events.Query
}

// NewEventsHandler creates a new HTTP events handler.
func NewEventsHandler(query *list_events.Query) *EventsHandler {
	return &EventsHandler{
		query: query,
	}
}

// Event represents a domain event in the HTTP response.
type Event struct {
	EventID     string `json:"event_id"`
	EventType   string `json:"event_type"`
	AggregateID string `json:"aggregate_id"`
	Payload     string `json:"payload"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// ListEventsResponse represents the HTTP response for listing events.
type ListEventsResponse struct {
	Events []Event `json:"events"`
}

// ServeHTTP handles GET /api/v1/events requests.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Parse query parameters
	query := r.URL.Query()
	req := &list_events.Request{
		EventType:   query.Get("event_type"),
		AggregateID: query.Get("aggregate_id"),
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.ParseInt(limitStr, 10, 64); err == nil && limit > 0 {
			req.Limit = limit
		}
	}

	events, err := h.query.Execute(r.Context(), req)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	response := ListEventsResponse{Events: make([]Event, 0, len(events))}
	for _, e := range events {
		response.Events = append(response.Events, Event{
			EventID:     e.EventID,
			EventType:   e.EventType,
			AggregateID: e.AggregateID,
			Payload:     e.Payload,
			Status:      e.Status,
			CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, response)
}
