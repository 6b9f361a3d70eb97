package contracts

import (
	"context"
	"time"
)

// ProductDTO is a data transfer object for product queries.
type ProductDTO struct {
	ProductID     int64
	Name          string
	Description   string
	Price         float64
	Type          string
	Status        string
	BrandID       int64
	CategoryID    int64
	SubcategoryID int64
	MaterialID    int64
	TagIDs        []int64
	Variants      []*VariantDTO
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// VariantDTO is one variant of a ProductDTO.
type VariantDTO struct {
	VariantID int64
	ColorID   *int64
	SizeID    *int64
	Images    []string
	Quantity  int64
}

// ListFilter defines filtering options for listing products.
type ListFilter struct {
	Status     string
	BrandID    int64
	CategoryID int64
	Limit      int64
	Offset     int64
}

// ListResult contains product list results.
type ListResult struct {
	Products   []*ProductDTO
	TotalCount int64
}

// ReadModel defines the interface for product queries.
// Read models can bypass the domain layer for performance.
type ReadModel interface {
	// GetProductByID returns the product with its variants and tag ids.
	GetProductByID(ctx context.Context, productID int64) (*ProductDTO, error)

	// ListProducts returns products newest first without variants.
	ListProducts(ctx context.Context, filter *ListFilter) (*ListResult, error)
}

// EventFilter narrows outbox event listings.
type EventFilter struct {
	EventType   string
	AggregateID string
	Limit       int64
}

// EventsReadModel lists outbox events newest first.
type EventsReadModel interface {
	ListEvents(ctx context.Context, filter *EventFilter) ([]*OutboxEvent, error)
}
