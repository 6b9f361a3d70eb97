package domain

import (
	"strconv"
	"time"
)

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventType() string
	AggregateID() string
}

// ProductCreatedEvent is emitted when a product and its variants are stored.
type ProductCreatedEvent struct {
	ProductID int64
	Name      string
	Type      string
	Status    string
	Variants  int
	CreatedAt time.Time
}

func (e *ProductCreatedEvent) EventType() string {
	return "product.created"
}

func (e *ProductCreatedEvent) AggregateID() string {
	return strconv.FormatInt(e.ProductID, 10)
}

// ProductUpdatedEvent is emitted when a product edit completes.
type ProductUpdatedEvent struct {
	ProductID     int64
	ChangedFields []string
	TypeChanged   bool
	Variants      int
	UpdatedAt     time.Time
}

func (e *ProductUpdatedEvent) EventType() string {
	return "product.updated"
}

func (e *ProductUpdatedEvent) AggregateID() string {
	return strconv.FormatInt(e.ProductID, 10)
}

// ProductDeletedEvent is emitted when a product is deleted directly.
type ProductDeletedEvent struct {
	ProductID int64
	DeletedAt time.Time
}

func (e *ProductDeletedEvent) EventType() string {
	return "product.deleted"
}

func (e *ProductDeletedEvent) AggregateID() string {
	return strconv.FormatInt(e.ProductID, 10)
}

// AttributeDeletedEvent is emitted when an attribute cascade completes.
type AttributeDeletedEvent struct {
	Kind             AttributeKind
	AttributeID      int64
	AffectedProducts []int64
	DeletedProducts  []int64
	DeletedAt        time.Time
}

func (e *AttributeDeletedEvent) EventType() string {
	return "attribute.deleted"
}

func (e *AttributeDeletedEvent) AggregateID() string {
	return string(e.Kind) + ":" + strconv.FormatInt(e.AttributeID, 10)
}

// AttributeSavedEvent is emitted when an attribute is created or edited.
type AttributeSavedEvent struct {
	Kind        AttributeKind
	AttributeID int64
	Created     bool
	SavedAt     time.Time
}

func (e *AttributeSavedEvent) EventType() string {
	if e.Created {
		return "attribute.created"
	}
	return "attribute.updated"
}

func (e *AttributeSavedEvent) AggregateID() string {
	return string(e.Kind) + ":" + strconv.FormatInt(e.AttributeID, 10)
}
