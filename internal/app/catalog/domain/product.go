package domain

import (
	"math"
	"strings"
	"time"
)

// ProductType decides the shape of a product's variant set.
type ProductType string

const (
	TypeClothing  ProductType = "Clothing"
	TypeAccessory ProductType = "Accessory"
)

// ProductStatus controls storefront visibility.
type ProductStatus string

const (
	StatusListed   ProductStatus = "Listed"
	StatusUnlisted ProductStatus = "Unlisted"
)

// ProductDraft holds the scalar fields of a product as submitted.
type ProductDraft struct {
	Name          string
	Description   string
	Price         float64
	Type          ProductType
	Status        ProductStatus
	BrandID       int64
	CategoryID    int64
	SubcategoryID int64
	MaterialID    int64
}

// Validate adds a field error for every invalid value.
func (d ProductDraft) Validate(ve *ValidationError) {
	if strings.TrimSpace(d.Name) == "" {
		ve.Add("name", "name is required")
	}
	if math.IsNaN(d.Price) || math.IsInf(d.Price, 0) || d.Price <= 0 {
		ve.Add("price", "price must be greater than zero")
	}
	if d.Type != TypeClothing && d.Type != TypeAccessory {
		ve.Add("type", "type must be Clothing or Accessory")
	}
	if d.Status != StatusListed && d.Status != StatusUnlisted {
		ve.Add("status", "status must be Listed or Unlisted")
	}
	if d.BrandID <= 0 {
		ve.Add("brand_id", "brand is required")
	}
	if d.CategoryID <= 0 {
		ve.Add("category_id", "category is required")
	}
	if d.SubcategoryID <= 0 {
		ve.Add("subcategory_id", "subcategory is required")
	}
	if d.MaterialID <= 0 {
		ve.Add("material_id", "material is required")
	}
}

func (d ProductDraft) normalized() ProductDraft {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	return d
}

// Product is the aggregate root of the catalog write side.
type Product struct {
	id            int64
	name          string
	description   string
	price         float64
	productType   ProductType
	status        ProductStatus
	brandID       int64
	categoryID    int64
	subcategoryID int64
	materialID    int64
	createdAt     time.Time
	updatedAt     time.Time

	changes *ChangeTracker
	events  []DomainEvent
}

// NewProduct creates an unsaved product. The id is assigned by the store and
// recorded with MarkPersisted.
func NewProduct(draft ProductDraft, now time.Time) (*Product, error) {
	ve := NewValidationError()
	draft.Validate(ve)
	if err := ve.Err(); err != nil {
		return nil, err
	}
	draft = draft.normalized()
	return &Product{
		name:          draft.Name,
		description:   draft.Description,
		price:         draft.Price,
		productType:   draft.Type,
		status:        draft.Status,
		brandID:       draft.BrandID,
		categoryID:    draft.CategoryID,
		subcategoryID: draft.SubcategoryID,
		materialID:    draft.MaterialID,
		createdAt:     now,
		updatedAt:     now,
		changes:       NewChangeTracker(),
		events:        make([]DomainEvent, 0),
	}, nil
}

// ReconstructProduct rebuilds a stored product (used by repositories).
func ReconstructProduct(id int64, draft ProductDraft, createdAt, updatedAt time.Time) *Product {
	return &Product{
		id:            id,
		name:          draft.Name,
		description:   draft.Description,
		price:         draft.Price,
		productType:   draft.Type,
		status:        draft.Status,
		brandID:       draft.BrandID,
		categoryID:    draft.CategoryID,
		subcategoryID: draft.SubcategoryID,
		materialID:    draft.MaterialID,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		changes:       NewChangeTracker(),
		events:        make([]DomainEvent, 0),
	}
}

// MarkPersisted records the store-assigned id of a new product.
func (p *Product) MarkPersisted(id int64) {
	p.id = id
}

// MarkCreated records that the product and its variants were stored.
func (p *Product) MarkCreated(variants int) {
	p.events = append(p.events, &ProductCreatedEvent{
		ProductID: p.id,
		Name:      p.name,
		Type:      string(p.productType),
		Status:    string(p.status),
		Variants:  variants,
		CreatedAt: p.createdAt,
	})
}

// Apply replaces the product's fields with draft, marking changed fields dirty.
func (p *Product) Apply(draft ProductDraft, now time.Time) error {
	ve := NewValidationError()
	draft.Validate(ve)
	if err := ve.Err(); err != nil {
		return err
	}
	draft = draft.normalized()

	if draft.Name != p.name {
		p.name = draft.Name
		p.changes.MarkDirty(FieldName)
	}
	if draft.Description != p.description {
		p.description = draft.Description
		p.changes.MarkDirty(FieldDescription)
	}
	if draft.Price != p.price {
		p.price = draft.Price
		p.changes.MarkDirty(FieldPrice)
	}
	if draft.Type != p.productType {
		p.productType = draft.Type
		p.changes.MarkDirty(FieldType)
	}
	if draft.Status != p.status {
		p.status = draft.Status
		p.changes.MarkDirty(FieldStatus)
	}
	if draft.BrandID != p.brandID {
		p.brandID = draft.BrandID
		p.changes.MarkDirty(FieldBrand)
	}
	if draft.CategoryID != p.categoryID {
		p.categoryID = draft.CategoryID
		p.changes.MarkDirty(FieldCategory)
	}
	if draft.SubcategoryID != p.subcategoryID {
		p.subcategoryID = draft.SubcategoryID
		p.changes.MarkDirty(FieldSubcategory)
	}
	if draft.MaterialID != p.materialID {
		p.materialID = draft.MaterialID
		p.changes.MarkDirty(FieldMaterial)
	}
	if p.changes.HasChanges() {
		p.updatedAt = now
	}
	return nil
}

// MarkUpdated records that the product and its variant set were rewritten.
func (p *Product) MarkUpdated(variants int, now time.Time) {
	fields := make([]string, 0)
	for _, f := range p.changes.DirtyFields() {
		fields = append(fields, string(f))
	}
	p.events = append(p.events, &ProductUpdatedEvent{
		ProductID:     p.id,
		ChangedFields: fields,
		TypeChanged:   p.TypeChanged(),
		Variants:      variants,
		UpdatedAt:     now,
	})
}

// MarkDeleted records the removal of the product.
func (p *Product) MarkDeleted(now time.Time) {
	p.events = append(p.events, &ProductDeletedEvent{ProductID: p.id, DeletedAt: now})
}

// TypeChanged reports whether Apply switched the product type, which
// invalidates the previous variant shape.
func (p *Product) TypeChanged() bool {
	return p.changes.Dirty(FieldType)
}

// Draft returns the current field values.
func (p *Product) Draft() ProductDraft {
	return ProductDraft{
		Name:          p.name,
		Description:   p.description,
		Price:         p.price,
		Type:          p.productType,
		Status:        p.status,
		BrandID:       p.brandID,
		CategoryID:    p.categoryID,
		SubcategoryID: p.subcategoryID,
		MaterialID:    p.materialID,
	}
}

func (p *Product) ID() int64               { return p.id }
func (p *Product) Name() string            { return p.name }
func (p *Product) Description() string     { return p.description }
func (p *Product) Price() float64          { return p.price }
func (p *Product) Type() ProductType       { return p.productType }
func (p *Product) Status() ProductStatus   { return p.status }
func (p *Product) BrandID() int64          { return p.brandID }
func (p *Product) CategoryID() int64       { return p.categoryID }
func (p *Product) SubcategoryID() int64    { return p.subcategoryID }
func (p *Product) MaterialID() int64       { return p.materialID }
func (p *Product) CreatedAt() time.Time    { return p.createdAt }
func (p *Product) UpdatedAt() time.Time    { return p.updatedAt }
func (p *Product) Changes() *ChangeTracker { return p.changes }

// DomainEvents returns the events recorded since the last ClearEvents.
func (p *Product) DomainEvents() []DomainEvent {
	return p.events
}

// ClearEvents drops recorded events.
func (p *Product) ClearEvents() {
	p.events = make([]DomainEvent, 0)
}
