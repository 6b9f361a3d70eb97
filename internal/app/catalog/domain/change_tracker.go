package domain

// Field identifies a persisted product field for change tracking.
type Field string

const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
	FieldPrice       Field = "price"
	FieldType        Field = "type"
	FieldBrand       Field = "brand_id"
	FieldCategory    Field = "category_id"
	FieldSubcategory Field = "subcategory_id"
	FieldMaterial    Field = "material_id"
	FieldStatus      Field = "status"
)

// ChangeTracker tracks which fields have been modified in a domain aggregate.
// This allows repositories to optimize updates by only persisting changed fields.
type ChangeTracker struct {
	dirtyFields map[Field]bool
	order       []Field
}

// NewChangeTracker creates a new ChangeTracker.
func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{
		dirtyFields: make(map[Field]bool),
	}
}

// MarkDirty marks a field as dirty (modified).
func (ct *ChangeTracker) MarkDirty(field Field) {
	if ct.dirtyFields[field] {
		return
	}
	ct.dirtyFields[field] = true
	ct.order = append(ct.order, field)
}

// Dirty checks if a field has been modified.
func (ct *ChangeTracker) Dirty(field Field) bool {
	return ct.dirtyFields[field]
}

// Clear clears all dirty field markers.
func (ct *ChangeTracker) Clear() {
	ct.dirtyFields = make(map[Field]bool)
	ct.order = nil
}

// HasChanges returns true if any field has been modified.
func (ct *ChangeTracker) HasChanges() bool {
	return len(ct.dirtyFields) > 0
}

// DirtyFields returns the dirty fields in the order they were first marked.
func (ct *ChangeTracker) DirtyFields() []Field {
	out := make([]Field, len(ct.order))
	copy(out, ct.order)
	return out
}
