package m_product

// Field name constants for the product table.
// These provide type-safe field references and prevent typos.
const (
	TableName = "product"

	ID            = "id"
	Name          = "name"
	Description   = "description"
	Price         = "price"
	Type          = "type"
	BrandID       = "brand_id"
	CategoryID    = "category_id"
	SubcategoryID = "subcategory_id"
	MaterialID    = "material_id"
	Status        = "status"
	CreatedAt     = "created_at"
	UpdatedAt     = "updated_at"
)
