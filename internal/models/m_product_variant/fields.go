package m_product_variant

// Field name constants for the product_variant table.
const (
	TableName = "product_variant"

	ID        = "id"
	ProductID = "product_id"
	ColorID   = "color_id"
	SizeID    = "size_id"
	Images    = "images" // JSON array of URLs
	Quantity  = "quantity"
)
