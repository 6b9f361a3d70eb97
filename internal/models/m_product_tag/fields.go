package m_product_tag

import "github.com/light-bringer/procat-admin/internal/platform/recordstore"

// Field name constants for the product_tag join table.
// Rows are identified by the (product_id, tag_id) pair.
const (
	TableName = "product_tag"

	ProductID = "product_id"
	TagID     = "tag_id"
)

// Data represents one product/tag association.
type Data struct {
	ProductID int64
	TagID     int64
}

// ToRow converts Data to an insertable row.
func (d Data) ToRow() recordstore.Row {
	return recordstore.Row{ProductID: d.ProductID, TagID: d.TagID}
}

// FromRow reads a product_tag row.
func FromRow(row recordstore.Row) Data {
	return Data{ProductID: row.Int64(ProductID), TagID: row.Int64(TagID)}
}
