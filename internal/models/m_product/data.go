package m_product

import (
	"time"

	"github.com/light-bringer/procat-admin/internal/platform/recordstore"
)

// Data represents the database model for the product table.
type Data struct {
	ID            int64
	Name          string
	Description   string
	Price         float64
	Type          string
	BrandID       int64
	CategoryID    int64
	SubcategoryID int64
	MaterialID    int64
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ToRow converts Data to an insertable row. The id is store-assigned and
// therefore omitted.
func (d *Data) ToRow() recordstore.Row {
	return recordstore.Row{
		Name:          d.Name,
		Description:   d.Description,
		Price:         d.Price,
		Type:          d.Type,
		BrandID:       d.BrandID,
		CategoryID:    d.CategoryID,
		SubcategoryID: d.SubcategoryID,
		MaterialID:    d.MaterialID,
		Status:        d.Status,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// FromRow reads a product row.
func FromRow(row recordstore.Row) *Data {
	return &Data{
		ID:            row.Int64(ID),
		Name:          row.String(Name),
		Description:   row.String(Description),
		Price:         row.Float64(Price),
		Type:          row.String(Type),
		BrandID:       row.Int64(BrandID),
		CategoryID:    row.Int64(CategoryID),
		SubcategoryID: row.Int64(SubcategoryID),
		MaterialID:    row.Int64(MaterialID),
		Status:        row.String(Status),
		CreatedAt:     row.Time(CreatedAt),
		UpdatedAt:     row.Time(UpdatedAt),
	}
}
