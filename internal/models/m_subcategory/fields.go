package m_subcategory

import "github.com/light-bringer/procat-admin/internal/platform/recordstore"

const (
	TableName = "subcategory"

	ID         = "id"
	Name       = "name"
	CategoryID = "category_id"
)

// Data represents the database model for the subcategory table.
type Data struct {
	ID         int64
	Name       string
	CategoryID int64
}

func (d *Data) ToRow() recordstore.Row {
	return recordstore.Row{Name: d.Name, CategoryID: d.CategoryID}
}

func FromRow(row recordstore.Row) *Data {
	return &Data{ID: row.Int64(ID), Name: row.String(Name), CategoryID: row.Int64(CategoryID)}
}
