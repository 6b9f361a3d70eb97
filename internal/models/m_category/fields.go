package m_category

import "github.com/light-bringer/procat-admin/internal/platform/recordstore"

const (
	TableName = "category"

	ID   = "id"
	Name = "name"
)

// Data represents the database model for the category table.
type Data struct {
	ID   int64
	Name string
}

func (d *Data) ToRow() recordstore.Row {
	return recordstore.Row{Name: d.Name}
}

func FromRow(row recordstore.Row) *Data {
	return &Data{ID: row.Int64(ID), Name: row.String(Name)}
}
