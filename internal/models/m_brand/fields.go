package m_brand

import "github.com/light-bringer/procat-admin/internal/platform/recordstore"

const (
	TableName = "brand"

	ID   = "id"
	Name = "name"
	Logo = "logo" // nullable URL
)

// Data represents the database model for the brand table.
type Data struct {
	ID   int64
	Name string
	Logo *string
}

func (d *Data) ToRow() recordstore.Row {
	return recordstore.Row{Name: d.Name, Logo: d.Logo}
}

func FromRow(row recordstore.Row) *Data {
	return &Data{ID: row.Int64(ID), Name: row.String(Name), Logo: row.StringPtr(Logo)}
}
