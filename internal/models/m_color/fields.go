package m_color

import "github.com/light-bringer/procat-admin/internal/platform/recordstore"

const (
	TableName = "color"

	ID   = "id"
	Name = "name"
	Hex  = "hex"
)

// Data represents the database model for the color table.
type Data struct {
	ID   int64
	Name string
	Hex  string
}

func (d *Data) ToRow() recordstore.Row {
	return recordstore.Row{Name: d.Name, Hex: d.Hex}
}

func FromRow(row recordstore.Row) *Data {
	return &Data{ID: row.Int64(ID), Name: row.String(Name), Hex: row.String(Hex)}
}
