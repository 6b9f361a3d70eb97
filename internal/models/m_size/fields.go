package m_size

import "github.com/light-bringer/procat-admin/internal/platform/recordstore"

const (
	TableName = "size"

	ID         = "id"
	Name       = "name"
	Discipline = "discipline" // alpha or numeric
)

// Data represents the database model for the size table.
type Data struct {
	ID         int64
	Name       string
	Discipline string
}

func (d *Data) ToRow() recordstore.Row {
	return recordstore.Row{Name: d.Name, Discipline: d.Discipline}
}

func FromRow(row recordstore.Row) *Data {
	return &Data{ID: row.Int64(ID), Name: row.String(Name), Discipline: row.String(Discipline)}
}
