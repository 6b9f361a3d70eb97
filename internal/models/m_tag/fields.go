package m_tag

import "github.com/light-bringer/procat-admin/internal/platform/recordstore"

const (
	TableName = "tag"

	ID    = "id"
	Name  = "name"
	Media = "media" // nullable URL
)

// Data represents the database model for the tag table.
type Data struct {
	ID    int64
	Name  string
	Media *string
}

func (d *Data) ToRow() recordstore.Row {
	return recordstore.Row{Name: d.Name, Media: d.Media}
}

func FromRow(row recordstore.Row) *Data {
	return &Data{ID: row.Int64(ID), Name: row.String(Name), Media: row.StringPtr(Media)}
}
