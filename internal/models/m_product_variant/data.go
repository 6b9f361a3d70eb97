package m_product_variant

import (
	"encoding/json"
	"fmt"

	"github.com/light-bringer/procat-admin/internal/platform/recordstore"
)

// Data represents the database model for the product_variant table.
type Data struct {
	ID        int64
	ProductID int64
	ColorID   *int64
	SizeID    *int64
	Images    []string
	Quantity  int64
}

// ToRow converts Data to an insertable row.
func (d *Data) ToRow() (recordstore.Row, error) {
	images, err := json.Marshal(d.Images)
	if err != nil {
		return nil, fmt.Errorf("failed to encode images: %w", err)
	}
	return recordstore.Row{
		ProductID: d.ProductID,
		ColorID:   d.ColorID,
		SizeID:    d.SizeID,
		Images:    string(images),
		Quantity:  d.Quantity,
	}, nil
}

// FromRow reads a product_variant row.
func FromRow(row recordstore.Row) (*Data, error) {
	colorID, err := row.Int64Ptr(ColorID)
	if err != nil {
		return nil, err
	}
	sizeID, err := row.Int64Ptr(SizeID)
	if err != nil {
		return nil, err
	}
	var images []string
	if raw := row.String(Images); raw != "" {
		if err := json.Unmarshal([]byte(raw), &images); err != nil {
			return nil, fmt.Errorf("failed to decode images of variant %d: %w", row.Int64(ID), err)
		}
	}
	return &Data{
		ID:        row.Int64(ID),
		ProductID: row.Int64(ProductID),
		ColorID:   colorID,
		SizeID:    sizeID,
		Images:    images,
		Quantity:  row.Int64(Quantity),
	}, nil
}
