package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/light-bringer/procat-admin/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
)

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// quantityValue keeps a quantity as typed, accepting a JSON number, string
// or null, so that the matrix builder can report unparsable values.
type quantityValue string

func (q *quantityValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*q = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = quantityValue(s)
	default:
		*q = quantityValue(data)
	}
	return nil
}

// imagePayload is either a stored URL or base64 file content.
type imagePayload struct {
	URL         string `json:"url,omitempty"`
	Data        []byte `json:"data,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	FileName    string `json:"file_name,omitempty"`
}

func (p imagePayload) toRef() domain.ImageRef {
	if len(p.Data) > 0 {
		return domain.NewUpload(p.Data, p.ContentType, p.FileName)
	}
	return domain.StoredURL(p.URL)
}

func (p *imagePayload) toUpload() *domain.Upload {
	if p == nil || len(p.Data) == 0 {
		return nil
	}
	return p.toRef().Upload
}

// matrixPayload is the variant matrix section of a product form. Image lists
// are keyed by color id; quantities by "<color>" or "<color>_<size>".
type matrixPayload struct {
	Colors         []int64                   `json:"colors"`
	SizeDiscipline string                    `json:"size_discipline"`
	Images         map[string][]imagePayload `json:"images"`
	Quantities     map[string]quantityValue  `json:"quantities"`
}

func (m matrixPayload) toDomain() (domain.MatrixInput, error) {
	in := domain.MatrixInput{
		SelectedColors: m.Colors,
		Discipline:     domain.SizeDiscipline(m.SizeDiscipline),
		ImagesByColor:  make(map[int64][]domain.ImageRef, len(m.Images)),
		QuantityByKey:  make(map[string]string, len(m.Quantities)),
	}
	for key, images := range m.Images {
		colorID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return in, fmt.Errorf("%w: images key %q is not a color id", errBadRequest, key)
		}
		refs := make([]domain.ImageRef, 0, len(images))
		for _, img := range images {
			refs = append(refs, img.toRef())
		}
		in.ImagesByColor[colorID] = refs
	}
	for key, qty := range m.Quantities {
		in.QuantityByKey[key] = string(qty)
	}
	return in, nil
}

type productPayload struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	Type          string   `json:"type"`
	Status        string   `json:"status"`
	BrandID       int64    `json:"brand_id"`
	CategoryID    int64    `json:"category_id"`
	SubcategoryID int64    `json:"subcategory_id"`
	MaterialID    int64    `json:"material_id"`
	TagIDs        []int64  `json:"tag_ids"`
	RemovedImages []string `json:"removed_images,omitempty"`
	matrixPayload
}

func (p productPayload) toForm() (domain.ProductForm, error) {
	matrix, err := p.matrixPayload.toDomain()
	if err != nil {
		return domain.ProductForm{}, err
	}
	return domain.ProductForm{
		Draft: domain.ProductDraft{
			Name:          p.Name,
			Description:   p.Description,
			Price:         p.Price,
			Type:          domain.ProductType(p.Type),
			Status:        domain.ProductStatus(p.Status),
			BrandID:       p.BrandID,
			CategoryID:    p.CategoryID,
			SubcategoryID: p.SubcategoryID,
			MaterialID:    p.MaterialID,
		},
		TagIDs:        p.TagIDs,
		Matrix:        matrix,
		RemovedImages: p.RemovedImages,
	}, nil
}

type variantResponse struct {
	ID       int64    `json:"id,omitempty"`
	ColorID  *int64   `json:"color_id"`
	SizeID   *int64   `json:"size_id"`
	Images   []string `json:"images"`
	Quantity int64    `json:"quantity"`
	// Uploads counts images still to be uploaded in a variant plan.
	Uploads int `json:"uploads,omitempty"`
}

type productResponse struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Price         float64           `json:"price"`
	Type          string            `json:"type"`
	Status        string            `json:"status"`
	BrandID       int64             `json:"brand_id"`
	CategoryID    int64             `json:"category_id"`
	SubcategoryID int64             `json:"subcategory_id"`
	MaterialID    int64             `json:"material_id"`
	TagIDs        []int64           `json:"tag_ids,omitempty"`
	Variants      []variantResponse `json:"variants,omitempty"`
	CreatedAt     string            `json:"created_at"`
	UpdatedAt     string            `json:"updated_at"`
}

func toProductResponse(dto *contracts.ProductDTO) productResponse {
	resp := productResponse{
		ID:            dto.ProductID,
		Name:          dto.Name,
		Description:   dto.Description,
		Price:         dto.Price,
		Type:          dto.Type,
		Status:        dto.Status,
		BrandID:       dto.BrandID,
		CategoryID:    dto.CategoryID,
		SubcategoryID: dto.SubcategoryID,
		MaterialID:    dto.MaterialID,
		TagIDs:        dto.TagIDs,
		CreatedAt:     dto.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     dto.UpdatedAt.Format(time.RFC3339),
	}
	for _, v := range dto.Variants {
		resp.Variants = append(resp.Variants, variantResponse{
			ID:       v.VariantID,
			ColorID:  v.ColorID,
			SizeID:   v.SizeID,
			Images:   v.Images,
			Quantity: v.Quantity,
		})
	}
	return resp
}

type attributePayload struct {
	Name        string        `json:"name"`
	Hex         string        `json:"hex,omitempty"`
	Discipline  string        `json:"discipline,omitempty"`
	CategoryID  int64         `json:"category_id,omitempty"`
	Media       *imagePayload `json:"media,omitempty"`
	RemoveMedia bool          `json:"remove_media,omitempty"`
}

type attributeResponse struct {
	ID         int64   `json:"id"`
	Kind       string  `json:"kind"`
	Name       string  `json:"name"`
	Hex        string  `json:"hex,omitempty"`
	Discipline string  `json:"discipline,omitempty"`
	CategoryID int64   `json:"category_id,omitempty"`
	MediaURL   *string `json:"media_url,omitempty"`
}

func toAttributeResponse(attr domain.Attribute) attributeResponse {
	resp := attributeResponse{
		ID:   attr.Identity(),
		Kind: string(attr.Kind()),
		Name: attr.Label(),
	}
	switch a := attr.(type) {
	case *domain.Color:
		resp.Hex = a.Hex
	case *domain.Size:
		resp.Discipline = string(a.Discipline)
	case *domain.Subcategory:
		resp.CategoryID = a.CategoryID
	}
	if holder, ok := attr.(domain.MediaHolder); ok {
		resp.MediaURL = holder.MediaURL()
	}
	return resp
}
