package repo

import (
	"context"
	"errors"
	"sort"

	"github.com/light-bringer/procat-admin/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
	"github.com/light-bringer/procat-admin/internal/models/m_product"
	"github.com/light-bringer/procat-admin/internal/pkg/query"
	"github.com/light-bringer/procat-admin/internal/platform/recordstore"
)

// ReadModel implements the product ReadModel. SQL backends get ordering
// and paging pushed into the statement; other stores are paged in memory.
type ReadModel struct {
	store recordstore.Store
}

// NewReadModel creates a new ReadModel.
func NewReadModel(store recordstore.Store) *ReadModel {
	return &ReadModel{store: store}
}

// GetProductByID returns the product with its variants and tag ids.
func (r *ReadModel) GetProductByID(ctx context.Context, productID int64) (*contracts.ProductDTO, error) {
	row, err := recordstore.SelectOne(ctx, r.store, m_product.TableName, query.Eq(m_product.ID, productID))
	if errors.Is(err, recordstore.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	dto := productDTO(row)

	variants, err := NewVariantRepo(r.store).ByProducts(ctx, []int64{productID})
	if err != nil {
		return nil, err
	}
	for _, v := range variants {
		dto.Variants = append(dto.Variants, &contracts.VariantDTO{
			VariantID: v.ID,
			ColorID:   v.ColorID,
			SizeID:    v.SizeID,
			Images:    v.Images,
			Quantity:  v.Quantity,
		})
	}

	tags, err := NewProductTagRepo(r.store).TagIDsByProduct(ctx, []int64{productID})
	if err != nil {
		return nil, err
	}
	dto.TagIDs = tags[productID]
	return dto, nil
}

// ListProducts retrieves products newest first with filtering.
func (r *ReadModel) ListProducts(ctx context.Context, filter *contracts.ListFilter) (*contracts.ListResult, error) {
	conds := make([]query.Condition, 0, 3)
	if filter.Status != "" {
		conds = append(conds, query.Eq(m_product.Status, filter.Status))
	}
	if filter.BrandID > 0 {
		conds = append(conds, query.Eq(m_product.BrandID, filter.BrandID))
	}
	if filter.CategoryID > 0 {
		conds = append(conds, query.Eq(m_product.CategoryID, filter.CategoryID))
	}

	rows, total, err := r.page(ctx, conds, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}

	result := &contracts.ListResult{
		Products:   make([]*contracts.ProductDTO, 0, len(rows)),
		TotalCount: total,
	}
	for _, row := range rows {
		result.Products = append(result.Products, productDTO(row))
	}
	return result, nil
}

func (r *ReadModel) page(ctx context.Context, conds []query.Condition, limit, offset int64) ([]recordstore.Row, int64, error) {
	if q, ok := r.store.(recordstore.Querier); ok {
		base := query.From(m_product.TableName).Dialect(q.Dialect()).Where(conds...)

		countRows, err := q.Query(ctx, m_product.TableName, base.Count().Build())
		if err != nil {
			return nil, 0, err
		}
		var total int64
		if len(countRows) == 1 {
			total = countValue(countRows[0])
		}

		stmt := base.Select().OrderBy(m_product.CreatedAt, query.Desc).Limit(limit).Offset(offset).Build()
		rows, err := q.Query(ctx, m_product.TableName, stmt)
		return rows, total, err
	}

	rows, err := r.store.Select(ctx, m_product.TableName, conds...)
	if err != nil {
		return nil, 0, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		ti, tj := rows[i].Time(m_product.CreatedAt), rows[j].Time(m_product.CreatedAt)
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return rows[i].Int64(m_product.ID) > rows[j].Int64(m_product.ID)
	})
	return window(rows, limit, offset), int64(len(rows)), nil
}

// countValue reads the only column of a COUNT(*) row, whose name differs
// between dialects.
func countValue(row recordstore.Row) int64 {
	for col := range row {
		return row.Int64(col)
	}
	return 0
}

func window(rows []recordstore.Row, limit, offset int64) []recordstore.Row {
	if offset >= int64(len(rows)) {
		return nil
	}
	rows = rows[offset:]
	if limit > 0 && limit < int64(len(rows)) {
		rows = rows[:limit]
	}
	return rows
}

func productDTO(row recordstore.Row) *contracts.ProductDTO {
	d := m_product.FromRow(row)
	return &contracts.ProductDTO{
		ProductID:     d.ID,
		Name:          d.Name,
		Description:   d.Description,
		Price:         d.Price,
		Type:          d.Type,
		Status:        d.Status,
		BrandID:       d.BrandID,
		CategoryID:    d.CategoryID,
		SubcategoryID: d.SubcategoryID,
		MaterialID:    d.MaterialID,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
