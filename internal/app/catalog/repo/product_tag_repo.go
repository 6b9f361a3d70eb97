package repo

import (
	"context"

	"github.com/light-bringer/procat-admin/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-admin/internal/models/m_product_tag"
	"github.com/light-bringer/procat-admin/internal/pkg/query"
	"github.com/light-bringer/procat-admin/internal/platform/recordstore"
)

// ProductTagRepo implements ProductTagRepository over a record store.
type ProductTagRepo struct {
	store recordstore.Store
}

// NewProductTagRepo creates a new ProductTagRepo.
func NewProductTagRepo(store recordstore.Store) contracts.ProductTagRepository {
	return &ProductTagRepo{store: store}
}

// Insert links productID to every tag in one store call.
func (r *ProductTagRepo) Insert(ctx context.Context, productID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]recordstore.Row, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, m_product_tag.Data{ProductID: productID, TagID: tagID}.ToRow())
	}
	_, err := r.store.Insert(ctx, m_product_tag.TableName, rows...)
	return err
}

func (r *ProductTagRepo) ProductIDsForTag(ctx context.Context, tagID int64) ([]int64, error) {
	rows, err := r.store.Select(ctx, m_product_tag.TableName, query.Eq(m_product_tag.TagID, tagID))
	if err != nil {
		return nil, err
	}
	return distinct(rows, m_product_tag.ProductID), nil
}

func (r *ProductTagRepo) TagIDsByProduct(ctx context.Context, productIDs []int64) (map[int64][]int64, error) {
	out := make(map[int64][]int64)
	if len(productIDs) == 0 {
		return out, nil
	}
	rows, err := r.store.Select(ctx, m_product_tag.TableName, query.In(m_product_tag.ProductID, productIDs))
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		link := m_product_tag.FromRow(row)
		out[link.ProductID] = append(out[link.ProductID], link.TagID)
	}
	for id := range out {
		sortIDs(out[id])
	}
	return out, nil
}

func (r *ProductTagRepo) Delete(ctx context.Context, productID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	return r.store.Delete(ctx, m_product_tag.TableName,
		query.Eq(m_product_tag.ProductID, productID),
		query.In(m_product_tag.TagID, tagIDs),
	)
}

func (r *ProductTagRepo) DeleteByTag(ctx context.Context, tagID int64) error {
	return r.store.Delete(ctx, m_product_tag.TableName, query.Eq(m_product_tag.TagID, tagID))
}

func (r *ProductTagRepo) DeleteByProducts(ctx context.Context, productIDs []int64) error {
	if len(productIDs) == 0 {
		return nil
	}
	return r.store.Delete(ctx, m_product_tag.TableName, query.In(m_product_tag.ProductID, productIDs))
}
