package repo

import (
	"context"
	"fmt"

	"github.com/light-bringer/procat-admin/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
	"github.com/light-bringer/procat-admin/internal/models/m_product_variant"
	"github.com/light-bringer/procat-admin/internal/pkg/query"
	"github.com/light-bringer/procat-admin/internal/platform/recordstore"
)

// VariantRepo implements VariantRepository over a record store.
type VariantRepo struct {
	store recordstore.Store
}

// NewVariantRepo creates a new VariantRepo.
func NewVariantRepo(store recordstore.Store) contracts.VariantRepository {
	return &VariantRepo{store: store}
}

func (r *VariantRepo) Insert(ctx context.Context, variant *domain.Variant) (*domain.Variant, error) {
	data := &m_product_variant.Data{
		ProductID: variant.ProductID,
		ColorID:   variant.ColorID,
		SizeID:    variant.SizeID,
		Images:    variant.Images,
		Quantity:  variant.Quantity,
	}
	row, err := data.ToRow()
	if err != nil {
		return nil, err
	}
	rows, err := r.store.Insert(ctx, m_product_variant.TableName, row)
	if err != nil {
		return nil, err
	}
	if len(rows) != 1 {
		return nil, fmt.Errorf("insert into %s returned %d rows", m_product_variant.TableName, len(rows))
	}
	return r.fromRow(rows[0])
}

func (r *VariantRepo) ByProducts(ctx context.Context, productIDs []int64) ([]*domain.Variant, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	rows, err := r.store.Select(ctx, m_product_variant.TableName, query.In(m_product_variant.ProductID, productIDs))
	if err != nil {
		return nil, err
	}
	variants := make([]*domain.Variant, 0, len(rows))
	for _, row := range rows {
		v, err := r.fromRow(row)
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	sortVariants(variants)
	return variants, nil
}

func (r *VariantRepo) ProductIDsUsing(ctx context.Context, kind domain.AttributeKind, attrID int64) ([]int64, error) {
	column, err := variantColumn(kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.store.Select(ctx, m_product_variant.TableName, query.Eq(column, attrID))
	if err != nil {
		return nil, err
	}
	return distinct(rows, m_product_variant.ProductID), nil
}

func (r *VariantRepo) DeleteUsing(ctx context.Context, kind domain.AttributeKind, attrID int64) error {
	column, err := variantColumn(kind)
	if err != nil {
		return err
	}
	return r.store.Delete(ctx, m_product_variant.TableName, query.Eq(column, attrID))
}

func (r *VariantRepo) DeleteByProducts(ctx context.Context, productIDs []int64) error {
	if len(productIDs) == 0 {
		return nil
	}
	return r.store.Delete(ctx, m_product_variant.TableName, query.In(m_product_variant.ProductID, productIDs))
}

func (r *VariantRepo) DeleteByIDs(ctx context.Context, variantIDs []int64) error {
	if len(variantIDs) == 0 {
		return nil
	}
	return r.store.Delete(ctx, m_product_variant.TableName, query.In(m_product_variant.ID, variantIDs))
}

func (r *VariantRepo) fromRow(row recordstore.Row) (*domain.Variant, error) {
	data, err := m_product_variant.FromRow(row)
	if err != nil {
		return nil, err
	}
	return &domain.Variant{
		ID:        data.ID,
		ProductID: data.ProductID,
		ColorID:   data.ColorID,
		SizeID:    data.SizeID,
		Images:    data.Images,
		Quantity:  data.Quantity,
	}, nil
}

func variantColumn(kind domain.AttributeKind) (string, error) {
	switch kind {
	case domain.KindColor:
		return m_product_variant.ColorID, nil
	case domain.KindSize:
		return m_product_variant.SizeID, nil
	default:
		return "", fmt.Errorf("%w: variants do not reference %s", domain.ErrUnknownAttributeKind, kind)
	}
}
